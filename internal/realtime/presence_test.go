package realtime

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestPresence(t *testing.T) *Presence {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewPresence(rdb)
}

func TestPresenceAddRemove(t *testing.T) {
	ctx := context.Background()
	p := newTestPresence(t)

	if err := p.Add(ctx, "u1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(ctx, "u2"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	online, err := p.Online(ctx)
	if err != nil {
		t.Fatalf("Online: %v", err)
	}
	sort.Strings(online)
	if len(online) != 2 || online[0] != "u1" || online[1] != "u2" {
		t.Fatalf("online = %v", online)
	}

	ok, err := p.IsOnline(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("IsOnline(u1) = %v, %v", ok, err)
	}

	if err := p.Remove(ctx, "u1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ok, err = p.IsOnline(ctx, "u1")
	if err != nil || ok {
		t.Fatalf("IsOnline after remove = %v, %v", ok, err)
	}
}

func TestPresenceAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p := newTestPresence(t)

	for i := 0; i < 3; i++ {
		if err := p.Add(ctx, "u1"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	online, err := p.Online(ctx)
	if err != nil {
		t.Fatalf("Online: %v", err)
	}
	if len(online) != 1 {
		t.Fatalf("online = %v", online)
	}
}
