package database

import (
	"path/filepath"
	"testing"
)

func TestInitDBCreatesSchema(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"users", "chatbots", "messages"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestInitDBIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("first InitDB: %v", err)
	}
	db.Close()

	db, err = InitDB(path)
	if err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	db.Close()
}

func TestSchemaRejectsInvalidEnum(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(
		`INSERT INTO chatbots (id, user_id, name, gender, age, occupation, personality, role, created_at, updated_at)
		 VALUES ('c1', 'u1', 'Max', 'male', 30, 'Chef', 'Friendly', 'r', datetime('now'), datetime('now'))`,
	)
	if err == nil {
		t.Fatal("expected CHECK violation for lowercase gender")
	}
}
