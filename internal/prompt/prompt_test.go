package prompt

import (
	"strings"
	"testing"
)

func TestCompileBaseClause(t *testing.T) {
	got := Compile("Max", 30, "Male", "Chef", "Friendly", "", "")
	want := "You are Max, a 30-year-old Male Chef with an Friendly personality."
	if !strings.HasPrefix(got, want) {
		t.Fatalf("prompt does not start with base clause:\ngot  %q\nwant prefix %q", got, want)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	a := Compile("Ada", 42, "Female", "Engineer", "Analytical", "Mentor", "Formal")
	b := Compile("Ada", 42, "Female", "Engineer", "Analytical", "Mentor", "Formal")
	if a != b {
		t.Fatalf("two compilations of identical input differ:\n%q\n%q", a, b)
	}
}

func TestCompileOptionalClauses(t *testing.T) {
	tests := []struct {
		name         string
		relationship string
		tone         string
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:         "both present",
			relationship: "Friend",
			tone:         "Casual",
			wantContains: []string{
				"You act as the user's Friend in conversations.",
				"You speak in a Casual tone.",
			},
		},
		{
			name: "both absent",
			wantAbsent: []string{
				"You act as the user's",
				"You speak in a",
			},
		},
		{
			name:         "relationship only",
			relationship: "Rival",
			wantContains: []string{"You act as the user's Rival in conversations."},
			wantAbsent:   []string{"You speak in a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile("Kai", 25, "Non-binary", "Barista", "Sarcastic", tt.relationship, tt.tone)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("prompt missing %q:\n%s", want, got)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("prompt unexpectedly contains %q:\n%s", absent, got)
				}
			}
		})
	}
}

func TestCompileQuotesOccupation(t *testing.T) {
	got := Compile("Max", 30, "Male", "Chef", "Friendly", "", "")
	if !strings.Contains(got, `"As a Chef"`) {
		t.Fatalf("prompt missing quoted occupation example: %s", got)
	}
}

// The length-style branch compares against lowercase literals while stored
// tones are capitalized, so capitalized tones always get the casual clause.
func TestCompileToneStyleBranch(t *testing.T) {
	casual := " Talk like a friend texting"
	structured := " Keep your responses well-structured and clear."

	for _, tone := range []string{"Poetic", "Formal", "Casual", "Professional", ""} {
		got := Compile("Max", 30, "Male", "Chef", "Friendly", "", tone)
		if !strings.Contains(got, casual) {
			t.Errorf("tone %q: expected casual closing clause", tone)
		}
		if strings.Contains(got, structured) {
			t.Errorf("tone %q: unexpected structured closing clause", tone)
		}
	}

	for _, tone := range []string{"poetic", "formal"} {
		got := Compile("Max", 30, "Male", "Chef", "Friendly", "", tone)
		if !strings.Contains(got, structured) {
			t.Errorf("tone %q: expected structured closing clause", tone)
		}
	}
}
