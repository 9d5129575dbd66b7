// Package prompt compiles a chatbot configuration into the system prompt
// sent with every completion request. Compile is pure: the persona store
// calls it immediately before each write so the stored prompt can never go
// stale relative to the config fields.
package prompt

import (
	"fmt"
	"strings"
)

// Compile builds the system prompt from persona fields. Relationship and
// tone are optional; pass "" to omit their clauses. It performs no
// validation — field constraints are enforced by the persona store before
// this is called.
func Compile(name string, age int, gender, occupation, personality, relationship, tone string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a %d-year-old %s %s with an %s personality.", name, age, gender, occupation, personality)

	if relationship != "" {
		fmt.Fprintf(&b, " You act as the user's %s in conversations.", relationship)
	}

	if tone != "" {
		fmt.Fprintf(&b, " You speak in a %s tone.", tone)
	}

	fmt.Fprintf(&b, " Stay in character at all times. Respond like a real person—use contractions, casual phrasing, and natural language. Avoid repeating phrases like \"As a %s\" unless it truly fits the context.", occupation)

	// Note: tone values are stored capitalized ("Poetic", "Formal"), so
	// this comparison never matches today. Kept as-is to match the
	// prompts the deployed system actually produces.
	if tone == "poetic" || tone == "formal" {
		b.WriteString(" Keep your responses well-structured and clear. Avoid overly casual phrasing unless it fits the context. Elaborate only when needed.")
	} else {
		b.WriteString(" Keep your responses short and casual. Avoid overexplaining unless the user asks. Talk like a friend texting — quick, natural, and easy to understand.")
	}

	return b.String()
}
