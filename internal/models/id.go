package models

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns an opaque 24-character hex identifier. Users and chatbots
// share one id space so a message party can be either without a type column.
func NewID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
