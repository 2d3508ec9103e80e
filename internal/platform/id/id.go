// Package id generates URL-safe identifiers.
//
// NewID encodes UUIDv4 bytes as lowercase base32 (RFC 4648) without padding,
// giving 26-character strings safe for URLs and file paths. NewCode encodes
// the same randomness as unpadded URL-safe base64, a shorter 22-character
// form suited to codes that people paste by hand.
package id

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a new random identifier.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// NewCode returns a new random short code.
func NewCode() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(u[:]), nil
}
