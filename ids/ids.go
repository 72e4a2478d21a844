// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// New creates a random hex ID of the specified byte length.
func New(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// MustNew is New for call sites where entropy failure is unrecoverable
// anyway (test fixtures, event payload ids). It panics on error.
func MustNew(byteLen int) string {
	id, err := New(byteLen)
	if err != nil {
		panic(err)
	}
	return id
}
