// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Package tokenid generates the random identifiers used for grant codes,
// access tokens, and renewal tokens.
//
// The original moauthd derived a token's id by hashing a UUID; we skip the
// hashing step entirely and base64url-encode the random bytes directly; see
// SPEC_FULL.md §9 Open Question 1 for why.
package tokenid

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// byteLength is 24 bytes (192 bits) of entropy, comfortably above the 128
// bits generally considered sufficient for bearer tokens.
const byteLength = 24

// New returns a fresh, URL-safe token identifier.
func New() (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
