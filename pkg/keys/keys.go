// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Package keys implements the JWT Key Manager (C7, §4.10, §6): it
// generates an RS256 private key on first start, persists it to a single
// state file, and derives the public JWK set served at
// /.well-known/jwks.json.
package keys

import (
	"bufio"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jose "github.com/go-jose/go-jose/v4"
)

// Algorithm is the fixed JWS algorithm this server signs with (§4.10).
const Algorithm = "RS256"

// privateKeyDirective is the persisted state file's line prefix, per §6:
// "A single file containing at least `PrivateKey <JWK-encoded RS256
// private key>`."
const privateKeyDirective = "PrivateKey"

// rsaKeyBits is the modulus size for newly generated signing keys.
const rsaKeyBits = 2048

// Manager owns the server's persistent RS256 signing key and exposes its
// public half as a JWK set. Immutable after construction, so it needs no
// locking (§5: "the JWT signing key... [is] immutable after startup").
type Manager struct {
	keyID string
	key   *rsa.PrivateKey
}

// LoadOrGenerate reads the signing key from path. If the file does not
// exist, it generates a fresh RS256 key and persists it before returning.
func LoadOrGenerate(path string) (*Manager, error) {
	key, err := readKeyFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading signing key %s: %w", path, err)
		}
		key, err = rsa.GenerateKey(rand.Reader, rsaKeyBits)
		if err != nil {
			return nil, fmt.Errorf("generating signing key: %w", err)
		}
		if err := writeKeyFile(path, key); err != nil {
			return nil, fmt.Errorf("persisting signing key %s: %w", path, err)
		}
	}

	return newManager(key)
}

func newManager(key *rsa.PrivateKey) (*Manager, error) {
	keyID, err := deriveKeyID(key.Public())
	if err != nil {
		return nil, fmt.Errorf("deriving key id: %w", err)
	}
	return &Manager{keyID: keyID, key: key}, nil
}

// deriveKeyID computes the RFC 7638 JWK thumbprint of pub, base64url
// encoded, for use as the JWK's "kid".
func deriveKeyID(pub any) (string, error) {
	jwk := jose.JSONWebKey{Key: pub, Algorithm: Algorithm, Use: "sig"}
	thumb, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(thumb), nil
}

// KeyID returns the thumbprint-derived "kid" of the signing key.
func (m *Manager) KeyID() string { return m.keyID }

// PrivateKey returns the RSA private key, for JWT-signing call sites.
func (m *Manager) PrivateKey() *rsa.PrivateKey { return m.key }

// PublicJWKS returns the one-key public JWK set served at
// /.well-known/jwks.json.
func (m *Manager) PublicJWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{
			{
				Key:       m.key.Public(),
				KeyID:     m.keyID,
				Algorithm: Algorithm,
				Use:       "sig",
			},
		},
	}
}

func readKeyFile(path string) (*rsa.PrivateKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		keyword, value, found := strings.Cut(line, " ")
		if !found || keyword != privateKeyDirective {
			continue
		}

		var jwk jose.JSONWebKey
		if err := json.Unmarshal([]byte(strings.TrimSpace(value)), &jwk); err != nil {
			return nil, fmt.Errorf("decoding persisted signing key: %w", err)
		}
		rsaKey, ok := jwk.Key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("persisted signing key is not RSA")
		}
		return rsaKey, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no %s directive in %s", privateKeyDirective, path)
}

// writeKeyFile persists key atomically (temp file + rename) with mode
// 0600, per §6.
func writeKeyFile(path string, key *rsa.PrivateKey) error {
	jwk := jose.JSONWebKey{Key: key, Algorithm: Algorithm, Use: "sig"}
	encoded, err := json.Marshal(jwk)
	if err != nil {
		return fmt.Errorf("encoding signing key: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".signingkey-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := fmt.Fprintf(tmp, "%s %s\n", privateKeyDirective, encoded); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
