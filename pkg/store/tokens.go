// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"sync"
	"time"

	"github.com/moauth/moauthd-go/pkg/logger"
	"github.com/moauth/moauthd-go/pkg/tokenid"
)

// defaultCleanupInterval is how often the background sweep removes expired
// tokens absent an explicit TokensOption.
const defaultCleanupInterval = time.Minute

// Lifetimes bundles the two configured lifetimes a Create call needs: grant
// tokens are bounded by GrantLife, access and renewal tokens by TokenLife.
type Lifetimes struct {
	GrantLife time.Duration
	TokenLife time.Duration
}

// TokensOption configures a Tokens store at construction, following the
// functional-options idiom used throughout this codebase.
type TokensOption func(*Tokens)

// WithCleanupInterval overrides the background expiry-sweep interval.
func WithCleanupInterval(d time.Duration) TokensOption {
	return func(t *Tokens) { t.cleanupInterval = d }
}

// Tokens is the Token Store (§4.2): a reader/writer-locked, expiry-swept
// collection of grant, access, and renewal tokens keyed by opaque id.
type Tokens struct {
	mu     sync.RWMutex
	byID   map[string]*Token
	life   Lifetimes
	stopCh chan struct{}

	cleanupInterval time.Duration
}

// NewTokens builds a Token Store with the given lifetimes and starts its
// background expiry-sweep goroutine. Call Close to stop the sweep.
func NewTokens(life Lifetimes, opts ...TokensOption) *Tokens {
	t := &Tokens{
		byID:            make(map[string]*Token),
		life:            life,
		stopCh:          make(chan struct{}),
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.sweepLoop()
	return t
}

// Create mints a new token of the given kind and inserts it, returning the
// stored reference. expires_at is derived from the configured grant or
// token lifetime depending on kind.
func (t *Tokens) Create(kind TokenKind, app *Application, user string, uid int, gids []int, scopes, challenge string) (*Token, error) {
	id, err := tokenid.New()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	life := t.life.TokenLife
	if kind == KindGrant {
		life = t.life.GrantLife
	}

	tok := &Token{
		ID:          id,
		Kind:        kind,
		Application: app,
		User:        user,
		UID:         uid,
		GIDs:        gids,
		Scopes:      scopes,
		Challenge:   challenge,
		CreatedAt:   now,
		ExpiresAt:   now.Add(life),
	}

	t.mu.Lock()
	t.byID[id] = tok
	t.mu.Unlock()

	return tok, nil
}

// Find looks up a token by id. An already-expired token is treated as
// absent and removed on sight (upgraded to a write lock for the removal).
func (t *Tokens) Find(id string) *Token {
	t.mu.RLock()
	tok, ok := t.byID[id]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	if tok.Expired(time.Now()) {
		t.Delete(tok)
		return nil
	}
	return tok
}

// Delete removes a token.
func (t *Tokens) Delete(tok *Token) {
	t.mu.Lock()
	delete(t.byID, tok.ID)
	t.mu.Unlock()
}

// Consume atomically looks up and removes an unexpired token in one
// write-locked step, returning nil if the id is absent or already expired.
// This is what gives grant-token exchange its single-use guarantee under
// concurrent /token requests racing the same code: exactly one caller
// observes a non-nil result.
func (t *Tokens) Consume(id string) *Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	tok, ok := t.byID[id]
	if !ok {
		return nil
	}
	delete(t.byID, id)
	if tok.Expired(time.Now()) {
		return nil
	}
	return tok
}

// Close stops the background expiry sweep.
func (t *Tokens) Close() {
	close(t.stopCh)
}

func (t *Tokens) sweepLoop() {
	ticker := time.NewTicker(t.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

func (t *Tokens) sweep() {
	now := time.Now()

	t.mu.RLock()
	var expired []string
	for id, tok := range t.byID {
		if tok.Expired(now) {
			expired = append(expired, id)
		}
	}
	t.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	t.mu.Lock()
	for _, id := range expired {
		delete(t.byID, id)
	}
	t.mu.Unlock()

	logger.Debugf("swept %d expired tokens", len(expired))
}
