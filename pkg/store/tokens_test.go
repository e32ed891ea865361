// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T, life Lifetimes) *Tokens {
	t.Helper()
	toks := NewTokens(life, WithCleanupInterval(time.Hour))
	t.Cleanup(toks.Close)
	return toks
}

func TestTokensCreateAndFind(t *testing.T) {
	toks := newTestTokens(t, Lifetimes{GrantLife: time.Minute, TokenLife: time.Hour})

	tok, err := toks.Create(KindAccess, nil, "alice", 1000, []int{1000}, "private shared", "")
	require.NoError(t, err)
	require.NotEmpty(t, tok.ID)

	found := toks.Find(tok.ID)
	require.NotNil(t, found)
	assert.Equal(t, tok.ID, found.ID)
	assert.Equal(t, "alice", found.User)
}

func TestTokensFindMissing(t *testing.T) {
	toks := newTestTokens(t, Lifetimes{GrantLife: time.Minute, TokenLife: time.Hour})
	assert.Nil(t, toks.Find("does-not-exist"))
}

func TestTokensDeleteMakesGrantUnfindable(t *testing.T) {
	toks := newTestTokens(t, Lifetimes{GrantLife: time.Minute, TokenLife: time.Hour})

	tok, err := toks.Create(KindGrant, nil, "alice", 1000, nil, "private", "")
	require.NoError(t, err)

	toks.Delete(tok)
	assert.Nil(t, toks.Find(tok.ID))
}

func TestTokensExpiredFindIsRemoved(t *testing.T) {
	toks := newTestTokens(t, Lifetimes{GrantLife: time.Millisecond, TokenLife: time.Hour})

	tok, err := toks.Create(KindGrant, nil, "alice", 1000, nil, "private", "")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.Nil(t, toks.Find(tok.ID))
}

func TestTokensConcurrentDistinctCodesAllSucceed(t *testing.T) {
	toks := newTestTokens(t, Lifetimes{GrantLife: time.Minute, TokenLife: time.Hour})

	const n = 50
	ids := make([]string, n)
	for i := range ids {
		tok, err := toks.Create(KindGrant, nil, "alice", 1000, nil, "private", "")
		require.NoError(t, err)
		ids[i] = tok.ID
	}

	var wg sync.WaitGroup
	successes := make([]bool, n)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			if toks.Consume(id) != nil {
				successes[i] = true
			}
		}(i, id)
	}
	wg.Wait()

	for _, ok := range successes {
		assert.True(t, ok)
	}
}

func TestTokensConcurrentSameCodeExactlyOneWinner(t *testing.T) {
	toks := newTestTokens(t, Lifetimes{GrantLife: time.Minute, TokenLife: time.Hour})

	tok, err := toks.Create(KindGrant, nil, "alice", 1000, nil, "private", "")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if toks.Consume(tok.ID) != nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successCount)
	assert.Nil(t, toks.Find(tok.ID))
}
