// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticAuthenticatorAcceptsConfiguredPassword(t *testing.T) {
	a := NewStaticAuthenticator("hunter2", 1000, []int{1000, 1001})

	uid, gids, ok := a.Authenticate(context.Background(), "anyone", "hunter2")
	assert.True(t, ok)
	assert.Equal(t, 1000, uid)
	assert.Equal(t, []int{1000, 1001}, gids)
}

func TestStaticAuthenticatorRejectsWrongPassword(t *testing.T) {
	a := NewStaticAuthenticator("hunter2", 1000, nil)

	_, _, ok := a.Authenticate(context.Background(), "anyone", "wrong")
	assert.False(t, ok)
}

func TestStaticAuthenticatorRejectsEmptyPassword(t *testing.T) {
	a := NewStaticAuthenticator("", 1000, nil)

	_, _, ok := a.Authenticate(context.Background(), "anyone", "")
	assert.False(t, ok)
}

func TestCapGroups(t *testing.T) {
	many := make([]int, 150)
	capped := capGroups(many)
	assert.Len(t, capped, 100)
}
