// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NewNotFoundError("no such resource", nil)
		assert.Equal(t, "not_found: no such resource", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("stat failed")
		err := NewInternalError("could not read resource", cause)
		assert.Equal(t, "internal: could not read resource: stat failed", err.Error())
		assert.Equal(t, cause, err.Unwrap())
	})
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err      *Error
		wantCode int
	}{
		{NewClientProtocolError("bad request line", nil), 400},
		{NewAuthenticationError("missing bearer token", nil), 401},
		{NewAuthorizationError("insufficient scope", nil), 403},
		{NewNotFoundError("unknown path", nil), 404},
		{NewInternalError("panic recovered", nil), 500},
		{NewOAuthDomainError("access_denied", "https://app/cb", "xyz", nil), 0},
	}

	for _, tc := range cases {
		t.Run(tc.err.Type, func(t *testing.T) {
			assert.Equal(t, tc.wantCode, tc.err.StatusCode())
		})
	}
}

func TestOAuthDomainError(t *testing.T) {
	err := NewOAuthDomainError("access_denied", "https://app/cb", "state123", nil)
	require.True(t, IsOAuthDomain(err))
	assert.Equal(t, "access_denied", err.OAuthCode)
	assert.Equal(t, "https://app/cb", err.RedirectURI)
	assert.Equal(t, "state123", err.State)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsClientProtocol(NewClientProtocolError("x", nil)))
	assert.True(t, IsAuthentication(NewAuthenticationError("x", nil)))
	assert.True(t, IsAuthorization(NewAuthorizationError("x", nil)))
	assert.True(t, IsNotFound(NewNotFoundError("x", nil)))
	assert.True(t, IsInternal(NewInternalError("x", nil)))
	assert.False(t, IsNotFound(NewInternalError("x", nil)))
	assert.False(t, IsNotFound(errors.New("plain error")))
}
