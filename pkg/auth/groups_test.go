// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGroupNumeric(t *testing.T) {
	gid, err := ResolveGroup("42")
	require.NoError(t, err)
	assert.Equal(t, 42, gid)
}

func TestResolveGroupUnknownName(t *testing.T) {
	_, err := ResolveGroup("definitely-not-a-real-group-name")
	assert.Error(t, err)
}

func TestInGroup(t *testing.T) {
	assert.True(t, InGroup([]int{1, 2, 3}, 2))
	assert.False(t, InGroup([]int{1, 2, 3}, 4))
	assert.False(t, InGroup(nil, 1))
}
