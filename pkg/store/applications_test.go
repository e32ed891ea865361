// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationsAddAndFind(t *testing.T) {
	apps := NewApplications()
	app := apps.Add(Application{ClientID: "app1", RedirectURI: "https://app/cb"})
	require.NotNil(t, app)

	found := apps.Find("app1", "https://app/cb")
	require.NotNil(t, found)
	assert.Same(t, app, found)

	assert.Nil(t, apps.Find("app1", "https://other/cb"))
	assert.Nil(t, apps.Find("unknown", ""))
}

func TestApplicationsFindByClientIDOnlyReturnsFirstMatch(t *testing.T) {
	apps := NewApplications()
	first := apps.Add(Application{ClientID: "app1", RedirectURI: "https://app/a"})
	apps.Add(Application{ClientID: "app1", RedirectURI: "https://app/b"})

	got := apps.Find("app1", "")
	assert.Same(t, first, got)
}

func TestApplicationsAddCollapsesDuplicates(t *testing.T) {
	apps := NewApplications()
	first := apps.Add(Application{ClientID: "app1", RedirectURI: "https://app/cb"})
	second := apps.Add(Application{ClientID: "app1", RedirectURI: "https://app/cb"})

	assert.Same(t, first, second)
	assert.Len(t, apps.All(), 1)
}
