// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import "github.com/moauth/moauthd-go/pkg/store"

// identity is what Authorization header processing (§4.8) attaches to a
// request: either a freshly authenticated Basic-auth principal or the
// resolved Bearer access token.
type identity struct {
	user string
	uid  int
	gids []int

	// token is set only for Bearer auth; nil for Basic auth.
	token *store.Token
}

func (id *identity) hasScope(scope string) bool {
	if id == nil {
		return false
	}
	if id.token != nil {
		return id.token.HasScope(scope)
	}
	return false
}
