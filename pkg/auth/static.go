// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package auth

import "context"

// StaticAuthenticator authenticates any username against a single
// configured password, per the TestPassword configuration directive (§6):
// "bypasses Authenticator in tests". It is the only Authenticator this
// module implements directly; a real OS account database (PAM, NSS, or
// similar) is an external collaborator per §7 Non-goals and is wired in by
// the deployment, not by this package.
type StaticAuthenticator struct {
	password string
	uid      int
	gids     []int
}

// NewStaticAuthenticator returns an Authenticator that accepts any username
// paired with password, binding uid/gids to every successful login.
func NewStaticAuthenticator(password string, uid int, gids []int) *StaticAuthenticator {
	return &StaticAuthenticator{password: password, uid: uid, gids: capGroups(gids)}
}

// Authenticate implements Authenticator.
func (s *StaticAuthenticator) Authenticate(_ context.Context, _, password string) (int, []int, bool) {
	if password == "" || password != s.password {
		return 0, nil, false
	}
	return s.uid, s.gids, true
}
