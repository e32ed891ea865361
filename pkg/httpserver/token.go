// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/moauth/moauthd-go/pkg/errors"
	"github.com/moauth/moauthd-go/pkg/store"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// handleToken implements §4.5's two grant types.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) *errors.Error {
	if err := r.ParseForm(); err != nil {
		return errors.NewClientProtocolError("parsing form", err)
	}

	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		return s.handleAuthorizationCodeGrant(w, r)
	case "password":
		return s.handlePasswordGrant(w, r)
	default:
		return errors.NewClientProtocolError("unsupported grant_type", nil)
	}
}

func (s *Server) handleAuthorizationCodeGrant(w http.ResponseWriter, r *http.Request) *errors.Error {
	clientID := r.PostForm.Get("client_id")
	code := r.PostForm.Get("code")
	if clientID == "" || code == "" {
		return errors.NewClientProtocolError("missing client_id or code", nil)
	}

	redirectURI := r.PostForm.Get("redirect_uri")
	app := s.apps.Find(clientID, redirectURI)
	if app == nil {
		return errors.NewClientProtocolError("unknown client_id/redirect_uri", nil)
	}

	grant := s.toks.Consume(code)
	if grant == nil || grant.Kind != store.KindGrant || grant.Application == nil || grant.Application.ClientID != app.ClientID {
		return errors.NewClientProtocolError("invalid or expired code", nil)
	}

	if grant.Challenge != "" {
		verifier := r.PostForm.Get("code_verifier")
		if verifier == "" || !pkceMatches(grant.Challenge, verifier) {
			return errors.NewClientProtocolError("PKCE verification failed", nil)
		}
	}

	access, err := s.toks.Create(store.KindAccess, grant.Application, grant.User, grant.UID, grant.GIDs, grant.Scopes, "")
	if err != nil {
		return errors.NewClientProtocolError("issuing access token", err)
	}

	writeTokenResponse(w, access)
	return nil
}

func (s *Server) handlePasswordGrant(w http.ResponseWriter, r *http.Request) *errors.Error {
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		return errors.NewClientProtocolError("missing username or password", nil)
	}

	uid, gids, ok := s.authn.Authenticate(r.Context(), username, password)
	if !ok {
		return errors.NewClientProtocolError("invalid credentials", nil)
	}

	scope := r.PostForm.Get("scope")
	if scope == "" {
		scope = s.cfg.DefaultScopes
	}
	// Open Question 3 (SPEC_FULL.md §9): openid is rejected at /authorize
	// and the password grant alike, for parity with scopeForbidsOpenID's
	// use in authorize.go.
	if scopeForbidsOpenID(scope) {
		return errors.NewClientProtocolError("scope=openid requires ID token issuance, not supported", nil)
	}

	access, err := s.toks.Create(store.KindAccess, nil, username, uid, gids, scope, "")
	if err != nil {
		return errors.NewClientProtocolError("issuing access token", err)
	}

	writeTokenResponse(w, access)
	return nil
}

func writeTokenResponse(w http.ResponseWriter, tok *store.Token) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(tokenResponse{
		AccessToken: tok.ID,
		TokenType:   "access",
		ExpiresIn:   int64(tok.ExpiresAt.Sub(tok.CreatedAt).Seconds()),
	})
}

// pkceMatches implements the §4.5/§8 PKCE check: base64url(sha256(verifier))
// == challenge. Grounded on the teacher's server/crypto/pkce.go, which
// delegates PKCE derivation to golang.org/x/oauth2 rather than hand-rolling
// it with crypto/sha256 directly.
func pkceMatches(challenge, verifier string) bool {
	computed := oauth2.S256ChallengeFromVerifier(verifier)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}
