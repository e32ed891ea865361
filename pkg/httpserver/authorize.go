// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/moauth/moauthd-go/pkg/errors"
	"github.com/moauth/moauthd-go/pkg/store"
)

// authorizeParams holds the form fields common to both phases of §4.4.
type authorizeParams struct {
	clientID            string
	redirectURI         string
	responseType        string
	scope               string
	state               string
	codeChallenge       string
	codeChallengeMethod string
}

func parseAuthorizeParams(values url.Values) authorizeParams {
	p := authorizeParams{
		clientID:            values.Get("client_id"),
		redirectURI:         values.Get("redirect_uri"),
		responseType:        values.Get("response_type"),
		scope:               values.Get("scope"),
		state:               values.Get("state"),
		codeChallenge:       values.Get("code_challenge"),
		codeChallengeMethod: values.Get("code_challenge_method"),
	}
	if p.scope == "" {
		p.scope = "private shared"
	}
	return p
}

// validate re-validates the required parameters, per §4.4 steps common to
// both phases.
func (p authorizeParams) validate() error {
	if p.clientID == "" {
		return fmt.Errorf("missing client_id")
	}
	if p.responseType != "code" {
		return fmt.Errorf("response_type must be \"code\"")
	}
	if p.codeChallengeMethod != "" && p.codeChallengeMethod != "S256" {
		return fmt.Errorf("code_challenge_method must be \"S256\"")
	}
	// Open Question 3 (SPEC_FULL.md §9): reject scope=openid since ID
	// token issuance isn't implemented.
	if scopeForbidsOpenID(p.scope) {
		return fmt.Errorf("scope=openid requires ID token issuance, not supported")
	}
	return nil
}

// scopeForbidsOpenID reports whether scope contains "openid" (Open
// Question 3, SPEC_FULL.md §9): ID token issuance isn't implemented, so
// openid is rejected wherever scope is accepted — /authorize and the
// password grant alike.
func scopeForbidsOpenID(scope string) bool {
	for _, s := range strings.Fields(scope) {
		if s == "openid" {
			return true
		}
	}
	return false
}

// handleAuthorizeGet is Phase 1 (§4.4): validate and render the login form.
func (s *Server) handleAuthorizeGet(w http.ResponseWriter, r *http.Request) *errors.Error {
	p := parseAuthorizeParams(r.URL.Query())

	if err := p.validate(); err != nil {
		return errors.NewClientProtocolError(err.Error(), err)
	}
	if s.apps.Find(p.clientID, p.redirectURI) == nil {
		return errors.NewClientProtocolError("unknown client_id/redirect_uri", nil)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, renderLoginForm(p))
	return nil
}

func renderLoginForm(p authorizeParams) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><body><form method=\"POST\" action=\"/authorize\">")
	hidden := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<input type=\"hidden\" name=\"%s\" value=\"%s\">", html.EscapeString(name), html.EscapeString(value))
	}
	hidden("client_id", p.clientID)
	hidden("redirect_uri", p.redirectURI)
	hidden("response_type", p.responseType)
	hidden("scope", p.scope)
	hidden("state", p.state)
	hidden("code_challenge", p.codeChallenge)
	hidden("code_challenge_method", p.codeChallengeMethod)
	b.WriteString("<label>Username <input name=\"username\"></label>")
	b.WriteString("<label>Password <input name=\"password\" type=\"password\"></label>")
	b.WriteString("<button type=\"submit\">Sign in</button></form></body></html>")
	return b.String()
}

// handleAuthorizePost is Phase 2 (§4.4): authenticate and issue a grant.
func (s *Server) handleAuthorizePost(w http.ResponseWriter, r *http.Request) *errors.Error {
	if err := r.ParseForm(); err != nil {
		return errors.NewClientProtocolError("parsing form", err)
	}

	p := parseAuthorizeParams(r.PostForm)
	if err := p.validate(); err != nil {
		return errors.NewClientProtocolError(err.Error(), err)
	}

	app := s.apps.Find(p.clientID, p.redirectURI)
	if app == nil {
		return errors.NewClientProtocolError("unknown client_id/redirect_uri", nil)
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	uid, gids, ok := s.authn.Authenticate(r.Context(), username, password)
	if !ok {
		return errors.NewOAuthDomainError("access_denied", app.RedirectURI, p.state, nil)
	}

	tok, err := s.toks.Create(store.KindGrant, app, username, uid, gids, p.scope, p.codeChallenge)
	if err != nil {
		return errors.NewOAuthDomainError("server_error", app.RedirectURI, p.state, err)
	}

	redirectTo(w, r, app.RedirectURI, url.Values{"code": {tok.ID}, "state": {p.state}})
	return nil
}

// redirectWithError implements the §7 item 5 error response: 302 back to
// redirect_uri with error= and the original state.
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errCode, state string) {
	redirectTo(w, r, redirectURI, url.Values{"error": {errCode}, "state": {state}})
}

func redirectTo(w http.ResponseWriter, r *http.Request, redirectURI string, params url.Values) {
	sep := "?"
	if strings.Contains(redirectURI, "?") {
		sep = "&"
	}
	http.Redirect(w, r, redirectURI+sep+params.Encode(), http.StatusFound)
}
