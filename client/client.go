// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Package client implements the Client Helper (C12, §4.11): a thin library
// that discovers an authorization server's endpoints from a root URL,
// builds a PKCE-protected authorization URL, and opens it in the user's
// browser.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// wellKnownPaths is the discovery-fetch order named in §4.11: try the
// OAuth 2.0 Authorization Server Metadata path, then the OpenID Connect
// Discovery path, then fall back to the resource path itself. Grounded on
// the teacher's pkg/auth/oauth/oidc.go discoverOIDCEndpointsWithClientAndValidation,
// which tries OIDC-then-OAuth well-known documents in sequence.
var wellKnownPaths = []string{
	"/.well-known/oauth-authorization-server",
	"/.well-known/openid-configuration",
}

// Endpoints are the four endpoint URLs Connect extracts from the discovery
// document.
type Endpoints struct {
	AuthorizationEndpoint string
	TokenEndpoint         string
	IntrospectionEndpoint string
	JWKSURI               string
}

type discoveryDocument struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	IntrospectionEndpoint string `json:"introspection_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// maxDiscoveryBody bounds how much of a discovery response is read, to
// guard against a malicious or misconfigured server sending unbounded JSON.
const maxDiscoveryBody = 1 << 20 // 1 MiB

// Connect discovers the authorization server's endpoints from uri. If
// uri's path is "/", it tries each of wellKnownPaths in order before
// falling back to uri itself; otherwise it fetches uri directly.
func Connect(ctx context.Context, httpClient *http.Client, uri string) (Endpoints, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return Endpoints{}, fmt.Errorf("parsing %q: %w", uri, err)
	}
	if parsed.Scheme != "https" {
		return Endpoints{}, fmt.Errorf("%q does not use https", uri)
	}

	candidates := []string{uri}
	if parsed.Path == "" || parsed.Path == "/" {
		candidates = nil
		for _, p := range wellKnownPaths {
			withPath := *parsed
			withPath.Path = p
			candidates = append(candidates, withPath.String())
		}
		candidates = append(candidates, uri)
	}

	var lastErr error
	for _, candidate := range candidates {
		doc, err := fetchDiscoveryDocument(ctx, httpClient, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		return toEndpoints(doc)
	}

	return Endpoints{}, fmt.Errorf("discovering endpoints at %q: %w", uri, lastErr)
}

func fetchDiscoveryDocument(ctx context.Context, httpClient *http.Client, uri string) (discoveryDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return discoveryDocument{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return discoveryDocument{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return discoveryDocument{}, fmt.Errorf("%s: unexpected status %d", uri, resp.StatusCode)
	}

	var doc discoveryDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDiscoveryBody)).Decode(&doc); err != nil {
		return discoveryDocument{}, fmt.Errorf("%s: decoding discovery document: %w", uri, err)
	}
	return doc, nil
}

func toEndpoints(doc discoveryDocument) (Endpoints, error) {
	ep := Endpoints{
		AuthorizationEndpoint: doc.AuthorizationEndpoint,
		TokenEndpoint:         doc.TokenEndpoint,
		IntrospectionEndpoint: doc.IntrospectionEndpoint,
		JWKSURI:               doc.JWKSURI,
	}
	for name, value := range map[string]string{
		"authorization_endpoint": ep.AuthorizationEndpoint,
		"token_endpoint":         ep.TokenEndpoint,
	} {
		if value == "" {
			return Endpoints{}, fmt.Errorf("discovery document missing %s", name)
		}
		if !strings.HasPrefix(value, "https://") {
			return Endpoints{}, fmt.Errorf("%s %q does not use https", name, value)
		}
	}
	return ep, nil
}

// AuthorizeRequest bundles the parameters Authorize needs to assemble the
// authorization URL (§4.11).
type AuthorizeRequest struct {
	Server       Endpoints
	RedirectURI  string
	ClientID     string
	State        string
	CodeVerifier string
	Scope        string
}

// BuildAuthorizeURL assembles the authorization URL per §4.11: when
// CodeVerifier is set, it derives code_challenge via
// oauth2.S256ChallengeFromVerifier and adds code_challenge_method=S256.
func BuildAuthorizeURL(req AuthorizeRequest) (string, error) {
	if req.Server.AuthorizationEndpoint == "" {
		return "", fmt.Errorf("no authorization endpoint")
	}

	state := req.State
	if state == "" {
		// A caller that doesn't supply its own CSRF-correlation value
		// gets one generated for it, so Authorize never sends a request
		// with an empty state.
		state = uuid.NewString()
	}

	values := url.Values{
		"response_type": {"code"},
		"client_id":     {req.ClientID},
		"redirect_uri":  {req.RedirectURI},
		"state":         {state},
	}
	if req.Scope != "" {
		values.Set("scope", req.Scope)
	}
	if req.CodeVerifier != "" {
		values.Set("code_challenge", oauth2.S256ChallengeFromVerifier(req.CodeVerifier))
		values.Set("code_challenge_method", "S256")
	}

	sep := "?"
	if strings.Contains(req.Server.AuthorizationEndpoint, "?") {
		sep = "&"
	}
	return req.Server.AuthorizationEndpoint + sep + values.Encode(), nil
}

// GenerateVerifier returns a fresh PKCE code_verifier, delegating to
// golang.org/x/oauth2 (RFC 7636 §4.1).
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}
