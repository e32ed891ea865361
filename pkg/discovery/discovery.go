// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Package discovery builds the Metadata Builder (C8, §4.10): the RFC 8414 /
// OpenID Connect discovery document, precomputed once at startup from the
// server's identity and the Resource Registry's scopes.
package discovery

import "encoding/json"

// Document is the discovery JSON document served at both
// /.well-known/oauth-authorization-server and
// /.well-known/openid-configuration.
type Document struct {
	Issuer                     string   `json:"issuer"`
	AuthorizationEndpoint      string   `json:"authorization_endpoint"`
	TokenEndpoint              string   `json:"token_endpoint"`
	UserinfoEndpoint           string   `json:"userinfo_endpoint"`
	JWKSURI                    string   `json:"jwks_uri"`
	RegistrationEndpoint       string   `json:"registration_endpoint"`
	IntrospectionEndpoint      string   `json:"introspection_endpoint"`
	ScopesSupported            []string `json:"scopes_supported"`
	ResponseTypesSupported     []string `json:"response_types_supported"`
	SubjectTypesSupported      []string `json:"subject_types_supported"`
	IDTokenSigningAlgSupported []string `json:"id_token_signing_alg_values_supported"`
	ClaimsSupported            []string `json:"claims_supported"`
	TokenEndpointAuthMethods   []string `json:"token_endpoint_auth_methods_supported"`
	GrantTypesSupported        []string `json:"grant_types_supported"`
}

// Identity is the subset of server identity (§3) the discovery document is
// built from.
type Identity struct {
	Issuer string // https://<name>:<port>
}

// Build constructs the discovery document for issuer, advertising openid
// plus every scope registered in the Resource Registry.
//
// grant_types_supported omits refresh_token: SPEC_FULL.md §9 Open Question
// 2 resolves against advertising a grant this server does not implement
// end-to-end.
func Build(id Identity, resourceScopes []string) Document {
	scopes := append([]string{"openid"}, resourceScopes...)

	return Document{
		Issuer:                     id.Issuer,
		AuthorizationEndpoint:      id.Issuer + "/authorize",
		TokenEndpoint:              id.Issuer + "/token",
		UserinfoEndpoint:           id.Issuer + "/userinfo",
		JWKSURI:                    id.Issuer + "/.well-known/jwks.json",
		RegistrationEndpoint:       id.Issuer + "/register",
		IntrospectionEndpoint:      id.Issuer + "/introspect",
		ScopesSupported:            scopes,
		ResponseTypesSupported:     []string{"code", "id_token", "token"},
		SubjectTypesSupported:      []string{"pairwise", "public"},
		IDTokenSigningAlgSupported: []string{"RS256"},
		ClaimsSupported:            []string{"email", "name", "phone_number", "preferred_username", "sub", "updated_at"},
		TokenEndpointAuthMethods:   []string{"none"},
		GrantTypesSupported:        []string{"authorization_code", "password"},
	}
}

// Encode renders the document's wire form. Callers build this once at
// startup and cache the bytes, since the document never changes after
// listeners bind (§5).
func (d Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
