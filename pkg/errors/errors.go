// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Package errors provides the typed error taxonomy used across the
// authorization server, mapping directly onto the response categories of
// the error handling design: client protocol errors, authentication and
// authorization failures, not-found, OAuth domain errors redirected back to
// the client, and internal errors.
package errors

import "fmt"

// Error categories. Each maps to a specific HTTP response shape; see
// pkg/httpserver's translate (server.go) for how these are translated.
const (
	// ErrClientProtocol covers malformed request lines, bad Host headers,
	// path traversal, and missing required parameters. Responds 400, no body.
	ErrClientProtocol = "client_protocol"

	// ErrAuthentication covers missing or invalid Basic/Bearer credentials,
	// an unsupported auth scheme, or an expired token. Responds 401.
	ErrAuthentication = "authentication"

	// ErrAuthorization covers a valid identity lacking the required scope or
	// group membership. Responds 403.
	ErrAuthorization = "authorization"

	// ErrNotFound covers an unknown resource path or endpoint. Responds 404.
	ErrNotFound = "not_found"

	// ErrOAuthDomain covers failures inside the /authorize POST flow (bad
	// credentials, token creation failure) that must be reported back to the
	// client via a redirect carrying error=access_denied|server_error,
	// per RFC 6749 §4.1.2.1, rather than an inline status code.
	ErrOAuthDomain = "oauth_domain"

	// ErrInternal covers allocation/OS failures and any other condition the
	// server cannot recover from inline. Responds 500; logged at error
	// level, connection closed after the response.
	ErrInternal = "internal"
)

// Error is the typed error carried through the request pipeline. Handlers
// construct one of these instead of writing a response directly; the
// pipeline's error-translation middleware inspects Type to pick the status
// code (and, for ErrOAuthDomain, the redirect-vs-body response shape).
type Error struct {
	// Type is one of the category constants above.
	Type string

	// Message is a short, log-facing description. It is never written to the
	// response body — per the error handling design, user-visible messages
	// are intentionally terse to avoid information leakage. For
	// ErrAuthentication it doubles as the WWW-Authenticate realm.
	Message string

	// Cause is the underlying error, if any.
	Cause error

	// OAuthCode is set only for ErrOAuthDomain: "access_denied" or
	// "server_error", placed in the redirect's error= query parameter.
	OAuthCode string

	// RedirectURI is set only for ErrOAuthDomain: the registered redirect
	// target the caller is sent back to.
	RedirectURI string

	// State carries the original request's state parameter through an
	// ErrOAuthDomain redirect, unchanged.
	State string
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new typed error.
func NewError(errorType, message string, cause error) *Error {
	return &Error{Type: errorType, Message: message, Cause: cause}
}

// NewClientProtocolError creates a 400 client-protocol error.
func NewClientProtocolError(message string, cause error) *Error {
	return NewError(ErrClientProtocol, message, cause)
}

// NewAuthenticationError creates a 401 authentication error.
func NewAuthenticationError(message string, cause error) *Error {
	return NewError(ErrAuthentication, message, cause)
}

// NewAuthorizationError creates a 403 authorization error.
func NewAuthorizationError(message string, cause error) *Error {
	return NewError(ErrAuthorization, message, cause)
}

// NewNotFoundError creates a 404 not-found error.
func NewNotFoundError(message string, cause error) *Error {
	return NewError(ErrNotFound, message, cause)
}

// NewOAuthDomainError creates an OAuth-domain error that the /authorize POST
// handler reports by redirecting back to redirectURI with
// error=<code>&state=<state> rather than an inline status code.
func NewOAuthDomainError(code, redirectURI, state string, cause error) *Error {
	return &Error{
		Type:        ErrOAuthDomain,
		Message:     code,
		Cause:       cause,
		OAuthCode:   code,
		RedirectURI: redirectURI,
		State:       state,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *Error {
	return NewError(ErrInternal, message, cause)
}

// IsClientProtocol reports whether err is a client-protocol error.
func IsClientProtocol(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == ErrClientProtocol
}

// IsAuthentication reports whether err is an authentication error.
func IsAuthentication(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == ErrAuthentication
}

// IsAuthorization reports whether err is an authorization error.
func IsAuthorization(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == ErrAuthorization
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == ErrNotFound
}

// IsOAuthDomain reports whether err is an OAuth-domain error.
func IsOAuthDomain(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == ErrOAuthDomain
}

// IsInternal reports whether err is an internal error.
func IsInternal(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == ErrInternal
}

// StatusCode returns the HTTP status code ErrClientProtocol/ErrAuthentication/
// ErrAuthorization/ErrNotFound/ErrInternal map to. ErrOAuthDomain has no
// single status code (it redirects) and returns 0.
func (e *Error) StatusCode() int {
	switch e.Type {
	case ErrClientProtocol:
		return 400
	case ErrAuthentication:
		return 401
	case ErrAuthorization:
		return 403
	case ErrNotFound:
		return 404
	case ErrInternal:
		return 500
	default:
		return 0
	}
}
