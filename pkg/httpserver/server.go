// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Package httpserver implements the HTTP Request Pipeline (C9), the
// Endpoint Handlers (C10), and Listener & Worker Dispatch (C11). Go's
// net/http already gives every accepted connection its own goroutine, so
// C11's "accept loop hands each connection to a worker" and C9's
// per-connection request reader map directly onto http.Server serving N
// net.Listeners, one per configured bind address.
package httpserver

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/moauth/moauthd-go/pkg/auth"
	"github.com/moauth/moauthd-go/pkg/discovery"
	"github.com/moauth/moauthd-go/pkg/errors"
	"github.com/moauth/moauthd-go/pkg/keys"
	"github.com/moauth/moauthd-go/pkg/logger"
	"github.com/moauth/moauthd-go/pkg/store"
)

// Identity is the server identity data the handlers need (§3): the
// canonical host:port pair requests must target, used for Host-header
// preflight validation (§4.9).
type Identity struct {
	Name string
	Port int
}

// HostPort returns "name:port", the form requests' Host header must match.
func (id Identity) HostPort() string {
	return net.JoinHostPort(id.Name, intToString(id.Port))
}

// Config bundles everything a Server needs beyond the collections it is
// handed directly.
type Config struct {
	Identity Identity

	// IntrospectGroup, when HasIntrospectGroup is true, restricts
	// /introspect to members of this gid (§4.6). With HasIntrospectGroup
	// false, /introspect is unrestricted (but still authenticated).
	IntrospectGroup int
	HasIntrospectGroup bool

	// BasicAuth enables HTTP Basic as a backup authentication scheme to
	// Bearer (the "Option BasicAuth" directive).
	BasicAuth bool

	DefaultScopes string
}

// Server wires the Application/Token/Resource registries, the
// Authenticator, the JWT Key Manager, and the discovery document into the
// HTTP handlers named in §4.4-§4.10.
type Server struct {
	cfg Config

	apps  *store.Applications
	toks  *store.Tokens
	res   *store.Resources
	authn auth.Authenticator
	keys  *keys.Manager

	discoveryDoc  discovery.Document
	discoveryJSON []byte
	jwksJSON      []byte

	mux *http.ServeMux
}

// New builds a Server and precomputes the discovery document and JWKS
// (§4.10) once, before any listener is started.
func New(cfg Config, apps *store.Applications, toks *store.Tokens, res *store.Resources, authn auth.Authenticator, keyMgr *keys.Manager) (*Server, error) {
	s := &Server{
		cfg:   cfg,
		apps:  apps,
		toks:  toks,
		res:   res,
		authn: authn,
		keys:  keyMgr,
	}

	issuer := "https://" + cfg.Identity.HostPort()
	s.discoveryDoc = discovery.Build(discovery.Identity{Issuer: issuer}, res.ScopesSupported())

	docJSON, err := s.discoveryDoc.Encode()
	if err != nil {
		return nil, err
	}
	s.discoveryJSON = docJSON

	jwksJSON, err := marshalIndent(keyMgr.PublicJWKS())
	if err != nil {
		return nil, err
	}
	s.jwksJSON = jwksJSON

	s.mux = s.routes()
	return s, nil
}

// Handler returns the fully wired request handler, with the §4.9 preflight
// checks applied ahead of routing.
func (s *Server) Handler() http.Handler {
	return s.preflight(s.mux)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /authorize", s.translate(s.handleAuthorizeGet))
	mux.HandleFunc("POST /authorize", s.translate(s.handleAuthorizePost))
	mux.HandleFunc("POST /token", s.translate(s.handleToken))
	mux.HandleFunc("POST /introspect", s.translate(s.handleIntrospect))

	mux.HandleFunc("GET /.well-known/oauth-authorization-server", s.handleDiscovery)
	mux.HandleFunc("GET /.well-known/openid-configuration", s.handleDiscovery)
	mux.HandleFunc("GET /.well-known/jwks.json", s.handleJWKS)

	mux.HandleFunc("GET /", s.translate(s.handleResource))
	mux.HandleFunc("HEAD /", s.translate(s.handleResource))

	return mux
}

// errHandler reports failure via the typed error taxonomy (pkg/errors)
// instead of writing the response itself; a nil return means the handler
// already wrote a successful response.
type errHandler func(w http.ResponseWriter, r *http.Request) *errors.Error

// translate is the error-translation middleware named in the error
// handling design: it type-switches on the handler's returned *errors.Error
// to pick the status code, routing ErrOAuthDomain through a redirect back
// to the client (RFC 6749 §4.1.2.1) instead of an inline status, and
// setting WWW-Authenticate for ErrAuthentication per §4.8.
func (s *Server) translate(h errHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		switch err.Type {
		case errors.ErrOAuthDomain:
			redirectWithError(w, r, err.RedirectURI, err.OAuthCode, err.State)
		case errors.ErrAuthentication:
			s.writeUnauthorized(w, err.Message)
		case errors.ErrInternal:
			logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
			w.Header().Set("Connection", "close")
			w.WriteHeader(err.StatusCode())
		default:
			w.WriteHeader(err.StatusCode())
		}
	}
}

// ListenAndServeTLS runs the accept loop (C11) over one bind address.
// Deployments wanting the "N listener sockets" the spec describes run one
// Server.ListenAndServeTLS per address; net/http's internal accept loop
// already dispatches each connection to its own goroutine, satisfying the
// "one worker per accepted connection" discipline of §5 without a
// hand-rolled select-over-many-fds loop.
func (s *Server) ListenAndServeTLS(ctx context.Context, addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutting down listener %s: %v", addr, err)
		}
	}()

	logger.Infof("listening on %s", addr)
	err := srv.ListenAndServeTLS(certFile, keyFile)
	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
