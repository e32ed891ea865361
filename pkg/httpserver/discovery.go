// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import "net/http"

// handleDiscovery serves the precomputed discovery document (§4.10) under
// both well-known paths.
func (s *Server) handleDiscovery(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/json")
	_, _ = w.Write(s.discoveryJSON)
}

// handleJWKS serves the public JWK set (§4.10).
func (s *Server) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.jwksJSON)
}
