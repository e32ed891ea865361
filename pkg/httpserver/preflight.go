// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"net/http"
	"strings"

	"github.com/moauth/moauthd-go/pkg/logger"
)

// preflight implements §4.9: reject path-traversal, require the Host
// header to match the configured server name and port (case-insensitively,
// trailing dot tolerated). An absolute-form request target's
// "https://<name>:<port>" prefix needs no stripping here: net/http already
// parses the target into r.URL, and routing uses only r.URL.Path. net/http
// also answers Expect: 100-continue automatically before the handler runs,
// satisfying that part of §4.9 without extra code.
func (s *Server) preflight(next http.Handler) http.Handler {
	want := strings.ToLower(s.cfg.Identity.HostPort())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/../") || strings.HasSuffix(r.URL.Path, "/..") {
			logger.Debugf("rejecting path traversal attempt: %s", r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		host := strings.TrimSuffix(strings.ToLower(r.Host), ".")
		if host != want {
			logger.Debugf("rejecting request with Host %q, want %q", r.Host, want)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
