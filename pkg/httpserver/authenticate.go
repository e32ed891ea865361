// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/moauth/moauthd-go/pkg/logger"
	"github.com/moauth/moauthd-go/pkg/store"
)

// authenticateRequest implements §4.8: inspect the Authorization header and
// resolve an identity from it, if any. A missing or unsupported scheme
// yields a nil identity, not an error — callers decide whether identity is
// required.
func (s *Server) authenticateRequest(r *http.Request) *identity {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil
	}

	scheme, value, ok := strings.Cut(header, " ")
	switch strings.ToLower(scheme) {
	case "basic":
		if !ok || !s.cfg.BasicAuth {
			return nil
		}
		return s.authenticateBasic(r, value)

	case "bearer":
		if !ok {
			return nil
		}
		return s.authenticateBearer(value)

	default:
		logger.Debugf("ignoring unsupported Authorization scheme %q", scheme)
		return nil
	}
}

func (s *Server) authenticateBasic(r *http.Request, encoded string) *identity {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}

	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil
	}

	uid, gids, ok := s.authn.Authenticate(r.Context(), user, pass)
	if !ok {
		return nil
	}

	return &identity{user: user, uid: uid, gids: gids}
}

func (s *Server) authenticateBearer(id string) *identity {
	tok := s.toks.Find(id)
	if tok == nil || tok.Kind != store.KindAccess {
		return nil
	}
	return &identity{user: tok.User, uid: tok.UID, gids: tok.GIDs, token: tok}
}
