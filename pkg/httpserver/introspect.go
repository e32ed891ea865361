// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/moauth/moauthd-go/pkg/auth"
	"github.com/moauth/moauthd-go/pkg/errors"
)

type introspectResponse struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
}

// handleIntrospect implements §4.6.
func (s *Server) handleIntrospect(w http.ResponseWriter, r *http.Request) *errors.Error {
	id := s.authenticateRequest(r)
	if id == nil {
		return errors.NewAuthenticationError("introspect", nil)
	}

	if s.cfg.HasIntrospectGroup && !auth.InGroup(id.gids, s.cfg.IntrospectGroup) {
		return errors.NewAuthorizationError("not a member of IntrospectGroup", nil)
	}

	if err := r.ParseForm(); err != nil {
		return errors.NewClientProtocolError("parsing form", err)
	}
	tokenParam := r.PostForm.Get("token")
	if tokenParam == "" {
		return errors.NewClientProtocolError("missing token parameter", nil)
	}

	w.Header().Set("Content-Type", "application/json")

	tok := s.toks.Find(tokenParam)
	if tok == nil {
		_ = json.NewEncoder(w).Encode(introspectResponse{Active: false})
		return nil
	}

	clientID := ""
	if tok.Application != nil {
		clientID = tok.Application.ClientID
	}

	_ = json.NewEncoder(w).Encode(introspectResponse{
		Active:    true,
		Scope:     tok.Scopes,
		ClientID:  clientID,
		Username:  tok.User,
		TokenType: string(tok.Kind),
		Exp:       tok.ExpiresAt.Unix(),
		Iat:       tok.CreatedAt.Unix(),
	})
	return nil
}
