// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package store

import "sync"

// Applications is the Application Registry (§4.1): an ordered set of
// registered clients keyed by client_id, with thread-safe add/find.
// Contention is low (writes only at startup and on dynamic registration),
// so a plain mutex suffices in place of a reader/writer lock.
type Applications struct {
	mu    sync.Mutex
	byID  map[string][]*Application
	order []*Application
}

// NewApplications returns an empty Application Registry.
func NewApplications() *Applications {
	return &Applications{
		byID: make(map[string][]*Application),
	}
}

// Add registers app, returning the stored reference. A duplicate
// (client_id, redirect_uri) pair collapses to the existing entry instead of
// creating a second one.
func (a *Applications) Add(app Application) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, existing := range a.byID[app.ClientID] {
		if existing.RedirectURI == app.RedirectURI {
			return existing
		}
	}

	stored := &app
	a.byID[app.ClientID] = append(a.byID[app.ClientID], stored)
	a.order = append(a.order, stored)
	return stored
}

// Find resolves a client_id, optionally constrained to an exact
// redirect_uri. With redirectURI empty, it returns the first-registered
// entry for client_id. It returns nil if no entry matches.
func (a *Applications) Find(clientID, redirectURI string) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()

	candidates := a.byID[clientID]
	if len(candidates) == 0 {
		return nil
	}
	if redirectURI == "" {
		return candidates[0]
	}
	for _, app := range candidates {
		if app.RedirectURI == redirectURI {
			return app
		}
	}
	return nil
}

// All returns every registered application in insertion order.
func (a *Applications) All() []*Application {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*Application, len(a.order))
	copy(out, a.order)
	return out
}
