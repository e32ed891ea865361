// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"strings"
	"sync"
)

// Resources is the Resource Registry (§4.3): a reader/writer-locked,
// longest-prefix-match collection of scope-tagged resources. It is
// almost entirely read-dominated (§5).
type Resources struct {
	mu    sync.RWMutex
	order []*Resource
}

// NewResources returns an empty Resource Registry.
func NewResources() *Resources {
	return &Resources{}
}

// Add registers a resource.
func (r *Resources) Add(res Resource) *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := &res
	r.order = append(r.order, stored)
	return stored
}

// AddBuiltins registers the server's built-in static-blob resources — a
// root landing page and a robots.txt that disallows the entire OAuth
// surface. Callers register config-driven Resource directives first, so
// that user-configured resources can still shadow them (Find picks the
// longest matching RemotePath, and ties break toward whichever was
// registered first). Grounded on moauthd/server.c's startup registration of
// built-in resources.
func (r *Resources) AddBuiltins() {
	r.Add(Resource{
		Type:        ResourceStaticBlob,
		RemotePath:  "/",
		ContentType: "text/html; charset=utf-8",
		Scope:       ScopePublic,
		Blob:        []byte("<html><body><h1>moauthd</h1></body></html>"),
	})
	r.Add(Resource{
		Type:        ResourceStaticBlob,
		RemotePath:  "/robots.txt",
		ContentType: "text/plain; charset=utf-8",
		Scope:       ScopePublic,
		Blob:        []byte("User-agent: *\nDisallow: /\n"),
	})
}

// FindResult is the outcome of a successful Find: the matching resource,
// its resolved local filesystem name (substituting the wildcard user
// segment where applicable), and the stat result for filesystem-backed
// types (nil for static blobs).
type FindResult struct {
	Resource *Resource
	LocalName string
	Info      os.FileInfo
}

// Find resolves path by longest matching remote_path prefix, ties broken
// by insertion order (i.e. first-registered wins among equal-length
// prefixes). user substitutes the wildcard segment in
// ResourceUserWildcardDirectory resources' local path. It returns nil if
// no resource matches.
func (r *Resources) Find(path, user string) *FindResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Resource
	for _, res := range r.order {
		if !matches(res, path) {
			continue
		}
		if best == nil || len(res.RemotePath) > len(best.RemotePath) {
			best = res
		}
	}
	if best == nil {
		return nil
	}

	result := &FindResult{Resource: best}

	switch best.Type {
	case ResourceStaticBlob:
		return result

	case ResourceUserWildcardDirectory:
		rel := strings.TrimPrefix(path, best.RemotePath)
		local := strings.Replace(best.LocalPath, "*", user, 1) + rel
		result.LocalName = local

	default:
		rel := strings.TrimPrefix(path, best.RemotePath)
		result.LocalName = best.LocalPath + rel
	}

	if info, err := os.Stat(result.LocalName); err == nil {
		result.Info = info
	}

	return result
}

func matches(res *Resource, path string) bool {
	switch res.Type {
	case ResourceExplicitFile, ResourceCachedFile, ResourceStaticBlob:
		return path == res.RemotePath
	default:
		return path == res.RemotePath || strings.HasPrefix(path, res.RemotePath+"/")
	}
}

// ScopesSupported returns the sorted-by-insertion set of distinct scopes
// registered across all resources, for the discovery document's
// scopes_supported field.
func (r *Resources) ScopesSupported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, res := range r.order {
		s := string(res.Scope)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
