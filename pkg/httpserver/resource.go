// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/moauth/moauthd-go/pkg/auth"
	"github.com/moauth/moauthd-go/pkg/errors"
	"github.com/moauth/moauthd-go/pkg/store"
)

// markdownRenderer renders Markdown source for directory index resolution.
// This is deliberately not a Markdown parser (out of scope) — it wraps the
// raw source in a <pre> tag so the resource pipeline has a complete,
// compiling path. A real renderer would plug in here.
func markdownRenderer(src []byte) []byte {
	out := make([]byte, 0, len(src)+len("<pre></pre>"))
	out = append(out, []byte("<pre>")...)
	out = append(out, src...)
	out = append(out, []byte("</pre>")...)
	return out
}

// handleResource implements §4.7: GET/HEAD for any path not claimed by the
// OAuth endpoints or the well-known paths above.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) *errors.Error {
	id := s.authenticateRequest(r)

	username := ""
	if id != nil {
		username = id.user
	}

	found := s.res.Find(r.URL.Path, username)
	if found == nil {
		return errors.NewNotFoundError("no resource matches path", nil)
	}

	switch found.Resource.Scope {
	case store.ScopePublic:
		// serve unconditionally

	case store.ScopePrivate:
		if id == nil {
			return errors.NewAuthenticationError(found.Resource.RemotePath, nil)
		}
		if !id.hasScope("private") {
			return errors.NewAuthorizationError("missing private scope", nil)
		}

	case store.ScopeShared:
		if id == nil {
			return errors.NewAuthenticationError(found.Resource.RemotePath, nil)
		}
		if !id.hasScope("shared") {
			return errors.NewAuthorizationError("missing shared scope", nil)
		}
		if !auth.InGroup(id.gids, found.Resource.GroupID) {
			return errors.NewAuthorizationError("not a member of required group", nil)
		}
	}

	return serveResource(w, r, found)
}

func serveResource(w http.ResponseWriter, r *http.Request, found *store.FindResult) *errors.Error {
	if found.Resource.Type == store.ResourceStaticBlob {
		if found.Resource.ContentType != "" {
			w.Header().Set("Content-Type", found.Resource.ContentType)
		}
		if r.Method == http.MethodHead {
			return nil
		}
		_, _ = w.Write(found.Resource.Blob)
		return nil
	}

	if found.Info == nil {
		return errors.NewNotFoundError("resource has no backing file", nil)
	}

	localName := found.LocalName
	if found.Info.IsDir() {
		indexName, indexInfo := resolveDirectoryIndex(localName)
		if indexInfo == nil {
			return errors.NewNotFoundError("directory has no index", nil)
		}
		localName = indexName
		found = &store.FindResult{Resource: found.Resource, LocalName: indexName, Info: indexInfo}
	}

	if filepath.Ext(localName) == ".md" {
		return serveMarkdown(w, r, localName)
	}

	f, err := os.Open(localName)
	if err != nil {
		return errors.NewNotFoundError("opening resource file", err)
	}
	defer f.Close()

	if found.Resource.ContentType != "" {
		w.Header().Set("Content-Type", found.Resource.ContentType)
	}
	http.ServeContent(w, r, localName, found.Info.ModTime(), f)
	return nil
}

// resolveDirectoryIndex implements the original's directory-index
// resolution: a directory request serves index.html if present, else
// index.md, else 404.
func resolveDirectoryIndex(dir string) (string, os.FileInfo) {
	for _, name := range []string{"index.html", "index.md"} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, info
		}
	}
	return "", nil
}

func serveMarkdown(w http.ResponseWriter, r *http.Request, localName string) *errors.Error {
	src, err := os.ReadFile(localName)
	if err != nil {
		return errors.NewNotFoundError("reading markdown source", err)
	}
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(markdownRenderer(src))
	return nil
}
