// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Command moauth is a small CLI wrapper around the client helper library:
// it discovers an authorization server and drives the browser through the
// PKCE-protected Authorization Code flow.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/moauth/moauthd-go/client"
)

func main() {
	var (
		server      = flag.String("server", "", "authorization server root URL, e.g. https://example.com:9001/")
		clientID    = flag.String("client-id", "", "registered client_id")
		redirectURI = flag.String("redirect-uri", "", "registered redirect_uri")
		scope       = flag.String("scope", "private shared", "requested scope")
	)
	flag.Parse()

	if err := run(*server, *clientID, *redirectURI, *scope); err != nil {
		fmt.Fprintln(os.Stderr, "moauth:", err)
		os.Exit(1)
	}
}

func run(server, clientID, redirectURI, scope string) error {
	if server == "" || clientID == "" || redirectURI == "" {
		return fmt.Errorf("-server, -client-id, and -redirect-uri are required")
	}

	ctx := context.Background()
	endpoints, err := client.Connect(ctx, nil, server)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", server, err)
	}

	verifier := client.GenerateVerifier()

	err = client.Authorize(client.AuthorizeRequest{
		Server:       endpoints,
		ClientID:     clientID,
		RedirectURI:  redirectURI,
		Scope:        scope,
		CodeVerifier: verifier,
	})
	if err != nil {
		return fmt.Errorf("opening authorization URL: %w", err)
	}

	fmt.Printf("code_verifier for the upcoming /token exchange: %s\n", verifier)
	return nil
}
