// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

// Command moauthd is the authorization server daemon: it reads a
// configuration file, wires the registries and collaborators, and serves
// HTTPS until signaled to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/moauth/moauthd-go/pkg/auth"
	"github.com/moauth/moauthd-go/pkg/config"
	"github.com/moauth/moauthd-go/pkg/httpserver"
	"github.com/moauth/moauthd-go/pkg/keys"
	"github.com/moauth/moauthd-go/pkg/logger"
	"github.com/moauth/moauthd-go/pkg/store"
)

func main() {
	var (
		configPath = flag.String("config", "/etc/moauthd.conf", "path to the configuration file")
		stateFile  = flag.String("state", "/var/lib/moauthd/state", "path to the persisted signing-key state file")
		certFile   = flag.String("cert", "", "TLS certificate file")
		keyFile    = flag.String("key", "", "TLS private key file")
	)
	flag.Parse()

	if err := run(*configPath, *stateFile, *certFile, *keyFile); err != nil {
		logger.Errorf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(configPath, stateFile, certFile, keyFile string) error {
	f, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("opening configuration: %w", err)
	}
	cfg, err := config.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing configuration: %w", err)
	}

	if err := logger.Initialize(logger.Sink{Destination: cfg.LogDestination}, logger.Level(cfg.LogLevel)); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	if certFile == "" || keyFile == "" {
		return fmt.Errorf("both -cert and -key are required: TLS is mandatory (§6)")
	}

	apps := store.NewApplications()
	for _, a := range cfg.Applications {
		apps.Add(store.Application{ClientID: a.ClientID, RedirectURI: a.RedirectURI, ClientName: a.ClientName})
	}

	resources := store.NewResources()
	for _, r := range cfg.Resources {
		resources.Add(store.Resource{
			Type:       store.ResourceExplicitDirectory,
			RemotePath: r.RemotePath,
			LocalPath:  r.LocalPath,
			Scope:      store.ResourceScope(r.Scope),
		})
	}
	resources.AddBuiltins()

	tokens := store.NewTokens(store.Lifetimes{GrantLife: cfg.MaxGrantLife, TokenLife: cfg.MaxTokenLife})
	defer tokens.Close()

	keyMgr, err := keys.LoadOrGenerate(stateFile)
	if err != nil {
		return fmt.Errorf("loading signing key: %w", err)
	}

	authenticator, err := buildAuthenticator(cfg)
	if err != nil {
		return fmt.Errorf("configuring authenticator: %w", err)
	}

	name, port := serverIdentity(cfg)
	logger.Infof("starting moauthd as %s:%d", name, port)

	httpCfg := httpserver.Config{
		Identity:      httpserver.Identity{Name: name, Port: port},
		BasicAuth:     cfg.BasicAuth,
		DefaultScopes: "private shared",
	}
	if cfg.IntrospectGroup != "" {
		gid, err := auth.ResolveGroup(cfg.IntrospectGroup)
		if err != nil {
			return fmt.Errorf("resolving IntrospectGroup: %w", err)
		}
		httpCfg.IntrospectGroup = gid
		httpCfg.HasIntrospectGroup = true
	}

	srv, err := httpserver.New(httpCfg, apps, tokens, resources, authenticator, keyMgr)
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := fmt.Sprintf(":%d", port)
	return srv.ListenAndServeTLS(ctx, addr, certFile, keyFile)
}

func buildAuthenticator(cfg *config.Config) (auth.Authenticator, error) {
	if cfg.TestPassword == "" {
		return nil, fmt.Errorf("no Authenticator configured; set TestPassword or wire a real OS account backend")
	}
	gids, err := os.Getgroups()
	if err != nil {
		return nil, fmt.Errorf("reading process groups: %w", err)
	}
	return auth.NewStaticAuthenticator(cfg.TestPassword, os.Getuid(), gids), nil
}

// serverIdentity resolves the server's name and port per §3: hostname
// without a trailing dot, port defaulting to 9000+(uid mod 1000).
func serverIdentity(cfg *config.Config) (string, int) {
	name := cfg.ServerName
	if name == "" {
		if hostname, err := os.Hostname(); err == nil {
			name = hostname
		}
	}
	name = strings.TrimSuffix(name, ".")

	port := cfg.ServerPort
	if port == 0 {
		port = 9000 + (os.Getuid() % 1000)
	}
	return name, port
}
