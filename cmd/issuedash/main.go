package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/issuedash/issuedash/internal/catalog"
	"github.com/issuedash/issuedash/internal/config"
	"github.com/issuedash/issuedash/internal/gitclient"
	"github.com/issuedash/issuedash/internal/identity"
	"github.com/issuedash/issuedash/internal/readme"
	"github.com/issuedash/issuedash/internal/tracker"
	"github.com/issuedash/issuedash/internal/web"
	"github.com/peterbourgon/ff/v3"
)

var (
	// Version is the application version.
	// It is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
)

// Options contains program options that can be set via command-line flags or
// environment variables.
type Options struct {
	Addr       string
	ConfigFile string
	BaseDir    string
}

func gitAuthFromEnv() *gitclient.Auth {
	user := os.Getenv("ISSUEDASH_GIT_USER")
	if user == "" {
		return nil
	}
	pass := os.Getenv("ISSUEDASH_GIT_PASSWORD")
	return &gitclient.Auth{
		Username: user,
		Password: pass,
	}
}

func main() {
	var opts Options
	fs := flag.NewFlagSet("issuedash", flag.ExitOnError)
	fs.StringVar(&opts.Addr, "addr", "localhost:8080", "Address to listen on")
	fs.StringVar(&opts.ConfigFile, "config", "issuedash.yml", "Path to the configuration YAML file")
	fs.StringVar(&opts.BaseDir, "base-dir", "", "Base directory for template files. If empty, uses embedded resources (recommended for production).")

	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("ISSUEDASH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}
	log.Printf("Using config from flags/env vars: %+v", opts)

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	backends := web.Backends{
		Catalog:  catalog.NewHTTPClient(cfg.Catalog),
		Tracker:  tracker.NewHTTPClient(cfg.Tracker),
		Identity: &identity.HeaderResolver{},
		Readme:   readme.NewService(cfg.Annotations.Repo, gitAuthFromEnv()),
	}

	server, err := web.NewServer(
		web.ServerOptions{
			Addr:    opts.Addr,
			BaseDir: opts.BaseDir,
			Version: Version,
		},
		cfg,
		backends,
	)
	if err != nil {
		log.Fatalf("Could not create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
