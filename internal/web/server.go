// Package web implements the HTTP surface of issuedash: the dashboard
// aggregation endpoint, the avatar proxy, and the README endpoints.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/issuedash/issuedash"
	"github.com/issuedash/issuedash/internal/cache"
	"github.com/issuedash/issuedash/internal/catalog"
	"github.com/issuedash/issuedash/internal/config"
	"github.com/issuedash/issuedash/internal/filters"
	"github.com/issuedash/issuedash/internal/identity"
	"github.com/issuedash/issuedash/internal/tracker"
)

const (
	// Project metadata is reused for this long before the tracker is asked again.
	projectCacheTTL  = 60 * time.Second
	projectCacheSize = 256

	// Rendered READMEs are expensive (in-memory clone per miss).
	readmeCacheTTL  = 5 * time.Minute
	readmeCacheSize = 128

	// Upper bound for a single upstream JSON call chain.
	upstreamTimeout = 10 * time.Second
)

type ServerOptions struct {
	Addr    string // E.g., "localhost:8080"
	BaseDir string // Directory from which templates are read. Empty: use embedded files.
	Version string
}

// ReadmeFetcher returns an entity's README rendered as HTML.
// Implemented by readme.Service.
type ReadmeFetcher interface {
	Fetch(e *catalog.Entity) (string, error)
}

// Backends are the upstream services the server aggregates.
type Backends struct {
	Catalog  catalog.Client
	Tracker  tracker.Client
	Identity identity.Resolver
	Readme   ReadmeFetcher
}

type Server struct {
	opts     ServerOptions
	cfg      *config.Bundle
	template *template.Template
	backends Backends
	filters  *filters.Resolver
	projects *cache.ReadThrough[*tracker.Project]
	readmes  *cache.ReadThrough[string]
}

func NewServer(opts ServerOptions, cfg *config.Bundle, backends Backends) (*Server, error) {
	fr, err := filters.NewResolver(cfg.Filters)
	if err != nil {
		return nil, err
	}
	s := &Server{
		opts:     opts,
		cfg:      cfg,
		backends: backends,
		filters:  fr,
	}
	s.projects = cache.NewReadThrough(projectCacheSize, projectCacheTTL,
		func(ctx context.Context, key string) (*tracker.Project, error) {
			return backends.Tracker.ProjectByKey(ctx, key)
		})
	s.readmes = cache.NewReadThrough(readmeCacheSize, readmeCacheTTL, s.loadReadme)
	if err := s.reloadTemplates(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) reloadTemplates() error {
	tmpl := template.New("root")
	var err error
	if s.opts.BaseDir == "" {
		s.template, err = tmpl.ParseFS(issuedash.Files, "templates/*.html")
	} else {
		s.template, err = tmpl.ParseGlob(path.Join(s.opts.BaseDir, "templates/*.html"))
	}
	return err
}

// bearerToken extracts the caller-scoped credential from the request, if any.
// Upstream calls fall back to the configured service token without it.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) renderErrorSnippet(w http.ResponseWriter, errorMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	s.template.ExecuteTemplate(w, "_error.html", map[string]any{
		"Error": errorMsg,
	})
}

func (s *Server) serveHTMLPage(w http.ResponseWriter, r *http.Request, templateFile string, params map[string]any) {
	var output bytes.Buffer

	templateParams := map[string]any{
		"Version": s.opts.Version,
	}
	for k, v := range params {
		templateParams[k] = v
	}

	err := s.template.ExecuteTemplate(&output, templateFile, templateParams)
	if err != nil {
		log.Printf("Failed to render template %q: %v", templateFile, err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.Write(output.Bytes())
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /dashboards/by-entity-ref/{kind}/{namespace}/{name}", s.serveDashboard)
	mux.HandleFunc("GET /avatar/by-entity-ref/{kind}/{namespace}/{name}", s.serveAvatar)

	mux.HandleFunc("GET /api/readme/{entityRef}", s.serveReadme)
	mux.HandleFunc("GET /ui/entities/{entityRef}/readme", s.serveReadmePage)
	mux.HandleFunc("GET /ui/entities/{entityRef}/readme/content", s.serveReadmeContent)

	// Health check. Useful for cloud deployments.
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

// Serve starts the HTTP server on s.opts.Addr using the wrapped handler.
// It blocks until ctx is cancelled, then shuts down gracefully with a
// bounded timeout.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{Addr: s.opts.Addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	log.Printf("issuedash listening on http://%s", s.opts.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) Handler() http.Handler {
	return s.withRecovery(s.withRequestLogging(s.routes()))
}
