package web

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/issuedash/issuedash/internal/catalog"
	"github.com/issuedash/issuedash/internal/readme"
)

// loadReadme is the cache loader for rendered READMEs, keyed by the
// stringified entity reference. The catalog lookup inside the loader uses the
// service token: README content is not caller-specific.
func (s *Server) loadReadme(ctx context.Context, refStr string) (string, error) {
	ref, err := catalog.ParseRef(refStr)
	if err != nil {
		return "", err
	}
	entity, err := s.backends.Catalog.Entity(ctx, ref, "")
	if err != nil {
		return "", err
	}
	return s.backends.Readme.Fetch(entity)
}

// isEmptyReadme reports whether err represents the "entity has no README"
// state rather than a failure.
func isEmptyReadme(err error) bool {
	return errors.Is(err, readme.ErrNoSource) || errors.Is(err, readme.ErrNotFound)
}

// serveReadme is the JSON endpoint consumed by the fetch component.
func (s *Server) serveReadme(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	ref, err := catalog.ParseRef(r.PathValue("entityRef"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	content, err := s.readmes.Get(ctx, ref.String())
	switch {
	case err == nil && content != "":
		writeJSON(w, http.StatusOK, map[string]string{"content": content})
	case err == nil || isEmptyReadme(err):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "entity not found: "+ref.String())
	default:
		log.Printf("README fetch for %q failed: %v", ref, err)
		writeError(w, http.StatusInternalServerError, "readme fetch failed")
	}
}

// serveReadmePage renders the README view for an entity. The content itself
// is loaded asynchronously via htmx, showing a progress indicator meanwhile.
func (s *Server) serveReadmePage(w http.ResponseWriter, r *http.Request) {
	ref, err := catalog.ParseRef(r.PathValue("entityRef"))
	if err != nil {
		http.Error(w, "Invalid entity reference", http.StatusBadRequest)
		return
	}
	s.serveHTMLPage(w, r, "readme.html", map[string]any{
		"EntityRef": ref.String(),
	})
}

// serveReadmeContent returns the rendered README as an HTML fragment for the
// htmx request issued by the README page.
func (s *Server) serveReadmeContent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	ref, err := catalog.ParseRef(r.PathValue("entityRef"))
	if err != nil {
		s.renderErrorSnippet(w, "Invalid entity reference")
		return
	}
	content, err := s.readmes.Get(ctx, ref.String())
	switch {
	case err == nil && content != "":
		s.serveHTMLPage(w, r, "_readme_content.html", map[string]any{
			// Content was produced by the markdown renderer; it is safe to
			// inject as HTML.
			"Content": template.HTML(content),
		})
	case err == nil || isEmptyReadme(err):
		s.serveHTMLPage(w, r, "_readme_empty.html", nil)
	default:
		log.Printf("README fragment for %q failed: %v", ref, err)
		s.renderErrorSnippet(w, "Failed to load README")
	}
}
