package web

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/issuedash/issuedash/internal/catalog"
	"github.com/issuedash/issuedash/internal/filters"
	"github.com/issuedash/issuedash/internal/tracker"
)

// DashboardResponse is the payload of the dashboard aggregation endpoint.
type DashboardResponse struct {
	Project *tracker.Project `json:"project"`
	Data    []tracker.Issue  `json:"data"`
}

// resolveEntity parses the by-entity-ref path segments and resolves the
// entity via the catalog. On failure it writes the error response and
// returns ok=false.
func (s *Server) resolveEntity(ctx context.Context, w http.ResponseWriter, r *http.Request) (*catalog.Entity, bool) {
	ref, err := catalog.NewRef(r.PathValue("kind"), r.PathValue("namespace"), r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	entity, err := s.backends.Catalog.Entity(ctx, ref, bearerToken(r))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entity not found: "+ref.String())
			return nil, false
		}
		log.Printf("Catalog lookup for %q failed: %v", ref, err)
		writeError(w, http.StatusInternalServerError, "catalog lookup failed")
		return nil, false
	}
	return entity, true
}

// projectForEntity reads the project-key annotation and resolves the project
// through the read-through cache. Both failure modes map to 404, with
// distinct messages.
func (s *Server) projectForEntity(ctx context.Context, w http.ResponseWriter, entity *catalog.Entity) (*tracker.Project, bool) {
	key, ok := entity.Annotation(s.cfg.Annotations.ProjectKey)
	if !ok {
		writeError(w, http.StatusNotFound,
			"entity has no annotation "+s.cfg.Annotations.ProjectKey)
		return nil, false
	}
	project, err := s.projects.Get(ctx, key)
	if err != nil {
		log.Printf("Project lookup for key %q failed: %v", key, err)
		writeError(w, http.StatusNotFound, "no project found for key "+key)
		return nil, false
	}
	return project, true
}

func (s *Server) serveDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	entity, ok := s.resolveEntity(ctx, w, r)
	if !ok {
		return
	}
	project, ok := s.projectForEntity(ctx, w, entity)
	if !ok {
		return
	}

	// Identity is optional: without it, default filters degrade to their
	// anonymous form.
	id, err := s.backends.Identity.Resolve(ctx, r)
	if err != nil {
		log.Printf("No identity for dashboard request %q: %v", entity.Ref(), err)
		id = nil
	}

	filterNames := filters.SplitCSV(annotationValue(entity, s.cfg.Annotations.Filters))
	fs, err := s.filters.Resolve(filterNames, id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	issues, err := s.backends.Tracker.IssuesByFilters(ctx, project.Key, fs)
	if err != nil {
		log.Printf("Issue query for project %q failed: %v", project.Key, err)
		writeError(w, http.StatusInternalServerError, "issue query failed")
		return
	}

	// Both component annotation variants contribute; their values are
	// concatenated, not overridden.
	components := filters.SplitCSV(annotationValue(entity, s.cfg.Annotations.Components))
	components = append(components, filters.SplitCSV(annotationValue(entity, s.cfg.Annotations.ComponentsAlt))...)
	if len(components) > 0 {
		more, err := s.backends.Tracker.IssuesByComponents(ctx, project.Key, components)
		if err != nil {
			log.Printf("Component query for project %q failed: %v", project.Key, err)
			writeError(w, http.StatusInternalServerError, "component query failed")
			return
		}
		// Plain concatenation: issues matching both queries appear twice.
		issues = append(issues, more...)
	}

	writeJSON(w, http.StatusOK, DashboardResponse{Project: project, Data: issues})
}

func annotationValue(e *catalog.Entity, name string) string {
	v, _ := e.Annotation(name)
	return v
}
