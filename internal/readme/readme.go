// Package readme fetches an entity's README from its source repository and
// renders it to HTML.
package readme

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/issuedash/issuedash/internal/catalog"
	"github.com/issuedash/issuedash/internal/gitclient"
	"github.com/yuin/goldmark"
)

var (
	// ErrNoSource is returned when the entity carries no source repository
	// annotation. Callers render this as the "no README" empty state.
	ErrNoSource = errors.New("entity has no readme source")
	// ErrNotFound is returned when the source repository contains no README.
	ErrNotFound = errors.New("no readme found in source repository")
)

// Candidate paths probed in the repository root, in order.
var candidates = []string{"README.md", "Readme.md", "readme.md", "docs/README.md"}

// repoReader is the subset of gitclient.Client used by the service.
type repoReader interface {
	DefaultBranch() (string, error)
	ReadFile(revision, filePath string) ([]byte, error)
}

// Service locates and renders README files for catalog entities.
type Service struct {
	annotation string
	auth       *gitclient.Auth

	// openRepo clones the repository at url. Replaced in tests.
	openRepo func(url string, auth *gitclient.Auth) (repoReader, error)
}

// NewService creates a Service reading the repository URL from the given
// annotation name. auth may be nil for anonymous access.
func NewService(annotation string, auth *gitclient.Auth) *Service {
	return &Service{
		annotation: annotation,
		auth:       auth,
		openRepo: func(url string, auth *gitclient.Auth) (repoReader, error) {
			return gitclient.New(url, auth)
		},
	}
}

// Fetch returns the entity's README rendered as HTML. It returns ErrNoSource
// if the entity declares no source repository and ErrNotFound if the
// repository has no README file.
func (s *Service) Fetch(e *catalog.Entity) (string, error) {
	repoURL, ok := e.Annotation(s.annotation)
	if !ok {
		return "", ErrNoSource
	}
	repo, err := s.openRepo(repoURL, s.auth)
	if err != nil {
		return "", fmt.Errorf("failed to open source repository for %q: %w", e.Ref(), err)
	}
	branch, err := repo.DefaultBranch()
	if err != nil {
		return "", fmt.Errorf("failed to determine default branch: %w", err)
	}
	for _, path := range candidates {
		content, err := repo.ReadFile(branch, path)
		if err != nil {
			continue
		}
		return render(content)
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, repoURL)
}

func render(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("failed to process markdown: %v", err)
	}
	return buf.String(), nil
}
