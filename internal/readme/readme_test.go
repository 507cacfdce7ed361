package readme

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/issuedash/issuedash/internal/catalog"
	"github.com/issuedash/issuedash/internal/gitclient"
)

const repoAnnotation = "issuedash/repo"

// fakeRepo is a fake repoReader serving files from a map.
type fakeRepo struct {
	files map[string][]byte
}

func (f *fakeRepo) DefaultBranch() (string, error) { return "main", nil }

func (f *fakeRepo) ReadFile(revision, filePath string) ([]byte, error) {
	if bs, ok := f.files[filePath]; ok {
		return bs, nil
	}
	return nil, fmt.Errorf("file not found: %s", filePath)
}

func newTestService(files map[string][]byte) *Service {
	s := NewService(repoAnnotation, nil)
	s.openRepo = func(url string, auth *gitclient.Auth) (repoReader, error) {
		return &fakeRepo{files: files}, nil
	}
	return s
}

func entityWithRepo(url string) *catalog.Entity {
	e := &catalog.Entity{
		Kind:     "Component",
		Metadata: catalog.Metadata{Name: "my-service"},
	}
	if url != "" {
		e.Metadata.Annotations = map[string]string{repoAnnotation: url}
	}
	return e
}

func TestFetch_RendersMarkdown(t *testing.T) {
	s := newTestService(map[string][]byte{
		"README.md": []byte("# Hello\n\nSome *markdown*.\n"),
	})

	html, err := s.Fetch(entityWithRepo("https://git.example.com/my-service.git"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(html, "<h1>Hello</h1>") {
		t.Errorf("rendered HTML missing heading: %q", html)
	}
	if !strings.Contains(html, "<em>markdown</em>") {
		t.Errorf("rendered HTML missing emphasis: %q", html)
	}
}

func TestFetch_FallbackCandidates(t *testing.T) {
	s := newTestService(map[string][]byte{
		"docs/README.md": []byte("# Docs readme\n"),
	})

	html, err := s.Fetch(entityWithRepo("https://git.example.com/my-service.git"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(html, "Docs readme") {
		t.Errorf("rendered HTML = %q, want docs readme content", html)
	}
}

func TestFetch_NoSourceAnnotation(t *testing.T) {
	s := newTestService(nil)

	_, err := s.Fetch(entityWithRepo(""))
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestFetch_NoReadmeInRepo(t *testing.T) {
	s := newTestService(map[string][]byte{
		"main.go": []byte("package main"),
	})

	_, err := s.Fetch(entityWithRepo("https://git.example.com/my-service.git"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
