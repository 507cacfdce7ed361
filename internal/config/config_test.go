package config

import (
	"strings"
	"testing"
)

const minimalConfig = `
catalog:
  baseUrl: https://catalog.example.com/api
tracker:
  baseUrl: https://jira.example.com
`

func TestParse_AppliesAnnotationDefaults(t *testing.T) {
	bundle, err := Parse([]byte(minimalConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := bundle.Annotations
	if a.ProjectKey != "jira/project-key" {
		t.Errorf("ProjectKey = %q, want default", a.ProjectKey)
	}
	if a.Components != "jira/component" {
		t.Errorf("Components = %q, want default", a.Components)
	}
	if a.ComponentsAlt != "jira.com/project-components" {
		t.Errorf("ComponentsAlt = %q, want default", a.ComponentsAlt)
	}
	if a.Filters != "jira/filters" {
		t.Errorf("Filters = %q, want default", a.Filters)
	}
	if a.Repo != "issuedash/repo" {
		t.Errorf("Repo = %q, want default", a.Repo)
	}
}

func TestParse_FullConfig(t *testing.T) {
	input := `
catalog:
  baseUrl: https://catalog.example.com/api
  token: cat-token
tracker:
  baseUrl: https://jira.example.com
  token: jira-token
  maxResults: 100
annotations:
  projectKey: mytracker/project
filters:
  defaults:
    - field: assignee
      operator: "="
      value: "{{.Username}}"
  named:
    - name: open
      field: status
      operator: "="
      value: Open
`
	bundle, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if bundle.Annotations.ProjectKey != "mytracker/project" {
		t.Errorf("ProjectKey = %q, want override", bundle.Annotations.ProjectKey)
	}
	// Unset annotation names still get their defaults.
	if bundle.Annotations.Filters != "jira/filters" {
		t.Errorf("Filters = %q, want default", bundle.Annotations.Filters)
	}
	if len(bundle.Filters.Defaults) != 1 || len(bundle.Filters.Named) != 1 {
		t.Errorf("unexpected filter config: %+v", bundle.Filters)
	}
	if bundle.Tracker.MaxResults != 100 {
		t.Errorf("MaxResults = %d, want 100", bundle.Tracker.MaxResults)
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	input := minimalConfig + `
surprise: true
`
	if _, err := Parse([]byte(input)); err == nil {
		t.Error("Parse succeeded, want error for unknown field")
	}
}

func TestParse_RequiresBaseURLs(t *testing.T) {
	_, err := Parse([]byte("catalog:\n  baseUrl: https://catalog.example.com\n"))
	if err == nil || !strings.Contains(err.Error(), "tracker.baseUrl") {
		t.Errorf("err = %v, want tracker.baseUrl error", err)
	}
	_, err = Parse([]byte("tracker:\n  baseUrl: https://jira.example.com\n"))
	if err == nil || !strings.Contains(err.Error(), "catalog.baseUrl") {
		t.Errorf("err = %v, want catalog.baseUrl error", err)
	}
}
