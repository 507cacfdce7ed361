// Package config loads the application configuration YAML.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/issuedash/issuedash/internal/catalog"
	"github.com/issuedash/issuedash/internal/filters"
	"github.com/issuedash/issuedash/internal/tracker"
	"gopkg.in/yaml.v3"
)

// Annotations names the entity annotations that issuedash interprets.
// All names are configurable to match the conventions of the catalog
// instance the service is deployed against.
type Annotations struct {
	// The annotation holding the issue tracker project key.
	ProjectKey string `yaml:"projectKey"`
	// The annotation listing tracker components, comma-separated.
	Components string `yaml:"components"`
	// An alternate naming convention for the components annotation.
	// Values from both are concatenated, neither overrides the other.
	ComponentsAlt string `yaml:"componentsAlt"`
	// The annotation listing named filters, comma-separated.
	Filters string `yaml:"filters"`
	// The annotation holding the URL of the entity's source repository,
	// used to locate its README.
	Repo string `yaml:"repo"`
}

// Bundle is the umbrella struct for the serialized application configuration
// YAML. It bundles the package-specific configurations.
type Bundle struct {
	Catalog     catalog.Config `yaml:"catalog"`
	Tracker     tracker.Config `yaml:"tracker"`
	Filters     filters.Config `yaml:"filters"`
	Annotations Annotations    `yaml:"annotations"`
}

// Load reads and validates the configuration from path. Missing annotation
// names fall back to the catalog's common conventions.
func Load(path string) (*Bundle, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %v", path, err)
	}
	return Parse(bs)
}

// Parse decodes a configuration YAML document. Unknown fields are rejected.
func Parse(bs []byte) (*Bundle, error) {
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true)
	var bundle Bundle
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("invalid configuration YAML: %v", err)
	}

	a := &bundle.Annotations
	if a.ProjectKey == "" {
		a.ProjectKey = "jira/project-key"
	}
	if a.Components == "" {
		a.Components = "jira/component"
	}
	if a.ComponentsAlt == "" {
		a.ComponentsAlt = "jira.com/project-components"
	}
	if a.Filters == "" {
		a.Filters = "jira/filters"
	}
	if a.Repo == "" {
		a.Repo = "issuedash/repo"
	}

	if bundle.Tracker.BaseURL == "" {
		return nil, fmt.Errorf("tracker.baseUrl is required")
	}
	if bundle.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("catalog.baseUrl is required")
	}
	return &bundle, nil
}
