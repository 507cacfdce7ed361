// Package filters builds the query predicates that issuedash sends to the
// issue tracker. Filters come from two sources: configured defaults that are
// parameterized by the caller's identity, and named filters declared on a
// catalog entity via an annotation.
package filters

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/issuedash/issuedash/internal/identity"
)

// Filter is a single (field, operator, value) predicate. The issue tracker
// ANDs all filters of a query.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Definition is the serialized form of a filter in the configuration file.
// Value is a Go text/template rendered against the caller's identity,
// e.g. `"{{.Username}}"` for a per-user "my issues" predicate.
type Definition struct {
	Name     string `yaml:"name"`
	Field    string `yaml:"field"`
	Operator string `yaml:"operator"`
	Value    string `yaml:"value"`

	// Cached instance of the Go template for the Value field.
	valueTemplate *template.Template
}

// Config bundles the filter-related configuration.
type Config struct {
	// Filters applied to every dashboard query, before any annotation filters.
	Defaults []*Definition `yaml:"defaults"`
	// Catalog of named filters that entities can opt into via the
	// filters annotation.
	Named []*Definition `yaml:"named"`
}

// Resolver resolves filter names against the configured catalog and renders
// identity-parameterized values. It performs no I/O.
type Resolver struct {
	defaults []*Definition
	named    map[string]*Definition
}

// NewResolver compiles the value templates of all definitions and indexes the
// named catalog. Named definitions require a name; defaults may omit it.
func NewResolver(cfg Config) (*Resolver, error) {
	r := &Resolver{named: make(map[string]*Definition)}
	for i, def := range cfg.Defaults {
		if err := def.compile(); err != nil {
			return nil, fmt.Errorf("invalid default filter #%d: %v", i, err)
		}
		r.defaults = append(r.defaults, def)
	}
	for _, def := range cfg.Named {
		if def.Name == "" {
			return nil, fmt.Errorf("named filter without a name (field %q)", def.Field)
		}
		if err := def.compile(); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %v", def.Name, err)
		}
		r.named[def.Name] = def
	}
	return r, nil
}

func (d *Definition) compile() error {
	if d.Field == "" || d.Operator == "" {
		return fmt.Errorf("field and operator are required")
	}
	tmpl, err := template.New("value").Option("missingkey=error").Parse(d.Value)
	if err != nil {
		return fmt.Errorf("invalid value template %q: %v", d.Value, err)
	}
	d.valueTemplate = tmpl
	return nil
}

func (d *Definition) render(id *identity.Identity) (Filter, error) {
	if id == nil {
		// Anonymous caller: render against a zero identity so that
		// identity-parameterized filters degrade to empty values.
		id = &identity.Identity{}
	}
	var buf bytes.Buffer
	if err := d.valueTemplate.Execute(&buf, id); err != nil {
		return Filter{}, fmt.Errorf("failed to render filter value %q: %v", d.Value, err)
	}
	return Filter{Field: d.Field, Operator: d.Operator, Value: buf.String()}, nil
}

// Resolve returns the combined filter list for a request: all defaults first,
// followed by the named filters in the order given. An unknown or unrenderable
// name fails the whole resolution with an error identifying the name.
func (r *Resolver) Resolve(names []string, id *identity.Identity) ([]Filter, error) {
	var result []Filter
	for _, def := range r.defaults {
		f, err := def.render(id)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	for _, name := range names {
		def, ok := r.named[name]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", name)
		}
		f, err := def.render(id)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %v", name, err)
		}
		result = append(result, f)
	}
	return result, nil
}

// SplitCSV splits a comma-separated annotation value into its trimmed,
// non-empty parts. A missing annotation yields an empty slice.
func SplitCSV(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
