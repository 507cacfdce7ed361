package catalog

import "strings"

// Link is an external hyperlink related to an entity.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Metadata holds the identifying and auxiliary information of an entity.
type Metadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Links       []*Link           `json:"links,omitempty"`
}

// Entity is a catalog entity as returned by the catalog REST API.
// issuedash only interprets kind, metadata and annotations; the spec is
// opaque to all integrations in this module.
type Entity struct {
	Kind     string   `json:"kind"`
	Metadata Metadata `json:"metadata"`
}

// Ref returns the fully qualified entity reference.
func (e *Entity) Ref() *Ref {
	ns := e.Metadata.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return &Ref{Kind: strings.ToLower(e.Kind), Namespace: ns, Name: e.Metadata.Name}
}

// Annotation returns the value of the named annotation. The second return
// value reports whether the annotation is present and non-empty.
func (e *Entity) Annotation(name string) (string, bool) {
	v, ok := e.Metadata.Annotations[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
