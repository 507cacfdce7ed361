// Package catalog contains the entity model of the software catalog that
// issuedash integrates with, and a client for the catalog's REST API.
// The catalog itself is an external service; entities are borrowed, not owned.
package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// The name of the (implicit) default namespace.
	// Entity references typically omit the default namespace even in
	// fully qualified form (e.g., component:billing-service).
	DefaultNamespace = "default"
)

// Valid entity kinds for use in entity references.
var validRefKinds = map[string]bool{
	"domain":    true,
	"system":    true,
	"component": true,
	"resource":  true,
	"api":       true,
	"group":     true,
}

// Regexp defining valid entity names and namespaces.
// Alphanumeric characters and "-". Must start and end with an alphanumeric character.
var validNameRE = regexp.MustCompile("^[A-Za-z]([A-Za-z0-9-]*[A-Za-z0-9])?$")

func IsValidKind(kind string) bool {
	return validRefKinds[kind]
}

func IsValidName(s string) bool {
	return len(s) > 0 && len(s) <= 63 && validNameRE.MatchString(s)
}

func IsValidNamespace(s string) bool {
	return len(s) > 0 && len(s) <= 63 && validNameRE.MatchString(s)
}

// Ref uniquely identifies an entity in the catalog.
type Ref struct {
	Kind      string
	Namespace string
	Name      string
}

// NewRef builds a validated Ref from its three parts. An empty namespace is
// mapped to the default namespace.
func NewRef(kind, namespace, name string) (*Ref, error) {
	if !IsValidKind(kind) {
		return nil, fmt.Errorf("invalid entity kind %q", kind)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	} else if !IsValidNamespace(namespace) {
		return nil, fmt.Errorf("invalid namespace %q", namespace)
	}
	if !IsValidName(name) {
		return nil, fmt.Errorf("invalid name %q", name)
	}
	return &Ref{Kind: kind, Namespace: namespace, Name: name}, nil
}

// ParseRef parses an entity reference in the format <kind>:<namespace>/<name>.
// The kind is required here (unlike in relation references inside the catalog),
// since issuedash uses refs as opaque lookup and cache keys.
func ParseRef(s string) (*Ref, error) {
	kind, qname, found := strings.Cut(s, ":")
	if !found {
		return nil, fmt.Errorf("entity reference %q has no kind", s)
	}
	ns, name, found := strings.Cut(qname, "/")
	if !found {
		ns, name = DefaultNamespace, qname
	}
	return NewRef(kind, ns, name)
}

// QName returns the namespace qualified name, e.g. "ns1/foo". The default
// namespace is omitted, i.e. an entity "default/foo" is returned as "foo".
func (r *Ref) QName() string {
	if r.Namespace != "" && r.Namespace != DefaultNamespace {
		return r.Namespace + "/" + r.Name
	}
	return r.Name
}

func (r *Ref) Equal(other *Ref) bool {
	return r.Kind == other.Kind && r.Namespace == other.Namespace && r.Name == other.Name
}

// String returns the fully qualified reference, omitting the default namespace.
func (r *Ref) String() string {
	return string(r.Kind) + ":" + r.QName()
}
