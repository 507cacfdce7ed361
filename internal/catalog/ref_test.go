package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		input string
		want  *Ref
	}{
		{"component:my-service", &Ref{Kind: "component", Namespace: "default", Name: "my-service"}},
		{"component:ns1/my-service", &Ref{Kind: "component", Namespace: "ns1", Name: "my-service"}},
		{"system:payments", &Ref{Kind: "system", Namespace: "default", Name: "payments"}},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseRef(tc.input)
			if err != nil {
				t.Fatalf("ParseRef(%q): %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseRef(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParseRef_Invalid(t *testing.T) {
	tests := []string{
		"",
		"my-service",          // no kind
		"widget:my-service",   // unknown kind
		"component:",          // empty name
		"component:-bad-",     // invalid name
		"component:_ns/name",  // invalid namespace
		"component:ns/na me",  // invalid name
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseRef(input); err == nil {
				t.Errorf("ParseRef(%q) succeeded, want error", input)
			}
		})
	}
}

func TestRefString_OmitsDefaultNamespace(t *testing.T) {
	r := &Ref{Kind: "component", Namespace: "default", Name: "foo"}
	if got, want := r.String(), "component:foo"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	r.Namespace = "ns1"
	if got, want := r.String(), "component:ns1/foo"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNewRef_DefaultsNamespace(t *testing.T) {
	r, err := NewRef("component", "", "foo")
	if err != nil {
		t.Fatalf("NewRef: %v", err)
	}
	if r.Namespace != DefaultNamespace {
		t.Errorf("Namespace = %q, want %q", r.Namespace, DefaultNamespace)
	}
}

func TestEntityAnnotation(t *testing.T) {
	e := &Entity{
		Kind: "Component",
		Metadata: Metadata{
			Name: "foo",
			Annotations: map[string]string{
				"jira/project-key": "ISD",
				"empty":            "",
			},
		},
	}
	if v, ok := e.Annotation("jira/project-key"); !ok || v != "ISD" {
		t.Errorf("Annotation(jira/project-key) = %q, %t", v, ok)
	}
	if _, ok := e.Annotation("empty"); ok {
		t.Error("Annotation(empty) reported present for empty value")
	}
	if _, ok := e.Annotation("absent"); ok {
		t.Error("Annotation(absent) reported present")
	}
	if got, want := e.Ref().String(), "component:foo"; got != want {
		t.Errorf("Ref() = %q, want %q", got, want)
	}
}
