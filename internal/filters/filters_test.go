package filters

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/issuedash/issuedash/internal/identity"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(Config{
		Defaults: []*Definition{
			{Field: "assignee", Operator: "=", Value: "{{.Username}}"},
		},
		Named: []*Definition{
			{Name: "open", Field: "status", Operator: "=", Value: "Open"},
			{Name: "recent", Field: "updated", Operator: ">=", Value: "-14d"},
		},
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestResolve_DefaultsFirst(t *testing.T) {
	r := newTestResolver(t)
	id := &identity.Identity{Username: "jdoe"}

	got, err := r.Resolve([]string{"open", "recent"}, id)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []Filter{
		{Field: "assignee", Operator: "=", Value: "jdoe"},
		{Field: "status", Operator: "=", Value: "Open"},
		{Field: "updated", Operator: ">=", Value: "-14d"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NilIdentity(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.Resolve(nil, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Identity-parameterized defaults degrade to empty values for
	// anonymous callers.
	want := []Filter{{Field: "assignee", Operator: "=", Value: ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_UnknownNameIsAttributed(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve([]string{"open", "no-such-filter"}, nil)
	if err == nil {
		t.Fatal("Resolve succeeded, want error")
	}
	if !strings.Contains(err.Error(), "no-such-filter") {
		t.Errorf("error %q does not name the offending filter", err)
	}
}

func TestNewResolver_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "named filter without name",
			cfg:  Config{Named: []*Definition{{Field: "status", Operator: "=", Value: "Open"}}},
		},
		{
			name: "missing field",
			cfg:  Config{Defaults: []*Definition{{Operator: "=", Value: "x"}}},
		},
		{
			name: "broken template",
			cfg:  Config{Defaults: []*Definition{{Field: "assignee", Operator: "=", Value: "{{.Username"}}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewResolver(tc.cfg); err == nil {
				t.Error("NewResolver succeeded, want error")
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{" a , b ,, c ", []string{"a", "b", "c"}},
	}
	for _, tc := range tests {
		got := SplitCSV(tc.input)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("SplitCSV(%q) mismatch (-want +got):\n%s", tc.input, diff)
		}
	}
}
