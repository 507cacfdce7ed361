// Package identity resolves the caller's identity from an inbound request.
// The identity provider itself is an external concern; in the supported
// deployment an authenticating proxy forwards the user as request headers.
package identity

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoIdentity is returned when a request carries no identity information.
// Callers treat this as a degraded mode, not a failure.
var ErrNoIdentity = errors.New("no identity in request")

// Identity describes the authenticated caller of a request.
type Identity struct {
	Username string
	Email    string
}

// Resolver extracts the caller's identity from a request.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) (*Identity, error)
}

// HeaderResolver reads the identity from trusted proxy headers.
type HeaderResolver struct {
	// UserHeader names the header carrying the username. Defaults to
	// "X-Forwarded-User" if empty.
	UserHeader string
	// EmailHeader names the header carrying the email. Defaults to
	// "X-Forwarded-Email" if empty.
	EmailHeader string
}

func (h *HeaderResolver) Resolve(ctx context.Context, r *http.Request) (*Identity, error) {
	userHeader := h.UserHeader
	if userHeader == "" {
		userHeader = "X-Forwarded-User"
	}
	emailHeader := h.EmailHeader
	if emailHeader == "" {
		emailHeader = "X-Forwarded-Email"
	}
	user := r.Header.Get(userHeader)
	if user == "" {
		return nil, ErrNoIdentity
	}
	return &Identity{
		Username: user,
		Email:    r.Header.Get(emailHeader),
	}, nil
}
