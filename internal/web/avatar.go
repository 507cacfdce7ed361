package web

import (
	"context"
	"io"
	"log"
	"net/http"
)

// avatarSize is the avatar variant served by the proxy.
const avatarSize = "48x48"

// serveAvatar streams the project's avatar image to the caller. The body is
// forwarded as it arrives; a client disconnect cancels the upstream fetch
// through the request context.
func (s *Server) serveAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	entity, ok := s.resolveEntity(ctx, w, r)
	if !ok {
		return
	}
	project, ok := s.projectForEntity(ctx, w, entity)
	if !ok {
		return
	}

	avatarURL, ok := project.AvatarURLs[avatarSize]
	if !ok || avatarURL == "" {
		writeError(w, http.StatusNotFound, "project "+project.Key+" has no avatar")
		return
	}

	// The image transfer itself is bounded by the client connection, not by
	// the JSON upstream timeout.
	img, err := s.backends.Tracker.FetchImage(r.Context(), avatarURL)
	if err != nil {
		log.Printf("Avatar fetch for project %q failed: %v", project.Key, err)
		writeError(w, http.StatusBadGateway, "avatar fetch failed")
		return
	}
	defer img.Body.Close()

	if img.ContentType != "" {
		w.Header().Set("Content-Type", img.ContentType)
	}
	if _, err := io.Copy(w, img.Body); err != nil {
		// Headers are already sent; all we can do is drop the connection.
		log.Printf("Avatar stream for project %q aborted: %v", project.Key, err)
	}
}
