package web

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/svtemple/eventreg/internal/core"
)

// passwordMatches compares a supplied password with the configured
// admin secret in constant time.
func passwordMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// requireAdmin rejects the request unless the supplied password
// matches. Returns false when the caller should stop; the response has
// already been written.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request, password string) bool {
	if passwordMatches(password, s.cfg.Admin.Password) {
		return true
	}

	slog.Warn("admin auth failed",
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)
	respondError(w, r, &core.AuthError{})
	return false
}
