package session

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// BearerToken extracts the token from the Authorization header. Browsers
// cannot set headers on websocket upgrades, so those may pass ?token=.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

// Resolve returns the session for r. Missing, malformed, expired or revoked
// tokens all resolve to Anonymous.
func (m *Manager) Resolve(r *http.Request) Session {
	token := BearerToken(r)
	if token == "" {
		return Anonymous{}
	}
	auth, err := m.Parse(r.Context(), token)
	if err != nil {
		return Anonymous{}
	}
	return auth
}

// Middleware attaches the resolved session to the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), m.Resolve(r))))
	})
}

// RequireAdmin rejects requests whose context session is not an
// authenticated administrator. It expects Middleware to run first.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Admin(FromContext(r.Context())); !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdminFunc(next http.HandlerFunc) http.Handler {
	return RequireAdmin(next)
}
