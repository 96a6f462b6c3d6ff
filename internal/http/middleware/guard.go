package middleware

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/models"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/security"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user id placed in the context by a
// guard. Only valid inside guarded handlers.
func UserID(r *http.Request) int {
	id, _ := r.Context().Value(userIDKey).(int)
	return id
}

// Guard wraps handlers with session checks. The admin check re-reads the
// role from storage on every request, so a revoked admin is rejected on
// their next call.
type Guard struct {
	db       *db.DB
	sessions security.Store
}

func NewGuard(database *db.DB, sessions security.Store) *Guard {
	return &Guard{db: database, sessions: sessions}
}

// RequireAuth rejects requests without an active session.
func (g *Guard) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := g.sessions.UserID(r)
		if !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// RequireAdmin rejects requests without a session, then requests whose
// user's stored role is not admin.
func (g *Guard) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := g.sessions.UserID(r)
		if !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var role string
		err := g.db.QueryRow("SELECT role FROM users WHERE id = ?", userID).Scan(&role)
		if err == sql.ErrNoRows || (err == nil && role != models.RoleAdmin) {
			ErrorResponse(w, http.StatusForbidden, "Admin access required")
			return
		}
		if err != nil {
			StorageError(w, "failed to load role for admin check", err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}
