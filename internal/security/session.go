package security

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "solar_session"

// Store is the session dependency handlers receive. The backing store is
// injected at startup rather than held in package-level state.
type Store interface {
	// UserID returns the authenticated user id carried by the request's
	// session, if any.
	UserID(r *http.Request) (int, bool)
	// SetUserID binds the session to a user id and writes the cookie.
	SetUserID(w http.ResponseWriter, r *http.Request, userID int) error
	// Clear drops the session. Clearing an absent session is a no-op.
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieStore keeps the session payload in a signed cookie.
type CookieStore struct {
	store *sessions.CookieStore
}

func NewCookieStore(secret []byte) *CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store}
}

func (s *CookieStore) UserID(r *http.Request) (int, bool) {
	// A tampered or stale cookie yields an error plus a fresh session;
	// treat it the same as no session.
	session, _ := s.store.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(int)
	return userID, ok
}

func (s *CookieStore) SetUserID(w http.ResponseWriter, r *http.Request, userID int) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values["user_id"] = userID
	return session.Save(r, w)
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	delete(session.Values, "user_id")
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// RandomSecret generates a session secret for deployments that did not
// configure one. Sessions then do not survive a restart.
func RandomSecret() string {
	b := make([]byte, 24)
	rand.Read(b)
	return hex.EncodeToString(b)
}
