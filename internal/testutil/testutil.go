// Package testutil provides the shared fixtures for handler tests: an
// in-memory sqlite database with the full schema, seeded users, and
// request/response helpers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/security"
)

// SetupDB opens a fresh named in-memory sqlite database with the schema
// created. cache=shared keeps the database alive across the pool's
// connections; the unique name isolates parallel tests.
func SetupDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	database, err := db.Init("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection so the shared in-memory database cannot be dropped
	// by pool churn.
	database.SetMaxOpenConns(1)

	t.Cleanup(func() { database.Close() })
	return database
}

// NewSessionStore returns a cookie session store with a fixed test secret.
func NewSessionStore() *security.CookieStore {
	return security.NewCookieStore([]byte("test-session-secret"))
}

// CreateUser inserts a user with a bcrypt-hashed password and returns the
// new id.
func CreateUser(t *testing.T, database *db.DB, username, email, password, role string) int {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	id, err := database.InsertID(
		"INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)",
		username, email, hash, role,
	)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return int(id)
}

// CreateQuestion inserts a quiz question and returns its id.
func CreateQuestion(t *testing.T, database *db.DB, category, question, a, b, c, d, correct string) int {
	t.Helper()

	id, err := database.InsertID(`
		INSERT INTO quizzes (category, question, option_a, option_b, option_c, option_d, correct_answer)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category, question, a, b, c, d, correct)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return int(id)
}

// SessionCookie mints the session cookie a logged-in user would carry.
func SessionCookie(t *testing.T, store security.Store, userID int) string {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := store.SetUserID(w, r, userID); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	cookie := w.Header().Get("Set-Cookie")
	if cookie == "" {
		t.Fatal("No session cookie written")
	}
	return cookie
}

// NewRequest builds a request with an optional JSON body.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}

	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AuthRequest builds a request carrying userID's session cookie.
func AuthRequest(t *testing.T, store security.Store, userID int, method, path string, body any) *http.Request {
	t.Helper()

	req := NewRequest(method, path, body)
	req.Header.Set("Cookie", SessionCookie(t, store, userID))
	return req
}

// AssertStatus fails the test when the recorded status differs.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// DecodeJSON decodes the recorded response body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
