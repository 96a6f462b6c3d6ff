package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/config"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/http/router"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/security"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/testutil"
)

// newTestServer wires a full server over a fresh in-memory database, so
// handler tests cover routing and guards as well.
func newTestServer(t *testing.T) (http.Handler, *db.DB, *security.CookieStore) {
	t.Helper()

	database := testutil.SetupDB(t)
	store := testutil.NewSessionStore()
	srv := router.Setup(database, store, &config.Config{})
	return srv, database, store
}

func do(srv http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}
