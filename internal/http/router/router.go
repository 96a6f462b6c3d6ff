package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/config"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/http/handlers"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/http/middleware"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/security"
)

// Setup wires handlers, guards and transport middleware into the served
// handler chain.
func Setup(database *db.DB, sessions security.Store, cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	guard := middleware.NewGuard(database, sessions)
	authHandler := handlers.NewAuthHandler(database, sessions)
	quizHandler := handlers.NewQuizHandler(database)

	r.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	r.HandleFunc("/check-auth", authHandler.CheckAuth).Methods("GET")

	for path, schema := range map[string]handlers.EntitySchema{
		"planets":   handlers.Planets,
		"asteroids": handlers.Asteroids,
		"comets":    handlers.Comets,
	} {
		h := handlers.NewCatalogHandler(database, schema)
		r.HandleFunc("/"+path, h.List).Methods("GET")
		r.HandleFunc("/"+path, guard.RequireAdmin(h.Create)).Methods("POST")
		r.HandleFunc("/"+path+"/{id:[0-9]+}", guard.RequireAdmin(h.Update)).Methods("PUT")
		r.HandleFunc("/"+path+"/{id:[0-9]+}", guard.RequireAdmin(h.Delete)).Methods("DELETE")
	}

	// Fixed quiz paths register before the {category} wildcard so
	// "categories", "submit" and "results" are not taken as categories.
	r.HandleFunc("/quiz/categories", quizHandler.Categories).Methods("GET")
	r.HandleFunc("/quiz/results", guard.RequireAuth(quizHandler.MyResults)).Methods("GET")
	r.HandleFunc("/quiz/submit", guard.RequireAuth(quizHandler.Submit)).Methods("POST")
	r.HandleFunc("/quiz", guard.RequireAdmin(quizHandler.AddQuestion)).Methods("POST")
	r.HandleFunc("/quiz/{id:[0-9]+}", guard.RequireAdmin(quizHandler.UpdateQuestion)).Methods("PUT")
	r.HandleFunc("/quiz/{id:[0-9]+}", guard.RequireAdmin(quizHandler.DeleteQuestion)).Methods("DELETE")
	r.HandleFunc("/quiz/{category}", quizHandler.Questions).Methods("GET")

	r.HandleFunc("/admin/quiz-results", guard.RequireAdmin(quizHandler.AllResults)).Methods("GET")

	// CORS wraps outside the router so preflight OPTIONS requests are
	// answered even when no route matches the method.
	return middleware.CORS(cfg.AllowedOrigin, middleware.RequestLogger(r))
}
