package handlers

import (
	"database/sql"
	"net/http"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/http/middleware"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/models"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/security"
)

type AuthHandler struct {
	db       *db.DB
	sessions security.Store
}

func NewAuthHandler(database *db.DB, sessions security.Store) *AuthHandler {
	return &AuthHandler{db: database, sessions: sessions}
}

// Signup handles POST /signup. A successful signup logs the new user in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	var existing int
	err := h.db.QueryRow("SELECT id FROM users WHERE email = ?", req.Email).Scan(&existing)
	if err == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email already exists")
		return
	}
	if err != sql.ErrNoRows {
		middleware.StorageError(w, "failed to check email", err)
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		middleware.StorageError(w, "failed to hash password", err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	id, err := h.db.InsertID(
		"INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)",
		req.Username, req.Email, hash, role,
	)
	if err != nil {
		middleware.StorageError(w, "failed to create user", err)
		return
	}

	if err := h.sessions.SetUserID(w, r, int(id)); err != nil {
		middleware.StorageError(w, "failed to establish session", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SignupResponse{
		Success: true,
		Message: "Registration successful",
		User:    models.SignupUser{ID: int(id), Role: role},
	})
}

// Login handles POST /login. Unknown email and wrong password produce the
// same response, so the caller cannot tell which was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password required")
		return
	}

	var user models.User
	err := h.db.QueryRow(
		"SELECT id, username, email, password_hash, role FROM users WHERE email = ?",
		req.Email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		middleware.StorageError(w, "failed to load user", err)
		return
	}

	if !security.CheckPassword(user.PasswordHash, req.Password) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.sessions.SetUserID(w, r, user.ID); err != nil {
		middleware.StorageError(w, "failed to establish session", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Success: true,
		Message: "Login successful",
		User: models.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

// Logout handles POST /logout. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		middleware.StorageError(w, "failed to clear session", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LogoutResponse{
		Success: true,
		Message: "Logged out",
	})
}

// CheckAuth handles GET /check-auth. The profile is re-fetched from the
// users table so role changes show up without a new login.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.UserID(r)
	if !ok {
		middleware.JSONResponse(w, http.StatusOK, models.CheckAuthResponse{Authenticated: false})
		return
	}

	var info models.UserInfo
	err := h.db.QueryRow(
		"SELECT id, username, email, role FROM users WHERE id = ?",
		userID,
	).Scan(&info.ID, &info.Username, &info.Email, &info.Role)
	if err == sql.ErrNoRows {
		// Session refers to a deleted user.
		middleware.JSONResponse(w, http.StatusOK, models.CheckAuthResponse{Authenticated: false})
		return
	}
	if err != nil {
		middleware.StorageError(w, "failed to load user", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CheckAuthResponse{
		Authenticated: true,
		User:          &info,
	})
}
