package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vjhub/vjhub-backend/internal/database"
	"github.com/vjhub/vjhub-backend/internal/middleware"
	"github.com/vjhub/vjhub-backend/internal/models"
	"github.com/vjhub/vjhub-backend/internal/services"
	"github.com/vjhub/vjhub-backend/internal/validate"
	"github.com/vjhub/vjhub-backend/pkg/utils"
)

// SignupRequest is the account registration payload.
type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	University string `json:"university,omitempty"`
	Role       string `json:"role,omitempty"`
}

func (req *SignupRequest) validate() validate.Errors {
	var errs validate.Errors
	errs.Email("email", req.Email)
	if len(req.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}
	errs.Required("firstName", req.FirstName)
	errs.Required("lastName", req.LastName)
	if req.Role != "" {
		// Admin accounts are provisioned directly, never via signup.
		errs.OneOf("role", req.Role, models.RoleStudent, models.RoleFaculty)
	}
	return errs
}

// SigninRequest is the login payload.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if errs := req.validate(); !errs.OK() {
		respondValidation(w, errs)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	err := database.PostgresDB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		respondServerError(w, "check email", err)
		return
	}
	if exists {
		respondConflict(w, "An account with this email already exists")
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondServerError(w, "hash password", err)
		return
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = req.Role
	}

	userID := uuid.New()
	now := time.Now()
	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, created_at, updated_at, email, password_hash, first_name, last_name, university, role)
		VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8)
	`, userID, now, email, passwordHash, req.FirstName, req.LastName, req.University, role)
	if err != nil {
		respondServerError(w, "create account", err)
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		respondServerError(w, "create session", err)
		return
	}

	user := models.User{
		ID:         userID.String(),
		CreatedAt:  now,
		UpdatedAt:  now,
		Email:      email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		University: req.University,
		Role:       role,
	}

	respondCreated(w, "Account created successfully", map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Signin handles POST /api/auth/signin. A wrong email and a wrong password
// return the same message.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondBadRequest(w, "Email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u models.User
	var passwordHash string
	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, updated_at, email, password_hash, first_name, last_name, university, bio, avatar, role
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &passwordHash, &u.FirstName, &u.LastName, &u.University, &u.Bio, &u.Avatar, &u.Role)
	if err == sql.ErrNoRows {
		respondBadRequest(w, "Invalid email or password")
		return
	}
	if err != nil {
		respondServerError(w, "load account", err)
		return
	}

	match, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !match {
		respondBadRequest(w, "Invalid email or password")
		return
	}

	userID, err := uuid.Parse(u.ID)
	if err != nil {
		respondServerError(w, "parse user id", err)
		return
	}
	token, err := services.CreateSession(userID)
	if err != nil {
		respondServerError(w, "create session", err)
		return
	}

	respondOK(w, "Signed in successfully", map[string]interface{}{
		"user":  u,
		"token": token,
	})
}

// Signout handles POST /api/auth/signout (authenticated).
func Signout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		token = ""
	}

	if err := services.InvalidateSession(token); err != nil {
		respondServerError(w, "invalidate session", err)
		return
	}

	respondOK(w, "Signed out successfully", nil)
}

// GetMe handles GET /api/auth/me (authenticated).
func GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	respondOK(w, "", map[string]interface{}{"user": user})
}
