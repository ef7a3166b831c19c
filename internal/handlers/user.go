package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/shithead/internal/auth"
	"github.com/jason-s-yu/shithead/internal/database"
	"github.com/jason-s-yu/shithead/internal/models"
	"github.com/sirupsen/logrus"
)

const guestName = "Guest"

// EnsureEphemeralUser resolves the caller from their token. A caller without a valid token gets a
// fresh guest user and a cookie for it. Guests are only persisted when a database is configured.
// Must run before any WebSocket upgrade, since it may set a cookie.
func EnsureEphemeralUser(w http.ResponseWriter, r *http.Request) (*models.User, error) {
	if token := tokenFromRequest(r); token != "" {
		if sub, err := auth.AuthenticateJWT(token); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return lookupUser(r, id), nil
			}
		}
	}

	guest := &models.User{Username: guestName, IsEphemeral: true}
	if database.Enabled() {
		if err := database.CreateUser(r.Context(), guest); err != nil {
			return nil, err
		}
	} else {
		guest.ID = uuid.New()
	}

	token, err := auth.CreateJWT(guest.ID.String())
	if err != nil {
		return nil, err
	}
	setAuthCookie(w, token, auth.CookieMaxAge())
	return guest, nil
}

// lookupUser loads id from the database, degrading to a bare guest when it cannot.
func lookupUser(r *http.Request, id uuid.UUID) *models.User {
	if database.Enabled() {
		if u, err := database.GetUserByID(r.Context(), id); err == nil {
			return u
		}
	}
	return &models.User{ID: id, Username: guestName, IsEphemeral: true}
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// CreateUserHandler registers a permanent account.
func CreateUserHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !database.Enabled() {
			http.Error(w, "accounts are unavailable", http.StatusServiceUnavailable)
			return
		}
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" || req.Username == "" {
			http.Error(w, "email, password and username are required", http.StatusBadRequest)
			return
		}

		user := models.User{Email: req.Email, Password: req.Password, Username: req.Username}
		if err := database.CreateUser(r.Context(), &user); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				http.Error(w, "email already exists", http.StatusConflict)
				return
			}
			logger.WithError(err).Error("failed to create user")
			http.Error(w, "error creating user", http.StatusInternalServerError)
			return
		}
		user.Password = ""
		writeJSON(w, http.StatusCreated, user)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// LoginHandler handles user login requests. It expects a JSON payload with email and password,
// and returns a JSON response with an authentication token if the login is successful.
//
// Request payload:
//
//	{
//	  "email": "someone@example.com",
//	  "password": "password"
//	}
//
// Response payload:
//
//	{
//	  "token": "{jwt}"
//	}
//
// The token is also sent via the Cookie header.
func LoginHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !database.Enabled() {
			http.Error(w, "accounts are unavailable", http.StatusServiceUnavailable)
			return
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request payload", http.StatusBadRequest)
			return
		}

		token, err := database.AuthenticateUser(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.WithError(err).WithField("email", req.Email).Info("login failed")
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		setAuthCookie(w, token, auth.CookieMaxAge())
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}

// MeHandler returns the caller's profile, creating a guest if needed.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := EnsureEphemeralUser(w, r)
	if err != nil {
		http.Error(w, "failed to resolve user", http.StatusInternalServerError)
		return
	}
	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}
