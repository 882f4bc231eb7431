package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/estradax/learnway/internal/fault"
	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthHandler struct {
	users     *service.UserService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandler(users *service.UserService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	IsTutor         bool   `json:"is_tutor"`
	Bio             string `json:"bio"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fault.New(fault.ValidationFailed, "invalid request body"))
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		IsTutor:         req.IsTutor,
		Bio:             req.Bio,
		HourlyRateCents: req.HourlyRateCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, authResponse{Token: token, User: user}, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fault.New(fault.ValidationFailed, "invalid request body"))
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, authResponse{Token: token, User: user}, http.StatusOK)
}

func (h *AuthHandler) issueToken(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": userID,
		"jti": uuid.NewString(),
		"exp": time.Now().Add(h.tokenTTL).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}
