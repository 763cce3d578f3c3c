package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"finvision/internal/auth"
	"finvision/internal/core"
)

type userResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = sanitizeInput(req.Name)
	req.Email = strings.ToLower(sanitizeInput(req.Email))
	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "name and a valid email are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Name, req.Email, hash, sanitizeInput(req.PhoneNumber))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(sanitizeInput(req.Email))
	user, hash, err := s.store.GetUserByEmail(r.Context(), email)
	if errors.Is(err, core.ErrNotFound) || (err == nil && !auth.CheckPassword(hash, req.Password)) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), userID(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

type profileUpdateRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	PhoneNumber *string `json:"phone_number"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := core.UserPatch{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	}
	if req.Email != nil {
		email := strings.ToLower(sanitizeInput(*req.Email))
		if !strings.Contains(email, "@") {
			respondError(w, http.StatusBadRequest, "invalid email")
			return
		}
		patch.Email = &email
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		patch.Password = &hash
	}

	user, err := s.store.UpdateUser(r.Context(), userID(r), patch)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}
