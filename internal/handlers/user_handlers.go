package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/partiallymisplaced/so-connect/internal/engine/actors"
	"github.com/partiallymisplaced/so-connect/internal/middleware"
	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/validation"
)

// LoginResponse carries the issued bearer token back to the client
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validation.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "error", "Invalid request")
			return
		}

		if result := validation.ValidateRegister(req); !result.IsValid() {
			s.writeValidationErrors(w, result.Errors)
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.RegisterUserMsg{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleUserLogin handles requests to log in a user
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validation.LoginInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "error", "Invalid request")
			return
		}

		if result := validation.ValidateLogin(req); !result.IsValid() {
			s.writeValidationErrors(w, result.Errors)
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		user, ok := result.(*models.User)
		if !ok {
			s.writeError(w, http.StatusInternalServerError, "error", "Internal server error")
			return
		}

		token, err := middleware.GenerateToken(user)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "error", "Failed to generate auth token")
			return
		}

		s.writeJSON(w, http.StatusOK, &LoginResponse{
			Success: true,
			Token:   "Bearer " + token,
			UserID:  user.ID.String(),
		})
	}
}
