package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/domain"
	useruc "github.com/kailas-cloud/phonedex/internal/usecase/user"
	"github.com/kailas-cloud/phonedex/internal/validation"
)

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser handles POST /users/create. New accounts always get the regular role.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := s.decodeBody(r, validation.User, &body); err != nil {
		s.registerFailed(w, r, err)
		return
	}

	session, err := s.users.Register(r.Context(), useruc.Input{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		s.registerFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// registerFailed answers 400 {errors} for client errors.
func (s *Server) registerFailed(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *validation.Error
	var fieldErr *domain.ValidationError
	switch {
	case errors.As(err, &schemaErr):
		s.handleRouteError(w, r, err, http.StatusBadRequest, map[string]any{"errors": schemaErr.Issues})
	case errors.As(err, &fieldErr):
		s.handleRouteError(w, r, err, http.StatusBadRequest, map[string]any{
			"errors": []validation.Issue{{Field: fieldErr.Field, Message: fieldErr.Reason}},
		})
	case errors.Is(err, domain.ErrAlreadyExists):
		s.handleRouteError(w, r, err, http.StatusBadRequest, map[string]any{
			"errors": []validation.Issue{{Field: "email", Message: "Email already exists"}},
		})
	default:
		s.handleDomainError(w, r, err)
	}
}

// Login handles POST /users/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := s.decodeBody(r, validation.Login, &body); err != nil {
		s.handleRouteError(w, r, err, http.StatusBadRequest, map[string]string{"status": "FAIL"})
		return
	}

	session, err := s.users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, useruc.ErrTooManyAttempts) || errors.Is(err, domain.ErrUnauthorized) {
			s.log(r).Warn("login failed", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "FAIL"})
			return
		}
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "OK",
		"token":  session.Token,
		"user":   session.User,
	})
}

// ListUsers handles GET /users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
