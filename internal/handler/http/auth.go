package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/DermCareGo/internal/service"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
	"github.com/utafrali/DermCareGo/pkg/httputil"
)

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// Token handles POST /auth/token. The request body is form-encoded
// (OAuth2 password flow style): username and password fields.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid form body"), h.logger)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	result, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
