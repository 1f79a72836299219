package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/internal/service"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
	"github.com/utafrali/DermCareGo/pkg/httputil"
	"github.com/utafrali/DermCareGo/pkg/validator"
)

// RecommendationHandler handles HTTP requests for recommendation endpoints.
type RecommendationHandler struct {
	service *service.RecommendationService
	logger  *slog.Logger
}

// NewRecommendationHandler creates a new recommendation HTTP handler.
func NewRecommendationHandler(svc *service.RecommendationService, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{service: svc, logger: logger}
}

// CreateRecommendationRequest is the JSON request body for creating a
// recommendation link.
type CreateRecommendationRequest struct {
	PatientName string  `json:"patient_name" validate:"required,min=1,max=200"`
	Notes       string  `json:"notes"`
	Products    []int64 `json:"products" validate:"required,min=1,dive,gt=0"`
}

// RecommendationResponse is the payload returned when creating or resolving
// a recommendation link.
type RecommendationResponse struct {
	UUID        string           `json:"uuid"`
	Link        string           `json:"link"`
	PatientName string           `json:"patient_name"`
	Notes       string           `json:"notes"`
	Products    []domain.Product `json:"products"`
	Expiry      time.Time        `json:"expiry"`
}

func newRecommendationResponse(rec *domain.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		UUID:        rec.Token,
		Link:        "/recommendation/" + rec.Token,
		PatientName: rec.PatientName,
		Notes:       rec.Notes,
		Products:    rec.Products,
		Expiry:      rec.ExpiresAt,
	}
}

// Create handles POST /recommendation/{doctorID}
func (h *RecommendationHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	doctorID, err := strconv.ParseInt(chi.URLParam(r, "doctorID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.ValidationFailed("doctor id must be an integer"), h.logger)
		return
	}

	var req CreateRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.ValidationFailed("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := h.service.CreateRecommendation(r.Context(), &service.CreateRecommendationInput{
		DoctorID:    doctorID,
		PatientName: req.PatientName,
		Notes:       req.Notes,
		ProductIDs:  req.Products,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, newRecommendationResponse(rec))
}

// Get handles GET /recommendation/{token}
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	rec, err := h.service.GetByToken(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newRecommendationResponse(rec))
}
