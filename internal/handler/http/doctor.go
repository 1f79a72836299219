package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/internal/service"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
	"github.com/utafrali/DermCareGo/pkg/httputil"
	"github.com/utafrali/DermCareGo/pkg/middleware"
	"github.com/utafrali/DermCareGo/pkg/pagination"
	"github.com/utafrali/DermCareGo/pkg/validator"
)

// DoctorHandler handles HTTP requests for doctor endpoints.
type DoctorHandler struct {
	service *service.DoctorService
	logger  *slog.Logger
}

// NewDoctorHandler creates a new doctor HTTP handler.
func NewDoctorHandler(svc *service.DoctorService, logger *slog.Logger) *DoctorHandler {
	return &DoctorHandler{service: svc, logger: logger}
}

// CreateDoctorRequest is the JSON request body for doctor registration.
type CreateDoctorRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Specialization string `json:"specialization" validate:"required,min=1,max=200"`
}

// AddReviewRequest is the JSON request body for reviewing a doctor.
type AddReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"required"`
}

// DoctorResponse is the doctor projection returned by doctor endpoints.
type DoctorResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	AverageRating  float64  `json:"average_rating"`
	Reviews        []string `json:"reviews"`
}

// Create handles POST /doctor/
func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.ValidationFailed("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	doctor, err := h.service.RegisterDoctor(r.Context(), &service.RegisterDoctorInput{
		Name:           req.Name,
		Specialization: req.Specialization,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, DoctorResponse{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
		AverageRating:  doctor.AverageRating,
		Reviews:        []string{},
	})
}

// List handles GET /doctor/?min_rating&skip&limit
func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	minRating := 0.0
	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteError(w, r, apperrors.ValidationFailed("min_rating must be a number"), h.logger)
			return
		}
		minRating = v
	}
	page := pagination.FromRequest(r)

	doctors, err := h.service.ListDoctors(r.Context(), minRating, page.Skip, page.Limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := make([]DoctorResponse, len(doctors))
	for i, d := range doctors {
		resp[i] = DoctorResponse{
			ID:             d.ID,
			Name:           d.Name,
			Specialization: d.Specialization,
			AverageRating:  d.AverageRating,
			Reviews:        d.Reviews,
		}
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// AddReview handles POST /doctor/{doctorID}/review
func (h *DoctorHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	doctorID, err := strconv.ParseInt(chi.URLParam(r, "doctorID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.ValidationFailed("doctor id must be an integer"), h.logger)
		return
	}

	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.ValidationFailed("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	_, err = h.service.AddReview(r.Context(), &service.AddReviewInput{
		DoctorID: doctorID,
		Author:   middleware.SubjectFromContext(r.Context()),
		Rating:   req.Rating,
		Text:     req.Review,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Review added successfully",
	})
}

// ListReviews handles GET /doctor/{doctorID}/reviews
func (h *DoctorHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(chi.URLParam(r, "doctorID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.ValidationFailed("doctor id must be an integer"), h.logger)
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), doctorID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}
