package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/DermCareGo/internal/auth"
	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/internal/service"
	"github.com/utafrali/DermCareGo/pkg/health"
	"github.com/utafrali/DermCareGo/pkg/httputil"
	"github.com/utafrali/DermCareGo/pkg/middleware"
)

// NewRouter creates a chi router with all service routes registered.
func NewRouter(
	authService *service.AuthService,
	doctorService *service.DoctorService,
	recommendationService *service.RecommendationService,
	tokenManager *auth.TokenManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("dermcare"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("dermcare"))
	r.Use(middleware.RequestLogger(logger))

	// Service info and health endpoints
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"service": "Dermatologist Review & Recommendation API",
			"status":  "ok",
		})
	})
	r.Get("/health", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Auth endpoints (public, form-encoded)
	authHandler := NewAuthHandler(authService, logger)
	r.Post("/auth/token", authHandler.Token)

	// Token validator that bridges to our internal TokenManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := tokenManager.Verify(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			Subject: claims.Subject,
			Role:    string(claims.Role),
		}, nil
	}

	// Doctor endpoints. Listing is public; registering requires a token
	// with the doctor role, and reviewing requires any valid token.
	doctorHandler := NewDoctorHandler(doctorService, logger)
	r.Route("/doctor", func(r chi.Router) {
		r.Get("/", doctorHandler.List)
		r.Get("/{doctorID}/reviews", doctorHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))

			r.With(middleware.RequireRole(string(domain.RoleDoctor))).
				Post("/", doctorHandler.Create)
			r.Post("/{doctorID}/review", doctorHandler.AddReview)
		})
	})

	// Recommendation endpoints (public): creating a link and resolving it
	// by token both work without authentication.
	recommendationHandler := NewRecommendationHandler(recommendationService, logger)
	r.Route("/recommendation", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/{doctorID}", recommendationHandler.Create)
		r.Get("/{token}", recommendationHandler.Get)
	})

	return r
}
