package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/internal/repository"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

// expiredLinkMessage is returned for both unknown and expired tokens so a
// caller cannot tell the two apart.
const expiredLinkMessage = "Link expired or not found"

// ProductResolver resolves product IDs against the external catalog.
type ProductResolver interface {
	Resolve(ctx context.Context, ids []int64) ([]domain.Product, error)
}

// RecommendationEventPublisher publishes recommendation domain events.
type RecommendationEventPublisher interface {
	PublishRecommendationCreated(ctx context.Context, rec *domain.Recommendation) error
}

// CreateRecommendationInput holds the parameters for creating a
// recommendation link.
type CreateRecommendationInput struct {
	DoctorID    int64
	PatientName string
	Notes       string
	ProductIDs  []int64
}

// RecommendationService implements the business logic for recommendation
// links.
type RecommendationService struct {
	repo     repository.RecommendationRepository
	doctors  repository.DoctorRepository
	catalog  ProductResolver
	producer RecommendationEventPublisher
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewRecommendationService creates a new recommendation service. ttl is how
// long a link remains resolvable after creation.
func NewRecommendationService(
	repo repository.RecommendationRepository,
	doctors repository.DoctorRepository,
	catalog ProductResolver,
	producer RecommendationEventPublisher,
	logger *slog.Logger,
	ttl time.Duration,
) *RecommendationService {
	return &RecommendationService{
		repo:     repo,
		doctors:  doctors,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateRecommendation resolves every product against the catalog, snapshots
// them, and stores a new expiring link bound to the doctor. Resolution is
// all-or-nothing: if any product cannot be resolved, no link is created.
func (s *RecommendationService) CreateRecommendation(ctx context.Context, input *CreateRecommendationInput) (*domain.Recommendation, error) {
	if input == nil {
		return nil, apperrors.ValidationFailed("recommendation input is required")
	}
	if strings.TrimSpace(input.PatientName) == "" {
		return nil, apperrors.ValidationFailed("patient_name is required")
	}
	if len(input.ProductIDs) == 0 {
		return nil, apperrors.ValidationFailed("at least one product id is required")
	}
	for i, id := range input.ProductIDs {
		if id <= 0 {
			return nil, apperrors.ValidationFailed(fmt.Sprintf("product id at position %d must be positive", i))
		}
	}

	if _, err := s.doctors.GetByID(ctx, input.DoctorID); err != nil {
		return nil, fmt.Errorf("get doctor for recommendation: %w", err)
	}

	products, err := s.catalog.Resolve(ctx, input.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	rec := &domain.Recommendation{
		Token:       uuid.New().String(),
		DoctorID:    input.DoctorID,
		PatientName: input.PatientName,
		Notes:       input.Notes,
		Products:    products,
		ExpiresAt:   s.now().Add(s.ttl),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create recommendation: %w", err)
	}

	if err := s.producer.PublishRecommendationCreated(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish recommendation.created event",
			slog.String("token", rec.Token),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "recommendation link created",
		slog.String("token", rec.Token),
		slog.Int64("doctor_id", rec.DoctorID),
		slog.Int("product_count", len(rec.Products)),
		slog.Time("expires_at", rec.ExpiresAt),
	)

	return rec, nil
}

// GetByToken retrieves a recommendation link. Unknown and expired tokens are
// indistinguishable to the caller.
func (s *RecommendationService) GetByToken(ctx context.Context, token string) (*domain.Recommendation, error) {
	// The token column is UUID-typed, so a malformed token can never match a
	// row; reject it here instead of letting the database reject the bind.
	if _, err := uuid.Parse(token); err != nil {
		return nil, apperrors.NotFoundMsg(expiredLinkMessage)
	}

	rec, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundMsg(expiredLinkMessage)
		}
		return nil, fmt.Errorf("get recommendation: %w", err)
	}

	if rec.Expired(s.now()) {
		return nil, apperrors.NotFoundMsg(expiredLinkMessage)
	}

	return rec, nil
}
