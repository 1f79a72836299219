package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/internal/repository"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

const maxReviewWords = 100

// DoctorEventPublisher publishes doctor domain events.
type DoctorEventPublisher interface {
	PublishDoctorCreated(ctx context.Context, doctor *domain.Doctor) error
	PublishDoctorReviewed(ctx context.Context, review *domain.Review, averageRating float64) error
}

// RegisterDoctorInput holds the parameters for registering a doctor.
type RegisterDoctorInput struct {
	Name           string
	Specialization string
}

// AddReviewInput holds the parameters for reviewing a doctor.
type AddReviewInput struct {
	DoctorID int64
	Author   string
	Rating   int
	Text     string
}

// DoctorService implements the business logic for doctor operations.
type DoctorService struct {
	repo     repository.DoctorRepository
	producer DoctorEventPublisher
	logger   *slog.Logger
}

// NewDoctorService creates a new doctor service.
func NewDoctorService(repo repository.DoctorRepository, producer DoctorEventPublisher, logger *slog.Logger) *DoctorService {
	return &DoctorService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// RegisterDoctor registers a new dermatologist with a zero average rating.
func (s *DoctorService) RegisterDoctor(ctx context.Context, input *RegisterDoctorInput) (*domain.Doctor, error) {
	if input == nil {
		return nil, apperrors.ValidationFailed("doctor input is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.ValidationFailed("name is required")
	}
	if strings.TrimSpace(input.Specialization) == "" {
		return nil, apperrors.ValidationFailed("specialization is required")
	}

	doctor := &domain.Doctor{
		Name:           strings.TrimSpace(input.Name),
		Specialization: strings.TrimSpace(input.Specialization),
		AverageRating:  0,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("register doctor: %w", err)
	}

	if err := s.producer.PublishDoctorCreated(ctx, doctor); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish doctor.created event",
			slog.Int64("doctor_id", doctor.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "doctor registered",
		slog.Int64("doctor_id", doctor.ID),
		slog.String("name", doctor.Name),
		slog.String("specialization", doctor.Specialization),
	)

	return doctor, nil
}

// GetDoctor retrieves a doctor by its identifier.
func (s *DoctorService) GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return doctor, nil
}

// ListDoctors returns doctors with average rating at or above minRating,
// ordered by ID, together with their review texts.
func (s *DoctorService) ListDoctors(ctx context.Context, minRating float64, skip, limit int) ([]domain.DoctorWithReviews, error) {
	if minRating < 0 {
		minRating = 0
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	doctors, err := s.repo.List(ctx, minRating, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// AddReview records a review for a doctor and returns the doctor with its
// recomputed average rating.
func (s *DoctorService) AddReview(ctx context.Context, input *AddReviewInput) (*domain.Doctor, error) {
	if input == nil {
		return nil, apperrors.ValidationFailed("review input is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.ValidationFailed("rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperrors.ValidationFailed("review text is required")
	}
	if words := len(strings.Fields(input.Text)); words > maxReviewWords {
		return nil, apperrors.ValidationFailed(fmt.Sprintf("review text must not exceed %d words, got %d", maxReviewWords, words))
	}

	review := &domain.Review{
		DoctorID: input.DoctorID,
		Author:   input.Author,
		Rating:   input.Rating,
		Text:     input.Text,
	}

	doctor, err := s.repo.AddReview(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}

	if err := s.producer.PublishDoctorReviewed(ctx, review, doctor.AverageRating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish doctor.reviewed event",
			slog.Int64("doctor_id", review.DoctorID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "doctor reviewed",
		slog.Int64("doctor_id", review.DoctorID),
		slog.Int64("review_id", review.ID),
		slog.Int("rating", review.Rating),
		slog.Float64("average_rating", doctor.AverageRating),
	)

	return doctor, nil
}

// ListReviews returns all reviews for a doctor, oldest first.
func (s *DoctorService) ListReviews(ctx context.Context, doctorID int64) ([]domain.Review, error) {
	// Surface a 404 for unknown doctors rather than an empty list.
	if _, err := s.repo.GetByID(ctx, doctorID); err != nil {
		return nil, fmt.Errorf("get doctor for reviews: %w", err)
	}

	reviews, err := s.repo.ListReviews(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
