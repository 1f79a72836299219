package repository

import (
	"context"

	"github.com/utafrali/DermCareGo/internal/domain"
)

// DoctorRepository defines persistence operations for doctors and their
// reviews.
type DoctorRepository interface {
	// Create inserts a new doctor and fills in its generated ID.
	Create(ctx context.Context, doctor *domain.Doctor) error

	// GetByID retrieves a doctor by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)

	// List returns doctors with average rating at or above minRating,
	// ordered by ID, together with their review texts.
	List(ctx context.Context, minRating float64, skip, limit int) ([]domain.DoctorWithReviews, error)

	// AddReview inserts a review and recomputes the doctor's average
	// rating in the same transaction. It returns the updated doctor.
	AddReview(ctx context.Context, review *domain.Review) (*domain.Doctor, error)

	// ListReviews returns all reviews for a doctor, oldest first.
	ListReviews(ctx context.Context, doctorID int64) ([]domain.Review, error)
}

// RecommendationRepository defines persistence operations for
// recommendation links. Expiry is enforced at read time; expired rows are
// never deleted here.
type RecommendationRepository interface {
	// Create inserts a new recommendation link and fills in its
	// generated ID.
	Create(ctx context.Context, rec *domain.Recommendation) error

	// GetByToken retrieves a recommendation by its share token.
	GetByToken(ctx context.Context, token string) (*domain.Recommendation, error)
}
