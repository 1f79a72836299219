package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/pkg/database"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

// DoctorRepository implements doctor persistence using PostgreSQL.
type DoctorRepository struct {
	pool database.DBTX
}

// NewDoctorRepository creates a PostgreSQL-backed doctor repository.
func NewDoctorRepository(pool database.DBTX) *DoctorRepository {
	return &DoctorRepository{pool: pool}
}

// Create inserts a new doctor and fills in the generated ID and timestamps.
func (r *DoctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	query := `
		INSERT INTO doctors (name, specialization, average_rating)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.AverageRating,
	).Scan(&doctor.ID, &doctor.CreatedAt, &doctor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}

	return nil
}

// GetByID retrieves a doctor by its identifier.
func (r *DoctorRepository) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	query := `
		SELECT id, name, specialization, average_rating, created_at, updated_at
		FROM doctors
		WHERE id = $1`

	var d domain.Doctor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Specialization,
		&d.AverageRating,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get doctor by id: %w", err)
	}

	return &d, nil
}

// List returns doctors whose average rating is at or above minRating,
// ordered by ID, together with their review texts.
func (r *DoctorRepository) List(ctx context.Context, minRating float64, skip, limit int) ([]domain.DoctorWithReviews, error) {
	query := `
		SELECT id, name, specialization, average_rating, created_at, updated_at
		FROM doctors
		WHERE average_rating >= $1
		ORDER BY id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, minRating, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var (
		doctors []domain.DoctorWithReviews
		ids     []int64
	)

	for rows.Next() {
		var d domain.DoctorWithReviews
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Specialization,
			&d.AverageRating,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan doctor row: %w", err)
		}
		d.Reviews = []string{}
		doctors = append(doctors, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctor rows: %w", err)
	}

	if doctors == nil {
		return []domain.DoctorWithReviews{}, nil
	}

	reviewQuery := `
		SELECT doctor_id, text
		FROM reviews
		WHERE doctor_id = ANY($1)
		ORDER BY id`

	reviewRows, err := r.pool.Query(ctx, reviewQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list doctor reviews: %w", err)
	}
	defer reviewRows.Close()

	texts := make(map[int64][]string, len(ids))
	for reviewRows.Next() {
		var (
			doctorID int64
			text     string
		)
		if err := reviewRows.Scan(&doctorID, &text); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		texts[doctorID] = append(texts[doctorID], text)
	}
	if err := reviewRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	for i := range doctors {
		if t, ok := texts[doctors[i].ID]; ok {
			doctors[i].Reviews = t
		}
	}

	return doctors, nil
}

// AddReview inserts a review and recomputes the doctor's average rating in
// the same transaction, so concurrent reviews never leave a stale average.
func (r *DoctorRepository) AddReview(ctx context.Context, review *domain.Review) (*domain.Doctor, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add review tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	err = tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM doctors WHERE id = $1)", review.DoctorID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check doctor exists: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("doctor", strconv.FormatInt(review.DoctorID, 10))
	}

	insertQuery := `
		INSERT INTO reviews (doctor_id, author, rating, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err = tx.QueryRow(ctx, insertQuery,
		review.DoctorID,
		review.Author,
		review.Rating,
		review.Text,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	updateQuery := `
		UPDATE doctors
		SET average_rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE doctor_id = $1),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, specialization, average_rating, created_at, updated_at`

	var d domain.Doctor
	err = tx.QueryRow(ctx, updateQuery, review.DoctorID).Scan(
		&d.ID,
		&d.Name,
		&d.Specialization,
		&d.AverageRating,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update doctor rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit add review tx: %w", err)
	}

	d.AverageRating = math.Round(d.AverageRating*100) / 100
	return &d, nil
}

// ListReviews returns all reviews for a doctor, oldest first.
func (r *DoctorRepository) ListReviews(ctx context.Context, doctorID int64) ([]domain.Review, error) {
	query := `
		SELECT id, doctor_id, author, rating, text, created_at
		FROM reviews
		WHERE doctor_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.DoctorID,
			&rv.Author,
			&rv.Rating,
			&rv.Text,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
