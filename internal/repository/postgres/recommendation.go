package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/pkg/database"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

// RecommendationRepository implements recommendation link persistence using
// PostgreSQL. Product snapshots are stored as JSONB.
type RecommendationRepository struct {
	pool database.DBTX
}

// NewRecommendationRepository creates a PostgreSQL-backed recommendation
// repository.
func NewRecommendationRepository(pool database.DBTX) *RecommendationRepository {
	return &RecommendationRepository{pool: pool}
}

// Create inserts a new recommendation link and fills in the generated ID and
// creation timestamp.
func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	products, err := json.Marshal(rec.Products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}

	query := `
		INSERT INTO recommendations (token, doctor_id, patient_name, notes, products, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = r.pool.QueryRow(ctx, query,
		rec.Token,
		rec.DoctorID,
		rec.PatientName,
		rec.Notes,
		products,
		rec.ExpiresAt,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}

	return nil
}

// GetByToken retrieves a recommendation link by its share token.
func (r *RecommendationRepository) GetByToken(ctx context.Context, token string) (*domain.Recommendation, error) {
	query := `
		SELECT id, token, doctor_id, patient_name, notes, products, expires_at, created_at
		FROM recommendations
		WHERE token = $1`

	var (
		rec      domain.Recommendation
		products []byte
	)
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&rec.ID,
		&rec.Token,
		&rec.DoctorID,
		&rec.PatientName,
		&rec.Notes,
		&products,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("recommendation", token)
		}
		return nil, fmt.Errorf("get recommendation by token: %w", err)
	}

	if err := json.Unmarshal(products, &rec.Products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}

	return &rec, nil
}
