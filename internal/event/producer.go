package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/utafrali/DermCareGo/internal/domain"
	pkgkafka "github.com/utafrali/DermCareGo/pkg/kafka"
)

// Kafka topic constants for dermcare domain events.
const (
	TopicDoctorCreated         = "derm.doctor.created"
	TopicDoctorReviewed        = "derm.doctor.reviewed"
	TopicRecommendationCreated = "derm.recommendation.created"
)

// Aggregate type constants.
const (
	AggregateTypeDoctor         = "doctor"
	AggregateTypeRecommendation = "recommendation"
)

// Source identifier for events originating from this service.
const SourceDermCare = "dermcare"

// DoctorCreatedData is the payload for a doctor.created event.
type DoctorCreatedData struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// DoctorReviewedData is the payload for a doctor.reviewed event.
type DoctorReviewedData struct {
	DoctorID      int64   `json:"doctor_id"`
	ReviewID      int64   `json:"review_id"`
	Author        string  `json:"author"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
}

// RecommendationCreatedData is the payload for a recommendation.created event.
type RecommendationCreatedData struct {
	Token       string    `json:"token"`
	DoctorID    int64     `json:"doctor_id"`
	PatientName string    `json:"patient_name"`
	ProductIDs  []int64   `json:"product_ids"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Producer publishes dermcare domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishDoctorCreated publishes a doctor.created event.
func (p *Producer) PublishDoctorCreated(ctx context.Context, doctor *domain.Doctor) error {
	data := DoctorCreatedData{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
	}

	aggregateID := strconv.FormatInt(doctor.ID, 10)
	event, err := pkgkafka.NewEvent(TopicDoctorCreated, aggregateID, AggregateTypeDoctor, SourceDermCare, data)
	if err != nil {
		return fmt.Errorf("create doctor.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicDoctorCreated, event); err != nil {
		return fmt.Errorf("publish doctor.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published doctor.created event",
		slog.Int64("doctor_id", doctor.ID),
	)

	return nil
}

// PublishDoctorReviewed publishes a doctor.reviewed event.
func (p *Producer) PublishDoctorReviewed(ctx context.Context, review *domain.Review, averageRating float64) error {
	data := DoctorReviewedData{
		DoctorID:      review.DoctorID,
		ReviewID:      review.ID,
		Author:        review.Author,
		Rating:        review.Rating,
		AverageRating: averageRating,
	}

	aggregateID := strconv.FormatInt(review.DoctorID, 10)
	event, err := pkgkafka.NewEvent(TopicDoctorReviewed, aggregateID, AggregateTypeDoctor, SourceDermCare, data)
	if err != nil {
		return fmt.Errorf("create doctor.reviewed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicDoctorReviewed, event); err != nil {
		return fmt.Errorf("publish doctor.reviewed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published doctor.reviewed event",
		slog.Int64("doctor_id", review.DoctorID),
		slog.Int64("review_id", review.ID),
	)

	return nil
}

// PublishRecommendationCreated publishes a recommendation.created event.
func (p *Producer) PublishRecommendationCreated(ctx context.Context, rec *domain.Recommendation) error {
	productIDs := make([]int64, len(rec.Products))
	for i, product := range rec.Products {
		productIDs[i] = product.ID
	}

	data := RecommendationCreatedData{
		Token:       rec.Token,
		DoctorID:    rec.DoctorID,
		PatientName: rec.PatientName,
		ProductIDs:  productIDs,
		ExpiresAt:   rec.ExpiresAt,
	}

	event, err := pkgkafka.NewEvent(TopicRecommendationCreated, rec.Token, AggregateTypeRecommendation, SourceDermCare, data)
	if err != nil {
		return fmt.Errorf("create recommendation.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRecommendationCreated, event); err != nil {
		return fmt.Errorf("publish recommendation.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published recommendation.created event",
		slog.String("token", rec.Token),
	)

	return nil
}
