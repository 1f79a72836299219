// Package main implements a standalone seed script that populates the
// DermCareGo database with demo dermatologists and patient reviews, with
// average ratings recomputed from the seeded reviews.
//
// Run: go run scripts/seed_demo_data.go
//   (from the repo root, or: cd scripts && go run seed_demo_data.go)
package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	totalDoctors     = 50
	maxReviewsPerDoc = 12
	randomSeed       = 20260301
	connectTimeout   = 10 * time.Second
	perDoctorTimeout = 5 * time.Second
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var firstNames = []string{
	"Aylin", "Mert", "Elif", "Kerem", "Zeynep", "Deniz", "Selin", "Emre",
	"Nil", "Baran", "Ceren", "Onur", "Pelin", "Arda", "Melis", "Kaan",
}

var lastNames = []string{
	"Yilmaz", "Demir", "Kaya", "Celik", "Aydin", "Arslan", "Dogan", "Koc",
	"Kurt", "Ozturk", "Aslan", "Cetin", "Sahin", "Polat", "Erdem", "Gunes",
}

var specializations = []string{
	"cosmetic dermatology",
	"pediatric dermatology",
	"dermatopathology",
	"mohs surgery",
	"immunodermatology",
	"trichology",
	"general dermatology",
}

var reviewTexts = []string{
	"Very thorough examination and clear explanation of the treatment plan.",
	"Short wait, friendly staff, and my skin condition improved within weeks.",
	"Felt rushed during the appointment and the follow-up was hard to book.",
	"Excellent bedside manner, took time to answer every question I had.",
	"The prescribed routine worked well for my acne, highly recommended.",
	"Diagnosis was spot on where two other clinics had missed it.",
	"Average experience, the treatment helped but communication was sparse.",
	"Great with children, my daughter was completely at ease.",
	"Clinic was clean and modern, and the doctor explained every step.",
	"Results took longer than promised but the end outcome was good.",
}

func main() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "dermcare"),
		getEnv("POSTGRES_PASSWORD", "dermcare_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB_NAME", "dermcare_db"),
		getEnv("POSTGRES_SSL_MODE", "disable"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	rng := rand.New(rand.NewSource(randomSeed))

	seeded := 0
	reviews := 0
	for i := 0; i < totalDoctors; i++ {
		n, err := seedDoctor(pool, rng)
		if err != nil {
			log.Fatalf("seed doctor %d: %v", i+1, err)
		}
		seeded++
		reviews += n
	}

	log.Printf("done: %d doctors, %d reviews", seeded, reviews)
}

// seedDoctor inserts one doctor with a random batch of reviews and stores the
// recomputed two-decimal average rating, all in a single transaction.
func seedDoctor(pool *pgxpool.Pool, rng *rand.Rand) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), perDoctorTimeout)
	defer cancel()

	name := fmt.Sprintf("Dr. %s %s",
		firstNames[rng.Intn(len(firstNames))],
		lastNames[rng.Intn(len(lastNames))],
	)
	specialization := specializations[rng.Intn(len(specializations))]

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var doctorID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO doctors (name, specialization) VALUES ($1, $2) RETURNING id`,
		name, specialization,
	).Scan(&doctorID)
	if err != nil {
		return 0, fmt.Errorf("insert doctor: %w", err)
	}

	count := rng.Intn(maxReviewsPerDoc + 1)
	sum := 0
	for j := 0; j < count; j++ {
		rating := 1 + rng.Intn(5)
		sum += rating
		_, err = tx.Exec(ctx,
			`INSERT INTO reviews (doctor_id, author, rating, text) VALUES ($1, $2, $3, $4)`,
			doctorID,
			fmt.Sprintf("patient%d", 1+rng.Intn(500)),
			rating,
			reviewTexts[rng.Intn(len(reviewTexts))],
		)
		if err != nil {
			return 0, fmt.Errorf("insert review: %w", err)
		}
	}

	if count > 0 {
		avg := math.Round(float64(sum)/float64(count)*100) / 100
		_, err = tx.Exec(ctx,
			`UPDATE doctors SET average_rating = $1, updated_at = NOW() WHERE id = $2`,
			avg, doctorID,
		)
		if err != nil {
			return 0, fmt.Errorf("update average: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}
