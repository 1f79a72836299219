package domain

import (
	"time"
)

// Product is a catalog product snapshot captured when a recommendation link
// is created, so later catalog changes never alter historical
// recommendations.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Recommendation is a shareable, expiring link binding a doctor, a patient,
// and a snapshot of recommended products. Expiry is soft: past-expiry rows
// persist but are never resolvable.
type Recommendation struct {
	ID          int64     `json:"id"`
	Token       string    `json:"uuid"`
	DoctorID    int64     `json:"doctor_id"`
	PatientName string    `json:"patient_name"`
	Notes       string    `json:"notes"`
	Products    []Product `json:"products"`
	ExpiresAt   time.Time `json:"expiry"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether the link is past its expiry at the given instant.
func (r *Recommendation) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
