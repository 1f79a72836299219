package domain

import (
	"time"
)

// Doctor represents a registered dermatologist. AverageRating is derived
// from reviews and never set directly by a client.
type Doctor struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	AverageRating  float64   `json:"average_rating"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Review represents a patient review of a doctor.
type Review struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DoctorWithReviews is the listing projection: a doctor together with the
// review texts written about them.
type DoctorWithReviews struct {
	Doctor
	Reviews []string `json:"reviews"`
}
