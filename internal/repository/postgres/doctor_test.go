package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/DermCareGo/internal/domain"
	"github.com/utafrali/DermCareGo/pkg/database"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

func newDoctorTestFixture(t *testing.T) (*DoctorRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewDoctorRepository(mock)
	return repo, mock
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestDoctorRepository_Create_Success(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(int64(1), now, now)
	mock.ExpectQuery("INSERT INTO doctors").
		WithArgs("Dr. Ayse Yilmaz", "Dermatology", 0.0).
		WillReturnRows(rows)

	doctor := &domain.Doctor{Name: "Dr. Ayse Yilmaz", Specialization: "Dermatology"}
	err := repo.Create(context.Background(), doctor)

	require.NoError(t, err)
	assert.Equal(t, int64(1), doctor.ID)
	assert.Equal(t, now, doctor.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_Create_Error(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO doctors").
		WithArgs("Dr. Ayse Yilmaz", "Dermatology", 0.0).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &domain.Doctor{
		Name:           "Dr. Ayse Yilmaz",
		Specialization: "Dermatology",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert doctor")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestDoctorRepository_GetByID_Success(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{"id", "name", "specialization", "average_rating", "created_at", "updated_at"}).
		AddRow(int64(7), "Dr. Ayse Yilmaz", "Dermatology", 4.5, now, now)
	mock.ExpectQuery("SELECT id, name, specialization, average_rating, created_at, updated_at FROM doctors").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	doctor, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), doctor.ID)
	assert.Equal(t, "Dermatology", doctor.Specialization)
	assert.Equal(t, 4.5, doctor.AverageRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, specialization, average_rating, created_at, updated_at FROM doctors").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	doctor, err := repo.GetByID(context.Background(), 99)

	assert.Nil(t, doctor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestDoctorRepository_List_Success(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	doctorRows := pgxmock.NewRows([]string{"id", "name", "specialization", "average_rating", "created_at", "updated_at"}).
		AddRow(int64(1), "Dr. Ayse Yilmaz", "Dermatology", 4.5, now, now).
		AddRow(int64(2), "Dr. Kaan Demir", "Pediatric Dermatology", 4.0, now, now)
	mock.ExpectQuery("SELECT id, name, specialization, average_rating, created_at, updated_at FROM doctors WHERE average_rating >=").
		WithArgs(4.0, 10, 0).
		WillReturnRows(doctorRows)

	reviewRows := pgxmock.NewRows([]string{"doctor_id", "text"}).
		AddRow(int64(1), "Great doctor").
		AddRow(int64(1), "Very helpful").
		AddRow(int64(2), "Good with kids")
	mock.ExpectQuery("SELECT doctor_id, text FROM reviews WHERE doctor_id = ANY").
		WithArgs([]int64{1, 2}).
		WillReturnRows(reviewRows)

	doctors, err := repo.List(context.Background(), 4.0, 0, 10)

	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, []string{"Great doctor", "Very helpful"}, doctors[0].Reviews)
	assert.Equal(t, []string{"Good with kids"}, doctors[1].Reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_List_DoctorWithoutReviews(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	doctorRows := pgxmock.NewRows([]string{"id", "name", "specialization", "average_rating", "created_at", "updated_at"}).
		AddRow(int64(3), "Dr. Elif Kaya", "Cosmetic Dermatology", 0.0, now, now)
	mock.ExpectQuery("SELECT id, name, specialization, average_rating, created_at, updated_at FROM doctors WHERE average_rating >=").
		WithArgs(0.0, 10, 0).
		WillReturnRows(doctorRows)

	reviewRows := pgxmock.NewRows([]string{"doctor_id", "text"})
	mock.ExpectQuery("SELECT doctor_id, text FROM reviews WHERE doctor_id = ANY").
		WithArgs([]int64{3}).
		WillReturnRows(reviewRows)

	doctors, err := repo.List(context.Background(), 0.0, 0, 10)

	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.NotNil(t, doctors[0].Reviews, "reviews should be an empty slice, not nil")
	assert.Empty(t, doctors[0].Reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_List_Empty(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	doctorRows := pgxmock.NewRows([]string{"id", "name", "specialization", "average_rating", "created_at", "updated_at"})
	mock.ExpectQuery("SELECT id, name, specialization, average_rating, created_at, updated_at FROM doctors WHERE average_rating >=").
		WithArgs(4.9, 10, 0).
		WillReturnRows(doctorRows)

	doctors, err := repo.List(context.Background(), 4.9, 0, 10)

	require.NoError(t, err)
	assert.NotNil(t, doctors)
	assert.Empty(t, doctors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_List_QueryError(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, specialization, average_rating, created_at, updated_at FROM doctors WHERE average_rating >=").
		WithArgs(0.0, 10, 0).
		WillReturnError(errors.New("query failed"))

	doctors, err := repo.List(context.Background(), 0.0, 0, 10)

	require.Error(t, err)
	assert.Nil(t, doctors)
	assert.Contains(t, err.Error(), "list doctors")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// AddReview
// ---------------------------------------------------------------------------

func TestDoctorRepository_AddReview_Success(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(int64(7), "user2", 5, "Very thorough and kind.").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), now))
	mock.ExpectQuery("UPDATE doctors SET average_rating =").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "specialization", "average_rating", "created_at", "updated_at"}).
			AddRow(int64(7), "Dr. Ayse Yilmaz", "Dermatology", 4.333333333, now, now))
	mock.ExpectCommit()

	review := &domain.Review{DoctorID: 7, Author: "user2", Rating: 5, Text: "Very thorough and kind."}
	doctor, err := repo.AddReview(context.Background(), review)

	require.NoError(t, err)
	assert.Equal(t, int64(12), review.ID)
	// The recomputed average is rounded to two decimals.
	assert.Equal(t, 4.33, doctor.AverageRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_AddReview_DoctorNotFound(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	review := &domain.Review{DoctorID: 99, Rating: 4, Text: "fine"}
	doctor, err := repo.AddReview(context.Background(), review)

	assert.Nil(t, doctor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_AddReview_InsertError(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(int64(7), "user2", 5, "text").
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	review := &domain.Review{DoctorID: 7, Author: "user2", Rating: 5, Text: "text"}
	doctor, err := repo.AddReview(context.Background(), review)

	assert.Nil(t, doctor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert review")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListReviews
// ---------------------------------------------------------------------------

func TestDoctorRepository_ListReviews_Success(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{"id", "doctor_id", "author", "rating", "text", "created_at"}).
		AddRow(int64(1), int64(7), "user2", 5, "Excellent", now).
		AddRow(int64(2), int64(7), "user1", 3, "Okay", now)
	mock.ExpectQuery("SELECT id, doctor_id, author, rating, text, created_at FROM reviews").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	reviews, err := repo.ListReviews(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Excellent", reviews[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_ListReviews_Empty(t *testing.T) {
	repo, mock := newDoctorTestFixture(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "doctor_id", "author", "rating", "text", "created_at"})
	mock.ExpectQuery("SELECT id, doctor_id, author, rating, text, created_at FROM reviews").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	reviews, err := repo.ListReviews(context.Background(), 7)

	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}
