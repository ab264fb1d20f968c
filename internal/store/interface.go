package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusreview/betyg/internal/models"
)

// RatingStore is the persistence boundary of the service. Implementations do
// no input validation: callers are expected to reject out-of-range submissions
// before anything reaches the store.
type RatingStore interface {
	Close() error
	EnsureSchema() error

	CreateFaculty(f *models.Faculty) error
	GetFaculty(id int64) (*models.Faculty, error)
	ListFacultyWithAverages() ([]models.FacultySummary, error)
	GetFacultyAverages(facultyID int64) (*models.RatingAggregate, error)

	CreateRating(r *models.Rating) error
	ListRatings(facultyID int64) ([]models.Rating, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *BaseStore) GetFaculty(id int64) (*models.Faculty, error) {
	var faculty models.Faculty
	query := s.Converter(`
		SELECT id, name, department
		FROM faculty
		WHERE id = ?
	`)

	err := s.DB.Get(&faculty, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty: %w", err)
	}
	return &faculty, nil
}

// ListFacultyWithAverages reports every faculty row, zero-rated ones
// included. The internal-marks average treats each rating as one midpoint
// sample of its range, not two endpoint samples.
func (s *BaseStore) ListFacultyWithAverages() ([]models.FacultySummary, error) {
	summaries := []models.FacultySummary{}
	err := s.DB.Select(&summaries, `
		SELECT
			f.id,
			f.name,
			f.department,
			COUNT(r.id) AS rating_count,
			COALESCE(AVG(r.leniency), 0) AS avg_leniency,
			COALESCE(AVG(r.correction), 0) AS avg_correction,
			COALESCE(AVG(r.teaching), 0) AS avg_teaching,
			COALESCE(AVG((r.internal_from + r.internal_to) / 2.0), 0) AS avg_internal
		FROM faculty f
		LEFT JOIN rating r ON r.faculty_id = f.id
		GROUP BY f.id, f.name, f.department
		ORDER BY f.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list faculty with averages: %w", err)
	}
	return summaries, nil
}

// GetFacultyAverages returns the aggregate row for one faculty. An unknown id
// and a faculty without ratings look the same here: count 0, all averages 0.
func (s *BaseStore) GetFacultyAverages(facultyID int64) (*models.RatingAggregate, error) {
	var agg models.RatingAggregate
	query := s.Converter(`
		SELECT
			COUNT(id) AS rating_count,
			COALESCE(AVG(leniency), 0) AS avg_leniency,
			COALESCE(AVG(correction), 0) AS avg_correction,
			COALESCE(AVG(teaching), 0) AS avg_teaching,
			COALESCE(AVG((internal_from + internal_to) / 2.0), 0) AS avg_internal
		FROM rating
		WHERE faculty_id = ?
	`)

	err := s.DB.Get(&agg, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty averages: %w", err)
	}
	return &agg, nil
}

func (s *BaseStore) CreateRating(rating *models.Rating) error {
	if rating.CreatedAt == 0 {
		rating.CreatedAt = time.Now().Unix()
	}
	_, err := s.DB.NamedExec(`
		INSERT INTO rating (faculty_id, leniency, correction, teaching,
		                    internal_from, internal_to, comment, created_at,
		                    user_email, reg_no)
		VALUES (:faculty_id, :leniency, :correction, :teaching,
		        :internal_from, :internal_to, :comment, :created_at,
		        :user_email, :reg_no)
	`, rating)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

func (s *BaseStore) ListRatings(facultyID int64) ([]models.Rating, error) {
	ratings := []models.Rating{}
	query := s.Converter(`
		SELECT id, faculty_id, leniency, correction, teaching,
		       internal_from, internal_to, comment, created_at,
		       user_email, reg_no
		FROM rating
		WHERE faculty_id = ?
		ORDER BY created_at DESC, id DESC
	`)

	err := s.DB.Select(&ratings, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
