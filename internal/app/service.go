package app

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/campusreview/betyg/internal/identity"
	"github.com/campusreview/betyg/internal/models"
	"github.com/campusreview/betyg/internal/store"
)

type Service struct {
	Config *Config
	Store  store.RatingStore
	Emails *identity.EmailPolicy
	Auth   *Auth
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config: config,
		Store:  store,
		Emails: identity.NewEmailPolicy(config.Login.EmailSuffix),
		Auth:   auth,
	}, nil
}

// round1 rounds half away from zero to one decimal place. Raw averages never
// leave the service.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Login validates a college email and returns the session identity for it.
func (s *Service) Login(email string) (identity.Session, error) {
	who, err := s.Emails.Login(strings.TrimSpace(email))
	if err != nil {
		return identity.Session{}, &ValidationError{Field: "email", Reason: err.Error()}
	}
	return who, nil
}

// AddFaculty inserts a faculty row. Name is required, department optional;
// an empty department is stored as NULL, same as the original data.
func (s *Service) AddFaculty(name, department string) (*models.Faculty, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	faculty := &models.Faculty{Name: name}
	if dept := strings.TrimSpace(department); dept != "" {
		faculty.Department = &dept
	}

	if err := s.Store.CreateFaculty(faculty); err != nil {
		return nil, fmt.Errorf("failed to add faculty: %w", err)
	}
	return faculty, nil
}

func (s *Service) Faculty(id int64) (*models.Faculty, error) {
	faculty, err := s.Store.GetFaculty(id)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return nil, ErrNotFound
	}
	return faculty, nil
}

// SubmitRating validates the payload, checks the faculty reference, stamps
// submitter identity and inserts one immutable row. Rejected input never
// reaches the store.
func (s *Service) SubmitRating(facultyID int64, input models.RatingInput, who identity.Session) (*models.Rating, error) {
	if err := input.Validate(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	faculty, err := s.Store.GetFaculty(facultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return nil, ErrNotFound
	}

	rating := &models.Rating{
		FacultyID:    facultyID,
		Leniency:     input.Leniency,
		Correction:   input.Correction,
		Teaching:     &input.Teaching,
		InternalFrom: &input.InternalFrom,
		InternalTo:   &input.InternalTo,
	}
	if comment := strings.TrimSpace(input.Comment); comment != "" {
		rating.Comment = &comment
	}
	if who.Email != "" {
		rating.UserEmail = &who.Email
	}
	if who.RegNo != "" {
		rating.RegNo = &who.RegNo
	}

	if err := s.Store.CreateRating(rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// FacultyOverview lists every faculty with rounded averages, name ascending.
func (s *Service) FacultyOverview() ([]models.FacultySummary, error) {
	summaries, err := s.Store.ListFacultyWithAverages()
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		summaries[i].AvgLeniency = round1(summaries[i].AvgLeniency)
		summaries[i].AvgCorrection = round1(summaries[i].AvgCorrection)
		summaries[i].AvgTeaching = round1(summaries[i].AvgTeaching)
		summaries[i].AvgInternal = round1(summaries[i].AvgInternal)
	}
	return summaries, nil
}

// FacultySummary reports one faculty's aggregates. Unknown ids and zero-rated
// faculty both come back as count 0 with zero averages.
func (s *Service) FacultySummary(facultyID int64) (*models.RatingAggregate, error) {
	agg, err := s.Store.GetFacultyAverages(facultyID)
	if err != nil {
		return nil, err
	}

	agg.AvgLeniency = round1(agg.AvgLeniency)
	agg.AvgCorrection = round1(agg.AvgCorrection)
	agg.AvgTeaching = round1(agg.AvgTeaching)
	agg.AvgInternal = round1(agg.AvgInternal)
	return agg, nil
}

// RecentRatings returns a faculty's ratings, newest first.
func (s *Service) RecentRatings(facultyID int64) ([]models.Rating, error) {
	return s.Store.ListRatings(facultyID)
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
