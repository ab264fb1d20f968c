package models

import (
	"github.com/go-playground/validator/v10"
)

// Rating is one student's assessment of one faculty member, immutable once
// written. Teaching and the internal-marks range arrived with the second form
// revision, so rows written by rev-1 deployments carry NULLs there; the
// submitter columns were patched in even later and can be NULL as well.
type Rating struct {
	ID           int64   `db:"id" json:"id"`
	FacultyID    int64   `db:"faculty_id" json:"faculty_id"`
	Leniency     int     `db:"leniency" json:"leniency"`
	Correction   int     `db:"correction" json:"correction"`
	Teaching     *int    `db:"teaching" json:"teaching,omitempty"`
	InternalFrom *int    `db:"internal_from" json:"internal_from,omitempty"`
	InternalTo   *int    `db:"internal_to" json:"internal_to,omitempty"`
	Comment      *string `db:"comment" json:"comment,omitempty"`
	CreatedAt    int64   `db:"created_at" json:"created_at"`
	UserEmail    *string `db:"user_email" json:"user_email,omitempty"`
	RegNo        *string `db:"reg_no" json:"reg_no,omitempty"`
}

// RatingInput is the current-revision submission payload. All dimensions are
// required here even though older rows may lack some of them.
type RatingInput struct {
	Leniency     int    `json:"leniency" validate:"required,min=1,max=10"`
	Correction   int    `json:"correction" validate:"required,min=1,max=10"`
	Teaching     int    `json:"teaching" validate:"required,min=1,max=10"`
	InternalFrom int    `json:"internal_from" validate:"required,min=50,max=100"`
	InternalTo   int    `json:"internal_to" validate:"required,min=50,max=100,gtefield=InternalFrom"`
	Comment      string `json:"comment"`
}

// RatingAggregate is the single-faculty counterpart of FacultySummary's
// aggregate columns.
type RatingAggregate struct {
	RatingCount   int64   `db:"rating_count" json:"rating_count"`
	AvgLeniency   float64 `db:"avg_leniency" json:"avg_leniency"`
	AvgCorrection float64 `db:"avg_correction" json:"avg_correction"`
	AvgTeaching   float64 `db:"avg_teaching" json:"avg_teaching"`
	AvgInternal   float64 `db:"avg_internal" json:"avg_internal"`
}

func (i *RatingInput) Validate() error {
	validate := validator.New()
	return validate.Struct(i)
}
