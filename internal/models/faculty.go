package models

// Faculty is a person being rated. Rows are only ever inserted: there is no
// update or delete path anywhere in the service.
type Faculty struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name" validate:"required"`
	Department *string `db:"department" json:"department,omitempty"`
}

// FacultySummary is one row of the faculty overview: identity fields plus the
// per-dimension averages and the number of ratings behind them. A faculty with
// no ratings carries zero averages, not nulls.
type FacultySummary struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	Department    *string `db:"department" json:"department,omitempty"`
	RatingCount   int64   `db:"rating_count" json:"rating_count"`
	AvgLeniency   float64 `db:"avg_leniency" json:"avg_leniency"`
	AvgCorrection float64 `db:"avg_correction" json:"avg_correction"`
	AvgTeaching   float64 `db:"avg_teaching" json:"avg_teaching"`
	AvgInternal   float64 `db:"avg_internal" json:"avg_internal"`
}
