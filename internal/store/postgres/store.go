package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/campusreview/betyg/internal/models"
	"github.com/campusreview/betyg/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	return s, nil
}

func (s *PostgresStore) EnsureSchema() error {
	return s.BaseStore.EnsureSchema(nil, s.hasColumn)
}

func (s *PostgresStore) hasColumn(table, column string) (bool, error) {
	var count int
	err := s.DB.Get(&count, `
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_name = $1 AND column_name = $2
	`, table, column)
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	return count > 0, nil
}

func (s *PostgresStore) CreateFaculty(faculty *models.Faculty) error {
	err := s.DB.Get(&faculty.ID, `
		INSERT INTO faculty (name, department)
		VALUES ($1, $2)
		RETURNING id
	`, faculty.Name, faculty.Department)
	if err != nil {
		return fmt.Errorf("failed to create faculty: %w", err)
	}
	return nil
}
