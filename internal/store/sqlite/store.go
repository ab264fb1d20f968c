// internal/store/sqlite/store.go
package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/campusreview/betyg/internal/models"
	"github.com/campusreview/betyg/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	return s, nil
}

// translateToSQLite converts Postgres DDL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"BIGSERIAL PRIMARY KEY": "INTEGER PRIMARY KEY AUTOINCREMENT",
		"BIGINT":                "INTEGER",
		"now()":                 "CURRENT_TIMESTAMP",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

func (s *SQLiteStore) EnsureSchema() error {
	return s.BaseStore.EnsureSchema(translateToSQLite, s.hasColumn)
}

func (s *SQLiteStore) hasColumn(table, column string) (bool, error) {
	var cols []struct {
		CID       int     `db:"cid"`
		Name      string  `db:"name"`
		Type      string  `db:"type"`
		NotNull   int     `db:"notnull"`
		DfltValue *string `db:"dflt_value"`
		PK        int     `db:"pk"`
	}

	if err := s.DB.Select(&cols, fmt.Sprintf("PRAGMA table_info(%s)", table)); err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}

	for _, col := range cols {
		if col.Name == column {
			return true, nil
		}
	}
	return false, nil
}

func (s *SQLiteStore) CreateFaculty(faculty *models.Faculty) error {
	res, err := s.DB.NamedExec(`
		INSERT INTO faculty (name, department)
		VALUES (:name, :department)
	`, faculty)
	if err != nil {
		return fmt.Errorf("failed to create faculty: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read faculty id: %w", err)
	}
	faculty.ID = id

	return nil
}
