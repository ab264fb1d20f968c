package store

import (
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"
)

// Table DDL is written in Postgres dialect; the sqlite backend translates it.
// The column set is the one of the current form revision.
var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS faculty (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS rating (
		id BIGSERIAL PRIMARY KEY,
		faculty_id BIGINT NOT NULL REFERENCES faculty (id),
		leniency INTEGER NOT NULL,
		correction INTEGER NOT NULL,
		teaching INTEGER,
		internal_from INTEGER,
		internal_to INTEGER,
		comment TEXT,
		created_at BIGINT NOT NULL,
		user_email TEXT,
		reg_no TEXT
	)`,
}

// ColumnMigration is one additive schema step: a column some later form
// revision introduced on a table an earlier deployment may have created
// without it. Types are permissive and there is no default, so pre-existing
// rows read back NULL.
type ColumnMigration struct {
	Table  string
	Column string
	Type   string
}

// ratingColumnMigrations is applied in order on every start. Columns are only
// ever added, never dropped, renamed, or retyped: a rev-1 database keeps its
// internal_marks column untouched next to the range columns added here.
var ratingColumnMigrations = []ColumnMigration{
	{Table: "rating", Column: "teaching", Type: "INTEGER"},
	{Table: "rating", Column: "internal_from", Type: "INTEGER"},
	{Table: "rating", Column: "internal_to", Type: "INTEGER"},
	{Table: "rating", Column: "user_email", Type: "TEXT"},
	{Table: "rating", Column: "reg_no", Type: "TEXT"},
}

// EnsureSchema creates the tables if absent and patches missing columns,
// translating dialect if needed. It is safe to run on every process start: a
// redundant column add against an already-consistent schema is a no-op, not a
// startup failure.
func (s *BaseStore) EnsureSchema(translateSQL func(string) string, hasColumn func(table, column string) (bool, error)) error {
	for _, ddl := range tableDDL {
		stmt := ddl
		if translateSQL != nil {
			stmt = translateSQL(stmt)
		}
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure base tables: %w", err)
		}
	}

	for _, m := range ratingColumnMigrations {
		present, err := hasColumn(m.Table, m.Column)
		if err != nil {
			return fmt.Errorf("failed to inspect %s.%s: %w", m.Table, m.Column, err)
		}
		if present {
			continue
		}

		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Type)
		if _, err := s.DB.Exec(stmt); err != nil {
			// Another starter may have won the race between the check and
			// the add. If the column is there now, the schema is what we
			// wanted anyway.
			if again, checkErr := hasColumn(m.Table, m.Column); checkErr == nil && again {
				logger.Debug.Printf("schema: column %s.%s already present, skipping", m.Table, m.Column)
				continue
			}
			return fmt.Errorf("failed to add column %s.%s: %w", m.Table, m.Column, err)
		}
		logger.Info.Printf("schema: added column %s.%s", m.Table, m.Column)
	}

	return nil
}
