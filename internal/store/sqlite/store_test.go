// internal/store/sqlite/store_test.go
package sqlite

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusreview/betyg/internal/models"
)

// setupTestDB creates an in-memory SQLite database and ensures the schema
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	// every pooled connection would otherwise get its own :memory: database
	s.DB.SetMaxOpenConns(1)

	require.NoError(t, s.EnsureSchema(), "Failed to ensure schema")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func mustCreateFaculty(t *testing.T, s *SQLiteStore, name, department string) *models.Faculty {
	t.Helper()
	faculty := &models.Faculty{Name: name}
	if department != "" {
		faculty.Department = &department
	}
	require.NoError(t, s.CreateFaculty(faculty), "Failed to create faculty")
	require.NotZero(t, faculty.ID)
	return faculty
}

func mustCreateRating(t *testing.T, s *SQLiteStore, facultyID int64, leniency, correction, teaching, from, to int, createdAt int64) {
	t.Helper()
	err := s.CreateRating(&models.Rating{
		FacultyID:    facultyID,
		Leniency:     leniency,
		Correction:   correction,
		Teaching:     intPtr(teaching),
		InternalFrom: intPtr(from),
		InternalTo:   intPtr(to),
		CreatedAt:    createdAt,
	})
	require.NoError(t, err, "Failed to create rating")
}

func TestCreateAndGetFaculty(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	faculty := mustCreateFaculty(t, s, "Dr. A", "CSE")

	t.Run("get existing faculty", func(t *testing.T) {
		got, err := s.GetFaculty(faculty.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Dr. A", got.Name)
		require.NotNil(t, got.Department)
		assert.Equal(t, "CSE", *got.Department)
	})

	t.Run("get non-existent faculty", func(t *testing.T) {
		got, err := s.GetFaculty(9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("department may be absent", func(t *testing.T) {
		noDept := mustCreateFaculty(t, s, "Dr. B", "")
		got, err := s.GetFaculty(noDept.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Department)
	})
}

func TestFacultyOverviewWithoutRatings(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateFaculty(t, s, "Dr. A", "CSE")

	summaries, err := s.ListFacultyWithAverages()
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	got := summaries[0]
	assert.Equal(t, "Dr. A", got.Name)
	assert.Equal(t, int64(0), got.RatingCount)
	assert.Equal(t, 0.0, got.AvgLeniency)
	assert.Equal(t, 0.0, got.AvgCorrection)
	assert.Equal(t, 0.0, got.AvgTeaching)
	assert.Equal(t, 0.0, got.AvgInternal)
}

func TestFacultyOverviewAverages(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	rated := mustCreateFaculty(t, s, "Dr. B", "ECE")
	unrated := mustCreateFaculty(t, s, "Dr. A", "CSE")

	mustCreateRating(t, s, rated.ID, 8, 6, 9, 70, 80, 100)
	mustCreateRating(t, s, rated.ID, 10, 8, 7, 60, 70, 200)

	summaries, err := s.ListFacultyWithAverages()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	t.Run("ordered by name ascending", func(t *testing.T) {
		assert.Equal(t, unrated.ID, summaries[0].ID)
		assert.Equal(t, rated.ID, summaries[1].ID)
	})

	t.Run("rated faculty aggregates", func(t *testing.T) {
		got := summaries[1]
		assert.Equal(t, int64(2), got.RatingCount)
		assert.InDelta(t, 9.0, got.AvgLeniency, 1e-9)
		assert.InDelta(t, 7.0, got.AvgCorrection, 1e-9)
		assert.InDelta(t, 8.0, got.AvgTeaching, 1e-9)
		// midpoints: (70+80)/2 = 75 and (60+70)/2 = 65
		assert.InDelta(t, 70.0, got.AvgInternal, 1e-9)
	})

	t.Run("unrated faculty stays zeroed", func(t *testing.T) {
		got := summaries[0]
		assert.Equal(t, int64(0), got.RatingCount)
		assert.Equal(t, 0.0, got.AvgLeniency)
		assert.Equal(t, 0.0, got.AvgInternal)
	})
}

func TestGetFacultyAverages(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	faculty := mustCreateFaculty(t, s, "Dr. C", "MECH")
	mustCreateRating(t, s, faculty.ID, 8, 6, 9, 70, 80, 100)
	mustCreateRating(t, s, faculty.ID, 10, 8, 7, 60, 70, 200)

	t.Run("rated faculty", func(t *testing.T) {
		agg, err := s.GetFacultyAverages(faculty.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), agg.RatingCount)
		assert.InDelta(t, 9.0, agg.AvgLeniency, 1e-9)
		assert.InDelta(t, 70.0, agg.AvgInternal, 1e-9)
	})

	t.Run("unknown faculty reads as zeroes", func(t *testing.T) {
		agg, err := s.GetFacultyAverages(9999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), agg.RatingCount)
		assert.Equal(t, 0.0, agg.AvgLeniency)
		assert.Equal(t, 0.0, agg.AvgInternal)
	})
}

func TestListRatingsNewestFirst(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	faculty := mustCreateFaculty(t, s, "Dr. D", "CSE")

	// insertion order deliberately differs from creation time order
	mustCreateRating(t, s, faculty.ID, 5, 5, 5, 60, 70, 300)
	mustCreateRating(t, s, faculty.ID, 6, 6, 6, 60, 70, 100)
	mustCreateRating(t, s, faculty.ID, 7, 7, 7, 60, 70, 200)

	ratings, err := s.ListRatings(faculty.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 3)

	assert.Equal(t, int64(300), ratings[0].CreatedAt)
	assert.Equal(t, int64(200), ratings[1].CreatedAt)
	assert.Equal(t, int64(100), ratings[2].CreatedAt)

	t.Run("no ratings yields empty list", func(t *testing.T) {
		other := mustCreateFaculty(t, s, "Dr. E", "")
		ratings, err := s.ListRatings(other.ID)
		require.NoError(t, err)
		assert.Empty(t, ratings)
	})
}

func TestCreateRatingAssignsTimestamp(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	faculty := mustCreateFaculty(t, s, "Dr. F", "CSE")

	before := time.Now().Unix()
	rating := &models.Rating{
		FacultyID:    faculty.ID,
		Leniency:     8,
		Correction:   6,
		Teaching:     intPtr(9),
		InternalFrom: intPtr(70),
		InternalTo:   intPtr(80),
		UserEmail:    strPtr("123456789.simats@saveetha.com"),
		RegNo:        strPtr("123456789"),
	}
	require.NoError(t, s.CreateRating(rating))

	ratings, err := s.ListRatings(faculty.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.GreaterOrEqual(t, ratings[0].CreatedAt, before)
	require.NotNil(t, ratings[0].UserEmail)
	assert.Equal(t, "123456789.simats@saveetha.com", *ratings[0].UserEmail)
	require.NotNil(t, ratings[0].RegNo)
	assert.Equal(t, "123456789", *ratings[0].RegNo)
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	// setupTestDB already ran it once
	require.NoError(t, s.EnsureSchema())
	require.NoError(t, s.EnsureSchema())

	var count int
	err := s.DB.Get(&count, `SELECT COUNT(*) FROM pragma_table_info('rating') WHERE name = 'teaching'`)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "repeated schema runs must not duplicate columns")
}

func TestEnsureSchemaPatchesLegacyTable(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	s.DB.SetMaxOpenConns(1)
	defer s.Close()

	// first-revision layout: single internal_marks value, no teaching, no
	// submitter columns
	legacySchema := `
	CREATE TABLE faculty (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		department TEXT
	);

	CREATE TABLE rating (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		faculty_id INTEGER NOT NULL REFERENCES faculty (id),
		leniency INTEGER NOT NULL,
		internal_marks INTEGER,
		correction INTEGER NOT NULL,
		comment TEXT,
		created_at INTEGER NOT NULL
	);`
	_, err = s.DB.Exec(legacySchema)
	require.NoError(t, err)

	faculty := &models.Faculty{Name: "Dr. Legacy"}
	require.NoError(t, s.CreateFaculty(faculty))
	_, err = s.DB.Exec(`
		INSERT INTO rating (faculty_id, leniency, internal_marks, correction, created_at)
		VALUES (?, 3, 80, 4, 100)
	`, faculty.ID)
	require.NoError(t, err)

	require.NoError(t, s.EnsureSchema(), "patching an old table must succeed")

	t.Run("new columns are in place", func(t *testing.T) {
		for _, col := range []string{"teaching", "internal_from", "internal_to", "user_email", "reg_no"} {
			present, err := s.hasColumn("rating", col)
			require.NoError(t, err)
			assert.True(t, present, "column %s should have been added", col)
		}
	})

	t.Run("legacy column survives", func(t *testing.T) {
		present, err := s.hasColumn("rating", "internal_marks")
		require.NoError(t, err)
		assert.True(t, present)
	})

	t.Run("current revision can write and read", func(t *testing.T) {
		mustCreateRating(t, s, faculty.ID, 8, 6, 9, 70, 80, 200)

		ratings, err := s.ListRatings(faculty.ID)
		require.NoError(t, err)
		require.Len(t, ratings, 2)

		// newest first: the freshly written range-model row
		require.NotNil(t, ratings[0].InternalFrom)
		assert.Equal(t, 70, *ratings[0].InternalFrom)

		// the legacy row reads back with NULLs in the patched columns
		assert.Nil(t, ratings[1].Teaching)
		assert.Nil(t, ratings[1].InternalFrom)
		assert.Nil(t, ratings[1].UserEmail)
	})

	t.Run("aggregation only reads the range model", func(t *testing.T) {
		agg, err := s.GetFacultyAverages(faculty.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), agg.RatingCount)
		// the legacy row contributes no internal-marks sample
		assert.InDelta(t, 75.0, agg.AvgInternal, 1e-9)
	})
}
