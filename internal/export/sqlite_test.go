package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"archivehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *models.Snapshot {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := models.DefaultSnapshot(now)
	s.Collections = []models.Collection{{ID: "COL1", Name: "Royal Chronicles", CreatedAt: now}}
	s.Documents = []models.Document{
		{ID: "DOC1", Title: "Decree", Collection: "COL1", Subjects: []string{"Royal", "Manuscripts"},
			Language: []string{"English"}, Published: true, Views: 7, CreatedAt: now, UpdatedAt: now},
		{ID: "DOC2", Title: "Map", CreatedAt: now, UpdatedAt: now},
	}
	s.Users = []models.User{
		{ID: "USR1", Username: "admin", Password: "$2a$10$hash", Role: models.RoleSuperadmin, CreatedAt: now, LastLogin: &now},
		{ID: "USR2", Username: "kim", Password: "$2a$10$hash", Role: models.RoleEditor, CreatedAt: now},
	}
	s.ResearchRequests = []models.ResearchRequest{
		{ID: "RR1", ResearcherName: "A", Email: "a@b.co", ResearchTopic: "T", Status: models.StatusPending, SubmittedAt: now, UpdatedAt: now},
	}
	s.Analytics.SearchQueries = []models.SearchQuery{{Query: "decree", Timestamp: now}}
	return s
}

func TestSQLite_ExportsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	ctx := context.Background()

	report, err := SQLite(ctx, fixture(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows["documents"])
	assert.Equal(t, 2, report.Rows["document_subjects"])

	counts, err := Counts(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"collections":        1,
		"documents":          2,
		"document_subjects":  2,
		"document_languages": 1,
		"news":               0,
		"research_requests":  1,
		"users":              2,
		"search_queries":     1,
	}, counts)
}

func TestSQLite_NoPasswordColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	_, err := SQLite(context.Background(), fixture(), path)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT * FROM users LIMIT 1")
	require.NoError(t, err)
	defer rows.Close()
	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.NotContains(t, cols, "password")

	var views int
	require.NoError(t, db.QueryRow("SELECT views FROM documents WHERE id = ?", "DOC1").Scan(&views))
	assert.Equal(t, 7, views)
}

func TestSQLite_RefusesExistingTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	_, err := SQLite(context.Background(), fixture(), path)
	require.NoError(t, err)

	_, err = SQLite(context.Background(), fixture(), path)
	assert.ErrorIs(t, err, ErrTargetExists)
}
