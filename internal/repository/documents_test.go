package repository

import (
	"fmt"
	"testing"
	"time"

	"archivehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDocuments(t *testing.T, repo *Repository, clock *testClock) []models.Document {
	t.Helper()
	inputs := []models.DocumentInput{
		{Title: "Royal Decree on Land Settlement", Description: "Land distribution", Subjects: []string{"Land Records"},
			Language: []string{"Meitei", "English"}, Collection: "COL001", Date: models.DateRange{From: "1920-03-15", To: "1920-03-15"}, Published: true, Featured: true},
		{Title: "Freedom Movement Correspondence", Description: "Letters between freedom fighters", Subjects: []string{"Independence"},
			Language: []string{"English", "Hindi"}, Collection: "COL002", Date: models.DateRange{From: "1942-08-09", To: "1947-08-15"}, Published: true},
		{Title: "Palm Leaf Manuscript", Description: "Puya text", Subjects: []string{"Manuscripts"},
			Language: []string{"Meitei"}, Collection: "COL004", Date: models.DateRange{From: "1800-01-01"}, Published: false},
	}
	var docs []models.Document
	for _, in := range inputs {
		doc, err := repo.Documents.Create(in, "USR1")
		require.NoError(t, err)
		docs = append(docs, doc)
		clock.Advance(time.Hour)
	}
	return docs
}

func TestDocumentFilter(t *testing.T) {
	repo, clock := setupTestRepo(t)
	docs := seedDocuments(t, repo, clock)

	tests := []struct {
		name   string
		filter DocumentFilter
		want   []string
	}{
		{"Search Title Case Insensitive", DocumentFilter{Search: "DECREE"}, []string{docs[0].ID}},
		{"Search Description", DocumentFilter{Search: "freedom fighters"}, []string{docs[1].ID}},
		{"Search Subject", DocumentFilter{Search: "manuscript"}, []string{docs[2].ID}},
		{"Language", DocumentFilter{Language: "English"}, []string{docs[1].ID, docs[0].ID}},
		{"Language Matches Exactly", DocumentFilter{Language: "english"}, nil},
		{"Collection", DocumentFilter{Collection: "COL002"}, []string{docs[1].ID}},
		{"Date From", DocumentFilter{DateFrom: "1900-01-01"}, []string{docs[1].ID, docs[0].ID}},
		{"Date To Includes Empty To", DocumentFilter{DateTo: "1930-12-31"}, []string{docs[2].ID, docs[0].ID}},
		{"Date Range", DocumentFilter{DateFrom: "1900-01-01", DateTo: "1930-12-31"}, []string{docs[0].ID}},
		{"Featured", DocumentFilter{Featured: models.Bool(true)}, []string{docs[0].ID}},
		{"Unpublished", DocumentFilter{Published: models.Bool(false)}, []string{docs[2].ID}},
		{"No Match", DocumentFilter{Search: "zeppelin"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, total, err := repo.Documents.List(tc.filter, ListOptions{})
			require.NoError(t, err)
			var ids []string
			for _, d := range items {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tc.want, ids)
			assert.Equal(t, len(tc.want), total)
		})
	}
}

func TestDocumentFilter_UndatedDocuments(t *testing.T) {
	repo, _ := setupTestRepo(t)
	undated, err := repo.Documents.Create(models.DocumentInput{Title: "Undated Map"}, "USR1")
	require.NoError(t, err)
	require.Equal(t, models.DateRange{}, undated.Date)

	items, _, err := repo.Documents.List(DocumentFilter{DateTo: "1950-01-01"}, ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, undated.ID, items[0].ID)

	items, _, err = repo.Documents.List(DocumentFilter{DateFrom: "1950-01-01"}, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDocumentList_PublicHidesUnpublished(t *testing.T) {
	repo, clock := setupTestRepo(t)
	docs := seedDocuments(t, repo, clock)

	_, total, err := repo.Documents.ListPublic(DocumentFilter{Published: models.Bool(false)}, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, err = repo.Documents.GetPublished(docs[2].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Documents.GetPublished(docs[0].ID)
	assert.NoError(t, err)
}

func TestDocumentList_SortAndPaginate(t *testing.T) {
	repo, clock := setupTestRepo(t)
	for i := 0; i < 25; i++ {
		_, err := repo.Documents.Create(models.DocumentInput{Title: fmt.Sprintf("Doc %02d", i), Creator: []string{"b", "a"}[i%2]}, "")
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	t.Run("Default Newest First And Limit", func(t *testing.T) {
		items, total, err := repo.Documents.List(DocumentFilter{}, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		require.Len(t, items, DefaultDocumentLimit)
		assert.Equal(t, "Doc 24", items[0].Title)
	})

	t.Run("Offset Beyond End", func(t *testing.T) {
		items, total, err := repo.Documents.List(DocumentFilter{}, ListOptions{Offset: 100})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 25, total)
	})

	t.Run("Stable On Ties", func(t *testing.T) {
		items, _, err := repo.Documents.List(DocumentFilter{}, ListOptions{Sort: "creator", Order: "asc", Limit: 3})
		require.NoError(t, err)
		// creator "a" holds the odd docs; ties keep store order
		assert.Equal(t, []string{"Doc 01", "Doc 03", "Doc 05"}, []string{items[0].Title, items[1].Title, items[2].Title})
	})

	t.Run("Title Ascending Second Page", func(t *testing.T) {
		items, _, err := repo.Documents.List(DocumentFilter{}, ListOptions{Sort: "title", Order: "asc", Offset: 5, Limit: 2})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Doc 05", items[0].Title)
		assert.Equal(t, "Doc 06", items[1].Title)
	})

	t.Run("Unknown Sort Field", func(t *testing.T) {
		_, _, err := repo.Documents.List(DocumentFilter{}, ListOptions{Sort: "password"})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})
}

func TestDocumentUpdate(t *testing.T) {
	repo, clock := setupTestRepo(t)
	doc, err := repo.Documents.Create(models.DocumentInput{Title: "Draft"}, "USR1")
	require.NoError(t, err)
	_, err = repo.Documents.IncrementViews(doc.ID)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	patch, err := models.DecodePatch[models.DocumentPatch]([]byte(`{"title":"Final","published":true}`))
	require.NoError(t, err)
	got, err := repo.Documents.Update(doc.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, "Final", got.Title)
	assert.True(t, got.Published)
	assert.Equal(t, int64(1), got.Views)
	assert.Equal(t, "USR1", got.CreatedBy)
	assert.Equal(t, doc.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(doc.UpdatedAt))

	_, err = repo.Documents.Update(doc.ID, models.DocumentPatch{Title: models.String("  ")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = repo.Documents.Update("DOC-missing", models.DocumentPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentCreate_RequiresTitle(t *testing.T) {
	repo, _ := setupTestRepo(t)
	_, err := repo.Documents.Create(models.DocumentInput{}, "")
	assert.ErrorIs(t, err, ErrValidation)
}
