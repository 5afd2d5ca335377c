package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"archivehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "database.json")
	engine := NewEngine(path, NewRotator(filepath.Join(dir, "backups"), 7))
	created, err := engine.Bootstrap(func() *models.Snapshot {
		return models.DefaultSnapshot(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	})
	require.NoError(t, err)
	require.True(t, created)
	return engine, dir
}

func sampleSnapshot() *models.Snapshot {
	snap := models.DefaultSnapshot(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	login := time.Date(2024, 3, 2, 8, 30, 0, 123456789, time.UTC)
	snap.Documents = []models.Document{
		{
			ID:        "DOC001",
			Title:     "Royal Decree",
			Date:      models.DateRange{From: "1920-03-15", To: "1920-03-15"},
			Language:  []string{"Meitei", "English"},
			Subjects:  []string{"Land Records"},
			Files:     []models.DocumentFile{{Type: "image", URL: "/a.jpg", Thumbnail: "/a.jpg"}},
			Views:     245,
			Published: true,
			CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 3, 20, 14, 22, 0, 0, time.UTC),
			CreatedBy: "USR001",
		},
		{ID: "DOC002", Title: "Correspondence", CreatedAt: time.Date(2024, 2, 10, 9, 15, 0, 0, time.UTC)},
	}
	snap.Users = []models.User{{ID: "USR001", Username: "admin", Role: models.RoleSuperadmin, LastLogin: &login}}
	snap.Settings.FeaturedCollections = []string{"COL002", "COL001"}
	snap.Analytics.TotalViews = 1245
	snap.Analytics.SearchQueries = []models.SearchQuery{{Query: "decree", Timestamp: login}}
	return snap
}

func TestEngine_RoundTrip(t *testing.T) {
	engine, _ := setupEngine(t)
	want := sampleSnapshot()

	require.NoError(t, engine.Save(want))
	got, err := engine.Load()
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, "DOC001", got.Documents[0].ID)
	assert.Equal(t, "DOC002", got.Documents[1].ID)
}

func TestEngine_HumanDiffableFormat(t *testing.T) {
	engine, _ := setupEngine(t)
	require.NoError(t, engine.Save(sampleSnapshot()))

	raw, err := os.ReadFile(engine.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"documents\": [")
	assert.Contains(t, string(raw), "\"research_requests\": []")
}

const legacyStore = `{
  "documents": [
    {"id": "DOC001", "title": "Royal Decree", "date": {"from": "", "to": ""}, "tags": ["royal"]}
  ],
  "collections": [],
  "research_requests": [],
  "service_requests": [{"id": "SR001", "service": "reproduction"}],
  "news": [],
  "events": [{"id": "EV001", "title": "Heritage Week"}],
  "gallery": [],
  "pages": {"about": {"content": "About us", "heroImage": "/hero.jpg"}},
  "settings": {"archiveName": "State Archives", "tagline": "Old", "theme": "dark"},
  "notifications": [],
  "analytics": {"totalViews": 1245, "totalDownloads": 378, "searchQueries": [], "popularDocuments": ["DOC001"]},
  "contact_messages": [],
  "feedback": [{"rating": 5}],
  "newsletter_subscribers": []
}`

func TestEngine_KeepsKeysItDoesNotModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyStore), 0o644))
	engine := NewEngine(path, NewRotator(filepath.Join(dir, "backups"), 7))

	require.NoError(t, engine.Update(func(s *models.Snapshot) error {
		s.Settings.Tagline = "New"
		s.Documents[0].Title = "Royal Decree of 1920"
		return nil
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, []interface{}{map[string]interface{}{"id": "SR001", "service": "reproduction"}}, got["service_requests"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": "EV001", "title": "Heritage Week"}}, got["events"])
	assert.Equal(t, []interface{}{map[string]interface{}{"rating": float64(5)}}, got["feedback"])

	analytics := got["analytics"].(map[string]interface{})
	assert.Equal(t, []interface{}{"DOC001"}, analytics["popularDocuments"])
	assert.Equal(t, float64(1245), analytics["totalViews"])

	settings := got["settings"].(map[string]interface{})
	assert.Equal(t, "New", settings["tagline"])
	assert.Equal(t, "dark", settings["theme"])

	doc := got["documents"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Royal Decree of 1920", doc["title"])
	assert.Equal(t, []interface{}{"royal"}, doc["tags"])

	page := got["pages"].(map[string]interface{})["about"].(map[string]interface{})
	assert.Equal(t, "/hero.jpg", page["heroImage"])

	// A further load and save leaves the file unchanged.
	reloaded, err := engine.Load()
	require.NoError(t, err)
	assert.Contains(t, reloaded.Extra, "feedback")
	require.NoError(t, engine.Save(reloaded))
	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(rewritten))
}

func TestEngine_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		_, err := NewEngine(filepath.Join(dir, "nope.json"), nil).Load()
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("Corrupt", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"documents": [`), 0o644))
		engine := NewEngine(path, nil)

		_, err := engine.Load()
		assert.ErrorIs(t, err, ErrCorruptStore)

		created, err := engine.Bootstrap(func() *models.Snapshot { return models.DefaultSnapshot(time.Now()) })
		assert.ErrorIs(t, err, ErrCorruptStore)
		assert.False(t, created)

		raw, _ := os.ReadFile(path)
		assert.Equal(t, `{"documents": [`, string(raw))
	})
}

func TestEngine_BootstrapIsIdempotent(t *testing.T) {
	engine, _ := setupEngine(t)
	require.NoError(t, engine.Update(func(s *models.Snapshot) error {
		s.Settings.ArchiveName = "State Archives"
		return nil
	}))

	created, err := engine.Bootstrap(func() *models.Snapshot { return models.DefaultSnapshot(time.Now()) })
	require.NoError(t, err)
	assert.False(t, created)

	snap, err := engine.Load()
	require.NoError(t, err)
	assert.Equal(t, "State Archives", snap.Settings.ArchiveName)
}

func TestEngine_PersistFailureKeepsOriginal(t *testing.T) {
	t.Run("Temp File Unavailable", func(t *testing.T) {
		engine, _ := setupEngine(t)
		before, err := os.ReadFile(engine.Path())
		require.NoError(t, err)

		engine.createTemp = func(dir, pattern string) (*os.File, error) {
			return nil, errors.New("no space left on device")
		}
		err = engine.Save(sampleSnapshot())
		assert.ErrorIs(t, err, ErrStorePersist)

		after, err := os.ReadFile(engine.Path())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Write Fails Midway", func(t *testing.T) {
		engine, _ := setupEngine(t)
		before, err := os.ReadFile(engine.Path())
		require.NoError(t, err)

		var tmpName string
		engine.createTemp = func(dir, pattern string) (*os.File, error) {
			f, err := os.CreateTemp(dir, pattern)
			if err != nil {
				return nil, err
			}
			tmpName = f.Name()
			_ = f.Close()
			return f, nil
		}
		err = engine.Save(sampleSnapshot())
		assert.ErrorIs(t, err, ErrStorePersist)

		after, _ := os.ReadFile(engine.Path())
		assert.Equal(t, before, after)
		assert.NoFileExists(t, tmpName)
	})
}

func TestEngine_BackupFailureDoesNotFailSave(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "backups")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	engine := NewEngine(filepath.Join(dir, "database.json"), NewRotator(blocker, 7))
	require.NoError(t, engine.Save(models.DefaultSnapshot(time.Now())))

	snap := sampleSnapshot()
	require.NoError(t, engine.Save(snap))

	got, err := engine.Load()
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestEngine_UpdateErrorWritesNothing(t *testing.T) {
	engine, _ := setupEngine(t)
	before, _ := os.ReadFile(engine.Path())

	sentinel := errors.New("rejected")
	err := engine.Update(func(s *models.Snapshot) error {
		s.Settings.ArchiveName = "changed"
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	after, _ := os.ReadFile(engine.Path())
	assert.Equal(t, before, after)

	backups, err := engine.Rotator().List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestEngine_ConcurrentAppendsAreAllKept(t *testing.T) {
	engine, _ := setupEngine(t)
	const n = 40

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return engine.Update(func(s *models.Snapshot) error {
				s.Documents = append(s.Documents, models.Document{
					ID:    fmt.Sprintf("DOC-%02d", i),
					Title: fmt.Sprintf("payload %d", i),
				})
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())

	snap, err := engine.Load()
	require.NoError(t, err)
	require.Len(t, snap.Documents, n)

	ids := make(map[string]bool, n)
	for _, d := range snap.Documents {
		ids[d.ID] = true
	}
	assert.Len(t, ids, n)
}

func TestEngine_ConcurrentSameFieldLastWriteWins(t *testing.T) {
	engine, _ := setupEngine(t)
	require.NoError(t, engine.Update(func(s *models.Snapshot) error {
		s.Documents = append(s.Documents, models.Document{ID: "DOC1", Title: "original"})
		return nil
	}))

	var g errgroup.Group
	for _, title := range []string{"first", "second"} {
		g.Go(func() error {
			return engine.Update(func(s *models.Snapshot) error {
				s.Documents[0].Title = title
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())

	snap, err := engine.Load()
	require.NoError(t, err)
	assert.Contains(t, []string{"first", "second"}, snap.Documents[0].Title)
}

func TestEngine_StaleSnapshotLosesUpdate(t *testing.T) {
	engine, _ := setupEngine(t)

	a, err := engine.Load()
	require.NoError(t, err)
	b, err := engine.Load()
	require.NoError(t, err)

	a.Documents = append(a.Documents, models.Document{ID: "DOC-A"})
	b.Settings.ArchiveName = "B wins"
	require.NoError(t, engine.Save(a))
	require.NoError(t, engine.Save(b))

	snap, err := engine.Load()
	require.NoError(t, err)
	assert.Equal(t, "B wins", snap.Settings.ArchiveName)
	assert.Empty(t, snap.Documents, "a raw Load/Save outside Update is last-write-wins")
}

func TestEngine_ReadersNeverSeePartialWrites(t *testing.T) {
	engine, _ := setupEngine(t)
	done := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		for i := 0; i < 30; i++ {
			snap := models.DefaultSnapshot(time.Now())
			for j := 0; j <= i*20; j++ {
				snap.Documents = append(snap.Documents, models.Document{ID: fmt.Sprintf("DOC%d-%d", i, j), Description: "padding padding padding"})
			}
			if err := engine.Save(snap); err != nil {
				return err
			}
		}
		return nil
	})
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
				}
				if _, err := engine.Load(); err != nil {
					return err
				}
			}
		})
	}
	assert.NoError(t, g.Wait())
}
