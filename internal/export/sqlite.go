// Package export writes a read-only SQLite copy of the store for reporting tools.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"archivehub/internal/db/migrations"
	"archivehub/internal/logging"
	"archivehub/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrTargetExists is returned when the export file is already present.
var ErrTargetExists = errors.New("export target already exists")

// Tables lists the exported tables in load order.
var Tables = []string{
	"collections",
	"documents",
	"document_subjects",
	"document_languages",
	"news",
	"research_requests",
	"users",
	"search_queries",
}

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Report summarizes an export.
type Report struct {
	Path string         `json:"path"`
	Rows map[string]int `json:"rows"`
}

// SQLite writes snap into a new database file at path. Password hashes are not exported.
func SQLite(ctx context.Context, snap *models.Snapshot, path string) (*Report, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetExists, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export database: %w", err)
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w := &writer{
		ctx:     ctx,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(tx),
		rows:    make(map[string]int, len(Tables)),
	}
	w.collections(snap.Collections)
	w.documents(snap.Documents)
	w.news(snap.News)
	w.research(snap.ResearchRequests)
	w.users(snap.Users)
	w.searches(snap.Analytics.SearchQueries)
	if w.err != nil {
		return nil, fmt.Errorf("failed to export: %w", w.err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit export: %w", err)
	}

	logging.Log.Infof("Exported store to %s", path)
	return &Report{Path: path, Rows: w.rows}, nil
}

// Counts returns the number of rows per exported table.
func Counts(ctx context.Context, path string) (map[string]int, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db)
	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var n int
		if err := builder.Select("COUNT(*)").From(table).QueryRowContext(ctx).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func migrate(db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logging.Log)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to create export schema: %w", err)
	}
	return nil
}

// writer inserts rows until the first error.
type writer struct {
	ctx     context.Context
	builder sq.StatementBuilderType
	rows    map[string]int
	err     error
}

func (w *writer) insert(table string, columns []string, values ...interface{}) {
	if w.err != nil {
		return
	}
	_, err := w.builder.Insert(table).Columns(columns...).Values(values...).ExecContext(w.ctx)
	if err != nil {
		w.err = fmt.Errorf("%s: %w", table, err)
		return
	}
	w.rows[table]++
}

func (w *writer) collections(items []models.Collection) {
	cols := []string{"id", "name", "description", "item_count", "date_range", "featured", "created_at"}
	for _, c := range items {
		w.insert("collections", cols, c.ID, c.Name, c.Description, c.ItemCount, c.DateRange, c.Featured, timestamp(c.CreatedAt))
	}
}

func (w *writer) documents(items []models.Document) {
	cols := []string{
		"id", "reference_number", "title", "creator", "collection_id", "date_from", "date_to",
		"access_restrictions", "copyright_status", "file_count", "views", "downloads",
		"featured", "published", "created_at", "updated_at",
	}
	for _, d := range items {
		w.insert("documents", cols,
			d.ID, d.ReferenceNumber, d.Title, d.Creator, d.Collection, d.Date.From, d.Date.To,
			d.AccessRestrictions, d.CopyrightStatus, len(d.Files), d.Views, d.Downloads,
			d.Featured, d.Published, timestamp(d.CreatedAt), timestamp(d.UpdatedAt))
		for _, s := range d.Subjects {
			w.insert("document_subjects", []string{"document_id", "subject"}, d.ID, s)
		}
		for _, l := range d.Language {
			w.insert("document_languages", []string{"document_id", "language"}, d.ID, l)
		}
	}
}

func (w *writer) news(items []models.News) {
	cols := []string{"id", "title", "author", "featured", "published_at"}
	for _, n := range items {
		w.insert("news", cols, n.ID, n.Title, n.Author, n.Featured, timestamp(n.PublishedAt))
	}
}

func (w *writer) research(items []models.ResearchRequest) {
	cols := []string{"id", "researcher_name", "email", "affiliation", "research_topic", "status", "submitted_at", "updated_at"}
	for _, r := range items {
		w.insert("research_requests", cols,
			r.ID, r.ResearcherName, r.Email, r.Affiliation, r.ResearchTopic, r.Status,
			timestamp(r.SubmittedAt), timestamp(r.UpdatedAt))
	}
}

func (w *writer) users(items []models.User) {
	cols := []string{"id", "username", "role", "name", "created_at", "last_login"}
	for _, u := range items {
		var lastLogin interface{}
		if u.LastLogin != nil {
			lastLogin = timestamp(*u.LastLogin)
		}
		w.insert("users", cols, u.ID, u.Username, u.Role, u.Name, timestamp(u.CreatedAt), lastLogin)
	}
}

func (w *writer) searches(items []models.SearchQuery) {
	cols := []string{"query", "timestamp"}
	for _, q := range items {
		w.insert("search_queries", cols, q.Query, timestamp(q.Timestamp))
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
