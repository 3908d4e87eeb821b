package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/werkbank/postplan/internal/models"
)

var _ Posts = (*SQLite)(nil)

// SQLite wraps *sql.DB over modernc.org/sqlite
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database file and runs the idempotent migration
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scheduled_posts (
            id TEXT PRIMARY KEY,
            input TEXT NOT NULL,
            input_norm TEXT NOT NULL,
            input_type TEXT NOT NULL,
            scheduled_date TIMESTAMP NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            generated_title TEXT,
            generated_description TEXT,
            generated_content TEXT,
            generated_tags TEXT,
            generated_image_data TEXT,
            generated_image_alt TEXT,
            published_path TEXT,
            created_at TIMESTAMP NOT NULL
        );`,
		// Backstop for concurrent creates: at most one non-published record
		// per normalized input.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_scheduled_posts_active_input
            ON scheduled_posts(input_norm) WHERE status != 'published';`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_posts_due
            ON scheduled_posts(status, scheduled_date);`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// Create inserts a new record, assigning an id and creation time when the
// caller left them empty
func (s *SQLite) Create(ctx context.Context, p *models.ScheduledPost) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	tags, err := encodeTags(p.GeneratedTags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO scheduled_posts
        (id, input, input_norm, input_type, scheduled_date, status,
         generated_title, generated_description, generated_content,
         generated_tags, generated_image_data, generated_image_alt,
         published_path, created_at)
        VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Input, models.NormalizeInput(p.Input), string(p.InputType),
		p.ScheduledDate.UTC(), string(p.Status),
		p.GeneratedTitle, p.GeneratedDescription, p.GeneratedContent,
		tags, p.GeneratedImageData, p.GeneratedImageAlt,
		p.PublishedPath, p.CreatedAt.UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateInput, p.Input)
		}
		return fmt.Errorf("insert scheduled post: %w", err)
	}
	return nil
}

const postColumns = `id, input, input_type, scheduled_date, status,
    COALESCE(generated_title,''), COALESCE(generated_description,''),
    COALESCE(generated_content,''), COALESCE(generated_tags,''),
    COALESCE(generated_image_data,''), COALESCE(generated_image_alt,''),
    COALESCE(published_path,''), created_at`

// GetByID returns the record or ErrNotFound
func (s *SQLite) GetByID(ctx context.Context, id string) (*models.ScheduledPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query scheduled post %s: %w", id, err)
	}
	return p, nil
}

// List returns all records, newest first
func (s *SQLite) List(ctx context.Context) ([]*models.ScheduledPost, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query scheduled posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Update applies the non-nil patch fields to the record
func (s *SQLite) Update(ctx context.Context, id string, patch PostPatch) error {
	var sets []string
	var args []any

	add := func(col string, val any) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.GeneratedTitle != nil {
		add("generated_title", *patch.GeneratedTitle)
	}
	if patch.GeneratedDescription != nil {
		add("generated_description", *patch.GeneratedDescription)
	}
	if patch.GeneratedContent != nil {
		add("generated_content", *patch.GeneratedContent)
	}
	if patch.GeneratedTags != nil {
		tags, err := encodeTags(*patch.GeneratedTags)
		if err != nil {
			return err
		}
		add("generated_tags", tags)
	}
	if patch.GeneratedImageData != nil {
		add("generated_image_data", *patch.GeneratedImageData)
	}
	if patch.GeneratedImageAlt != nil {
		add("generated_image_alt", *patch.GeneratedImageAlt)
	}
	if patch.PublishedPath != nil {
		add("published_path", *patch.PublishedPath)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update scheduled post %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes the record or returns ErrNotFound
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scheduled_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scheduled post %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// QueryByStatusAndDueDate returns records in the given status whose
// scheduled date is at or before now, oldest first
func (s *SQLite) QueryByStatusAndDueDate(ctx context.Context, status models.Status, now time.Time) ([]*models.ScheduledPost, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts
         WHERE status = ? AND scheduled_date <= ?
         ORDER BY scheduled_date, id`,
		string(status), now.UTC())
	if err != nil {
		return nil, fmt.Errorf("query due posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// FindActiveByInput returns the non-published record targeting the same
// normalized input, or nil
func (s *SQLite) FindActiveByInput(ctx context.Context, normalizedInput string) (*models.ScheduledPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts
         WHERE input_norm = ? AND status != ?`,
		normalizedInput, string(models.StatusPublished))
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query active input: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.ScheduledPost, error) {
	var p models.ScheduledPost
	var inputType, status, tags string
	if err := row.Scan(&p.ID, &p.Input, &inputType, &p.ScheduledDate, &status,
		&p.GeneratedTitle, &p.GeneratedDescription, &p.GeneratedContent,
		&tags, &p.GeneratedImageData, &p.GeneratedImageAlt,
		&p.PublishedPath, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.InputType = models.InputType(inputType)
	p.Status = models.Status(status)
	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, err
	}
	p.GeneratedTags = decoded
	return &p, nil
}

func collectPosts(rows *sql.Rows) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled posts: %w", err)
	}
	return out, nil
}

// Tags travel through the database as a JSON-encoded text column
func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}
