package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"git.sr.ht/~jakintosh/todo/internal/domain"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const busyTimeoutMillis = 5000

// SQLiteStore keeps tasks in a single SQLite file. The connection is opened
// on first use (or by an explicit Open) and held until Close.
type SQLiteStore struct {
	path string
	log  zerolog.Logger

	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

func NewSQLiteStore(path string, log zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{
		path: path,
		log:  log.With().Str("component", "store").Logger(),
	}
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Open initializes the database file and schema. It is safe to call any
// number of times from any goroutine; only the first successful call does
// the work. A failed attempt may be retried.
func (s *SQLiteStore) Open(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

func (s *SQLiteStore) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, domain.ErrClosed)
	}
	if s.db != nil {
		return s.db, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("failed to open task store")
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	s.db = db
	s.log.Info().Str("path", s.path).Msg("task store ready")
	return db, nil
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection for the life of the process
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// dsn applies per-connection pragmas, so a replaced connection gets them too.
func dsn(path string) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeoutMillis)
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		);
	`)
	return err
}

// Close releases the connection. Later calls fail with ErrClosed.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Create(ctx context.Context, description string) (domain.Task, error) {
	if !domain.ValidDescription(description) {
		return domain.Task{}, domain.ErrEmptyDescription
	}
	db, err := s.conn(ctx)
	if err != nil {
		return domain.Task{}, err
	}

	t := domain.Task{Description: description}
	if err := db.QueryRowContext(ctx, `
		INSERT INTO todos (description, completed)
		VALUES (?, 0)
		RETURNING id`,
		description,
	).Scan(&t.ID); err != nil {
		return domain.Task{}, fmt.Errorf("%w: insert task: %w", domain.ErrStorageWrite, err)
	}
	return t, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Task, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			id,
			description,
			completed
		FROM todos
		ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query tasks: %w", domain.ErrStorageRead, err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan task: %w", domain.ErrStorageRead, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tasks: %w", domain.ErrStorageRead, err)
	}
	return tasks, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (domain.Task, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return domain.Task{}, err
	}

	t, err := scanTask(db.QueryRowContext(ctx, `
		SELECT
			id,
			description,
			completed
		FROM todos
		WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: get task %d: %w", domain.ErrStorageRead, id, err)
	}
	return t, nil
}

// Update overwrites the row with task.ID. A missing row is reported as
// NotFound, not as an error.
func (s *SQLiteStore) Update(ctx context.Context, task domain.Task) (domain.Result, error) {
	if !domain.ValidDescription(task.Description) {
		return domain.NotFound, domain.ErrEmptyDescription
	}
	db, err := s.conn(ctx)
	if err != nil {
		return domain.NotFound, err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE todos
		SET description = ?,
			completed = ?
		WHERE id = ?`,
		task.Description,
		boolToInt(task.Completed),
		task.ID,
	)
	if err != nil {
		return domain.NotFound, fmt.Errorf("%w: update task %d: %w", domain.ErrStorageWrite, task.ID, err)
	}
	return affected(res, domain.Updated)
}

// Delete removes the row with id. A missing row is reported as NotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (domain.Result, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return domain.NotFound, err
	}

	res, err := db.ExecContext(ctx, `
		DELETE FROM todos
		WHERE id = ?`,
		id,
	)
	if err != nil {
		return domain.NotFound, fmt.Errorf("%w: delete task %d: %w", domain.ErrStorageWrite, id, err)
	}
	return affected(res, domain.Deleted)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		t         domain.Task
		completed int64
	)
	if err := row.Scan(
		&t.ID,
		&t.Description,
		&completed,
	); err != nil {
		return domain.Task{}, err
	}
	t.Completed = completed != 0
	return t, nil
}

func affected(res sql.Result, found domain.Result) (domain.Result, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NotFound, fmt.Errorf("%w: rows affected: %w", domain.ErrStorageWrite, err)
	}
	if n == 0 {
		return domain.NotFound, nil
	}
	return found, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
