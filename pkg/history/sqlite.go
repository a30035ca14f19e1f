package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLiteStore keeps records in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create history directory")
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, errors.Wrap(err, "open history database")
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize history schema")
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL DEFAULT '',
		expression TEXT NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL DEFAULT 'calc',
		category TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_owner ON history(owner, created_at);
	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Add(ctx context.Context, r Record) (Record, error) {
	r, err := prepare(r)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE owner = ? AND expression = ?`, r.Owner, r.Expression); err != nil {
		return Record{}, errors.Wrap(err, "delete previous record")
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO history (id, owner, expression, result, mode, category, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Owner, r.Expression, r.Result, string(r.Mode), r.Category, r.Data, r.Timestamp.UnixNano()); err != nil {
		return Record{}, errors.Wrap(err, "insert record")
	}

	if err := tx.Commit(); err != nil {
		return Record{}, errors.Wrap(err, "commit record")
	}
	return r, nil
}

func (s *SQLiteStore) List(ctx context.Context, owner string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, expression, result, mode, category, data, created_at
		FROM history WHERE owner = ?
		ORDER BY created_at, rowid
	`, owner)
	if err != nil {
		return nil, errors.Wrap(err, "query records")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			mode    string
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Owner, &r.Expression, &r.Result, &mode, &r.Category, &r.Data, &created); err != nil {
			return nil, errors.Wrap(err, "scan record")
		}
		r.Mode = Mode(mode)
		r.Timestamp = time.Unix(0, created)
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate records")
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE owner = ?`, owner)
	return errors.Wrap(err, "clear records")
}

func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE created_at < ?`, before.UnixNano())
	if err != nil {
		return 0, errors.Wrap(err, "prune records")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "count pruned records")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
