package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"
)

// Driver names accepted by SQLiteConfig.Driver.
const (
	DriverModernc = "sqlite"  // pure Go, modernc.org/sqlite
	DriverCGO     = "sqlite3" // cgo, github.com/mattn/go-sqlite3
)

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Driver is DriverModernc or DriverCGO.
	// Default: DriverModernc
	Driver string

	// Path is the database file path. ":memory:" opens a private in-memory
	// database.
	Path string

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:      DriverModernc,
		Path:        "data/translations.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements Store on SQLite with either driver.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database and creates the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverCGO {
		return nil, storageError(config.Driver, "open",
			fmt.Errorf("unknown driver %q (want %s or %s)", config.Driver, DriverModernc, DriverCGO))
	}
	if config.Path == "" {
		return nil, storageError(config.Driver, "open", errors.New("db path cannot be empty"))
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "archive.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, storageError(config.Driver, "open", err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:"
	// databases from splitting across connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite archive initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode && s.config.Path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return s.fail("enable_wal", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return s.fail("set_busy_timeout", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return s.fail("create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion, time.Now().UnixNano()); err != nil {
		return s.fail("insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return s.fail("get_schema_version", err)
	}
	if version != SchemaVersion {
		return s.fail("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

func (s *SQLiteStore) fail(op string, err error) error {
	return storageError(s.config.Driver, op, err)
}

// Save inserts record.
func (s *SQLiteStore) Save(ctx context.Context, record *Record) error {
	if record.ID == "" {
		return s.fail("save", errors.New("record has no ID"))
	}
	params, err := json.Marshal(record.Parameters)
	if err != nil {
		return s.fail("save", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO translations (
			id, document, file, target, translated, parameters, query_hash, error, duration_ns, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Document, nullable(record.File), record.Target, record.Translated,
		string(params), nullable(record.QueryHash), nullable(record.Error),
		int64(record.Duration), record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return s.fail("save", err)
	}
	return nil
}

const selectColumns = `SELECT id, document, file, target, translated, parameters, query_hash, error, duration_ns, created_at FROM translations`

// Get returns the record with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE id = ?", id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	records, err := s.scan(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// Query returns the matching records, newest first.
func (s *SQLiteStore) Query(ctx context.Context, q *Query) ([]*Record, error) {
	if q == nil {
		q = &Query{}
	}
	where, args := buildWhere(q)

	query := selectColumns
	if where != "" {
		query += " WHERE " + where
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail("query", err)
	}
	return s.scan(rows)
}

// Count returns the number of matching records.
func (s *SQLiteStore) Count(ctx context.Context, q *Query) (int64, error) {
	if q == nil {
		q = &Query{}
	}
	where, args := buildWhere(q)
	query := "SELECT COUNT(*) FROM translations"
	if where != "" {
		query += " WHERE " + where
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, s.fail("count", err)
	}
	return n, nil
}

// DeleteOlderThan deletes records created before cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM translations WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, s.fail("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("delete", err)
	}
	return n, nil
}

// DeleteOldest deletes the n oldest records.
func (s *SQLiteStore) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM translations WHERE id IN (
			SELECT id FROM translations ORDER BY created_at ASC, id ASC LIMIT ?
		)`, n)
	if err != nil {
		return 0, s.fail("delete_oldest", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("delete_oldest", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return s.fail("close", err)
	}
	return nil
}

func buildWhere(q *Query) (string, []any) {
	var conds []string
	var args []any
	if q.Target != "" {
		conds = append(conds, "target = ?")
		args = append(args, q.Target)
	}
	if q.Document != "" {
		conds = append(conds, "document = ?")
		args = append(args, q.Document)
	}
	if q.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.Until != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, q.Until.UnixNano())
	}
	if q.FailedOnly {
		conds = append(conds, "error IS NOT NULL AND error != ''")
	}
	return strings.Join(conds, " AND "), args
}

func (s *SQLiteStore) scan(rows *sql.Rows) ([]*Record, error) {
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var (
			r                           Record
			file, params, hash, errText sql.NullString
			durationNs, createdAt       int64
		)
		if err := rows.Scan(&r.ID, &r.Document, &file, &r.Target, &r.Translated,
			&params, &hash, &errText, &durationNs, &createdAt); err != nil {
			return nil, s.fail("scan", err)
		}
		r.File = file.String
		r.QueryHash = hash.String
		r.Error = errText.String
		r.Duration = time.Duration(durationNs)
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		if params.Valid && params.String != "" && params.String != "null" {
			if err := json.Unmarshal([]byte(params.String), &r.Parameters); err != nil {
				return nil, s.fail("scan", err)
			}
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("scan", err)
	}
	return records, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
