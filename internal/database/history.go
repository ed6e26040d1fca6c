package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/patronsort/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "patronsort.db"

// timestampLayout is how run times are stored. Fixed width UTC keeps the
// text column ordered chronologically.
const timestampLayout = "2006-01-02 15:04:05.000000"

var (
	// ErrRunNotFound is returned by GetRun for an unknown id.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned by GetRun when an id prefix matches
	// more than one run.
	ErrAmbiguousRunID = errors.New("run id prefix matches more than one run")
)

// HistoryDB provides SQLite-based storage for run history.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so a watch session and a
	// history query can use the file at the same time.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL,
		success INTEGER NOT NULL,
		message TEXT NOT NULL,
		rows_read INTEGER NOT NULL DEFAULT 0,
		rows_skipped INTEGER NOT NULL DEFAULT 0,
		rows_matched INTEGER NOT NULL DEFAULT 0,
		groups_count INTEGER NOT NULL DEFAULT 0,
		bytes_written INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_path);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored summary of one run.
type RunRecord struct {
	ID           string        `json:"id"`
	InputPath    string        `json:"input_path"`
	OutputPath   string        `json:"output_path,omitempty"`
	Format       string        `json:"format"`
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	RowsRead     int           `json:"rows_read"`
	RowsSkipped  int           `json:"rows_skipped"`
	RowsMatched  int           `json:"rows_matched"`
	Groups       int           `json:"groups"`
	BytesWritten int           `json:"bytes_written"`
	Duration     time.Duration `json:"duration_ns"`
	Timestamp    time.Time     `json:"timestamp"`
}

// NewRunRecord summarizes a finished run for storage.
func NewRunRecord(run *model.Run) RunRecord {
	status := model.NewStatus(run)

	rec := RunRecord{
		ID:           run.ID,
		InputPath:    run.InputPath,
		OutputPath:   status.OutputPath,
		Format:       run.Format,
		Success:      run.Succeeded(),
		Message:      status.Message,
		RowsSkipped:  run.RowsSkipped,
		BytesWritten: run.BytesWritten,
		Duration:     run.Duration(),
		Timestamp:    run.StartedAt,
	}
	if run.Report != nil {
		rec.RowsRead = run.Report.RowsRead
		rec.RowsMatched = run.Report.RowsMatched
		rec.Groups = run.Report.GroupCount()
	}
	return rec
}

// Status returns the status surface the record was saved with.
func (r RunRecord) Status() model.Status {
	return model.Status{Message: r.Message, OutputPath: r.OutputPath}
}

// SaveRun stores the summary of a finished run.
func (h *HistoryDB) SaveRun(ctx context.Context, run *model.Run) error {
	rec := NewRunRecord(run)

	query := `
	INSERT INTO runs (id, input_path, output_path, format, success, message,
		rows_read, rows_skipped, rows_matched, groups_count, bytes_written,
		duration_ms, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := h.db.ExecContext(ctx, query,
		rec.ID,
		rec.InputPath,
		rec.OutputPath,
		rec.Format,
		rec.Success,
		rec.Message,
		rec.RowsRead,
		rec.RowsSkipped,
		rec.RowsMatched,
		rec.Groups,
		rec.BytesWritten,
		rec.Duration.Milliseconds(),
		rec.Timestamp.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

const selectRuns = `
	SELECT id, input_path, output_path, format, success, message,
		rows_read, rows_skipped, rows_matched, groups_count, bytes_written,
		duration_ms, timestamp
	FROM runs
`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (RunRecord, error) {
	var (
		rec        RunRecord
		durationMS int64
		timestamp  string
	)
	err := s.Scan(
		&rec.ID,
		&rec.InputPath,
		&rec.OutputPath,
		&rec.Format,
		&rec.Success,
		&rec.Message,
		&rec.RowsRead,
		&rec.RowsSkipped,
		&rec.RowsMatched,
		&rec.Groups,
		&rec.BytesWritten,
		&durationMS,
		&timestamp,
	)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.Timestamp = parseTimestamp(timestamp)
	return rec, nil
}

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := selectRuns + ` ORDER BY timestamp DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0)
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, rec)
	}

	return runs, rows.Err()
}

// LastRun returns the most recent run, or nil when there is none.
func (h *HistoryDB) LastRun(ctx context.Context) (*RunRecord, error) {
	query := selectRuns + ` ORDER BY timestamp DESC, rowid DESC LIMIT 1`

	rec, err := scanRun(h.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}
	return &rec, nil
}

// GetRun returns the run with the given id. When no id matches exactly, a
// prefix that identifies a single run is accepted, so the short ids listed by
// the history command can be passed back.
func (h *HistoryDB) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	rec, err := scanRun(h.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := h.db.QueryContext(ctx, selectRuns+` WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var matches []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}
}

// ClearRuns deletes all recorded runs and returns how many were removed.
func (h *HistoryDB) ClearRuns(ctx context.Context) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear runs: %w", err)
	}
	return res.RowsAffected()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,           // Format written by SaveRun
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
