package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/google/uuid"
	"github.com/nao1215/csvinspect/internal/model"
	"github.com/nao1215/csvinspect/internal/profile"
)

// FileName is the database file name inside the database directory.
const FileName = "csvinspect.db"

// timeLayout stores timestamps in UTC with a fixed width so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrRunNotFound is returned by GetRun for an unknown run ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrNoProfile is returned by SaveRun for an analysis without a profile.
	ErrNoProfile = errors.New("analysis has no profile")
)

// HistoryDB provides SQLite-based storage for run records.
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

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
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
		source_path TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		started_at TEXT NOT NULL,
		rows_loaded INTEGER NOT NULL,
		col_count INTEGER NOT NULL,
		rows_final INTEGER NOT NULL,
		missing_cells INTEGER NOT NULL,
		duplicate_rows INTEGER NOT NULL,
		dropped_rows INTEGER NOT NULL,
		cleaned_path TEXT NOT NULL DEFAULT '',
		charts_json TEXT NOT NULL DEFAULT '[]',
		profile_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source_path, started_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored summary of one run.
type RunRecord struct {
	ID            uuid.UUID        `json:"id"`
	SourcePath    string           `json:"source_path"`
	Fingerprint   string           `json:"fingerprint"`
	StartedAt     time.Time        `json:"started_at"`
	RowsLoaded    int              `json:"rows_loaded"`
	Columns       int              `json:"columns"`
	RowsFinal     int              `json:"rows_final"`
	MissingCells  int              `json:"missing_cells"`
	DuplicateRows int              `json:"duplicate_rows"`
	DroppedRows   int              `json:"dropped_rows"`
	CleanedPath   string           `json:"cleaned_path,omitempty"`
	Charts        []string         `json:"charts,omitempty"`
	Profile       *profile.Profile `json:"profile,omitempty"`

	// Changed is set by ListRuns when the fingerprint differs from the
	// previous run of the same file.
	Changed bool `json:"changed"`
}

// FileSummary describes one file with recorded runs.
type FileSummary struct {
	SourcePath string    `json:"source_path"`
	Runs       int       `json:"runs"`
	LastRun    time.Time `json:"last_run"`
}

// SaveRun stores a summary of a.
// The source path is stored as an absolute path.
func (h *HistoryDB) SaveRun(ctx context.Context, a *model.Analysis) error {
	loaded := a.Profile(model.StageLoaded)
	final := a.LatestProfile()
	if loaded == nil || final == nil {
		return ErrNoProfile
	}

	source, err := filepath.Abs(a.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", a.SourcePath, err)
	}

	profileJSON, err := json.Marshal(final)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}

	charts := make([]string, len(a.Charts))
	for i, c := range a.Charts {
		charts[i] = c.Path
	}
	chartsJSON, err := json.Marshal(charts)
	if err != nil {
		return fmt.Errorf("failed to serialize charts: %w", err)
	}

	query := `
	INSERT INTO runs (id, source_path, fingerprint, started_at, rows_loaded, col_count,
		rows_final, missing_cells, duplicate_rows, dropped_rows, cleaned_path, charts_json, profile_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = h.db.ExecContext(ctx, query,
		a.ID.String(),
		source,
		a.Fingerprint,
		a.StartedAt.UTC().Format(timeLayout),
		loaded.Rows,
		loaded.Cols,
		final.Rows,
		loaded.MissingTotal(),
		loaded.DuplicateRows,
		a.DroppedRows,
		a.CleanedPath,
		string(chartsJSON),
		string(profileJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// runColumns is the column list shared by the run queries.
const runColumns = `id, source_path, fingerprint, started_at, rows_loaded, col_count, rows_final,
	missing_cells, duplicate_rows, dropped_rows, cleaned_path, charts_json, profile_json`

// ListRuns returns the runs of the file at sourcePath, newest first.
// Each record's Changed flag compares its fingerprint with the run before it.
func (h *HistoryDB) ListRuns(ctx context.Context, sourcePath string) ([]RunRecord, error) {
	source, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", sourcePath, err)
	}

	query := `SELECT ` + runColumns + ` FROM runs
	WHERE source_path = ?
	ORDER BY started_at DESC, rowid DESC`

	rows, err := h.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := 0; i+1 < len(records); i++ {
		records[i].Changed = records[i].Fingerprint != records[i+1].Fingerprint
	}
	return records, nil
}

// GetRun returns the run with the given ID.
func (h *HistoryDB) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	record, err := scanRun(h.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListFiles returns every file with recorded runs, ordered by path.
func (h *HistoryDB) ListFiles(ctx context.Context) ([]FileSummary, error) {
	query := `
	SELECT source_path, COUNT(*), MAX(started_at)
	FROM runs
	GROUP BY source_path
	ORDER BY source_path
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []FileSummary
	for rows.Next() {
		var f FileSummary
		var last string
		if err := rows.Scan(&f.SourcePath, &f.Runs, &last); err != nil {
			return nil, fmt.Errorf("failed to scan file summary: %w", err)
		}
		f.LastRun = parseTimestamp(last)
		files = append(files, f)
	}
	return files, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (RunRecord, error) {
	var r RunRecord
	var id, startedAt, chartsJSON, profileJSON string

	err := s.Scan(
		&id,
		&r.SourcePath,
		&r.Fingerprint,
		&startedAt,
		&r.RowsLoaded,
		&r.Columns,
		&r.RowsFinal,
		&r.MissingCells,
		&r.DuplicateRows,
		&r.DroppedRows,
		&r.CleanedPath,
		&chartsJSON,
		&profileJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("failed to scan run: %w", err)
	}

	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("failed to parse run ID %q: %w", id, err)
	}
	r.StartedAt = parseTimestamp(startedAt)
	if err := json.Unmarshal([]byte(chartsJSON), &r.Charts); err != nil {
		return r, fmt.Errorf("failed to parse charts: %w", err)
	}
	r.Profile = &profile.Profile{}
	if err := json.Unmarshal([]byte(profileJSON), r.Profile); err != nil {
		return r, fmt.Errorf("failed to parse profile: %w", err)
	}
	return r, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
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
