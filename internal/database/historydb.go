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

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wpanalyzer/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "wpanalyzer.db"

// timestampLayout is fixed-width so stored timestamps sort as text.
const timestampLayout = "2006-01-02 15:04:05.000000"

// HistoryDB provides SQLite-based storage for analysis runs.
type HistoryDB struct {
	db     *sql.DB
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

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run an analysis first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
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

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		digest TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		items INTEGER DEFAULT 0,
		census_json TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON analysis_runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON analysis_runs(digest);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON analysis_runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata summarizes a stored run without the full report.
type RunMetadata struct {
	// ID is the run UUID.
	ID string

	// Source is the export path that was analyzed.
	Source string

	// Digest identifies the export content.
	Digest string

	// Timestamp is when the analysis ran.
	Timestamp time.Time

	// Items is the number of items in the export.
	Items int

	// Census is the post-type census; empty if the run did not compute one.
	Census model.PostTypeCensus
}

// SaveAnalysis stores report and returns the new run ID.
func (hdb *HistoryDB) SaveAnalysis(ctx context.Context, report *model.AnalysisReport) (string, error) {
	if report.Error != nil && report.ErrorMessage == "" {
		report.ErrorMessage = report.Error.Error()
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	census := report.PostTypes
	if census == nil {
		census = model.PostTypeCensus{}
	}
	censusJSON, err := json.Marshal(census)
	if err != nil {
		return "", fmt.Errorf("failed to serialize census: %w", err)
	}

	id := uuid.NewString()
	query := `
	INSERT INTO analysis_runs (id, source, digest, timestamp, items, census_json, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		id,
		report.Source,
		report.Digest,
		report.AnalyzedAt.UTC().Format(timestampLayout),
		report.Stats.Items,
		string(censusJSON),
		string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}

	return id, nil
}

// ListSources returns every analyzed export path in ascending order.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM analysis_runs
	ORDER BY source
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// GetHistory returns the runs for source, newest first.
func (hdb *HistoryDB) GetHistory(ctx context.Context, source string) ([]RunMetadata, error) {
	query := `
	SELECT id, source, digest, timestamp, items, census_json
	FROM analysis_runs
	WHERE source = ?
	ORDER BY timestamp DESC, rowid DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var censusJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Source, &meta.Digest, &timestamp, &meta.Items, &censusJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.Census = model.PostTypeCensus{}
		if censusJSON.Valid && censusJSON.String != "" {
			if err := json.Unmarshal([]byte(censusJSON.String), &meta.Census); err != nil {
				meta.Census = model.PostTypeCensus{}
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetAnalysisByID returns the stored report of run id, or nil if there is
// no such run.
func (hdb *HistoryDB) GetAnalysisByID(ctx context.Context, id string) (*model.AnalysisReport, error) {
	query := `
	SELECT report_json FROM analysis_runs
	WHERE id = ?
	`
	return hdb.queryReport(ctx, query, id)
}

// GetLatest returns the newest stored report for source, or nil.
func (hdb *HistoryDB) GetLatest(ctx context.Context, source string) (*model.AnalysisReport, error) {
	query := `
	SELECT report_json FROM analysis_runs
	WHERE source = ?
	ORDER BY timestamp DESC, rowid DESC
	LIMIT 1
	`
	return hdb.queryReport(ctx, query, source)
}

// FindByDigest returns the newest run of any source whose export had the
// given digest, or nil.
func (hdb *HistoryDB) FindByDigest(ctx context.Context, digest string) (*RunMetadata, error) {
	query := `
	SELECT id, source, timestamp, items
	FROM analysis_runs
	WHERE digest = ?
	ORDER BY timestamp DESC, rowid DESC
	LIMIT 1
	`

	meta := RunMetadata{Digest: digest}
	var timestamp string
	err := hdb.db.QueryRowContext(ctx, query, digest).Scan(&meta.ID, &meta.Source, &timestamp, &meta.Items)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run by digest: %w", err)
	}
	meta.Timestamp = parseTimestamp(timestamp)
	return &meta, nil
}

func (hdb *HistoryDB) queryReport(ctx context.Context, query string, arg any) (*model.AnalysisReport, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, arg).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// timestampFormats lists the layouts a stored timestamp may use.
// More specific formats come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp tries each known layout and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
