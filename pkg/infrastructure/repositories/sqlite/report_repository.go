package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS inspection_reports (
	id TEXT PRIMARY KEY,
	part_number TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	has_outstanding_nok INTEGER NOT NULL DEFAULT 0,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON inspection_reports(generated_at);
CREATE INDEX IF NOT EXISTS idx_reports_part_number ON inspection_reports(part_number);
`

// timestampLayout is fixed width so generated_at sorts as text
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// ReportRepository archives reports in a SQLite database. The full report is
// stored as JSON next to the columns used for listing.
type ReportRepository struct {
	db   *sql.DB
	path string
}

// Verify interface compliance
var _ repositories.ReportRepository = (*ReportRepository)(nil)

// Open creates or opens the archive at path
func Open(path string) (*ReportRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report archive: %w", err)
	}
	// single writer keeps sqlite from returning SQLITE_BUSY under the batch command
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &ReportRepository{db: db, path: path}, nil
}

// Close closes the database connection
func (r *ReportRepository) Close() error {
	return r.db.Close()
}

// Path returns the database file path
func (r *ReportRepository) Path() string {
	return r.path
}

// SaveReport inserts or replaces a report
func (r *ReportRepository) SaveReport(ctx context.Context, report *entities.InspectionReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if report.ID == "" {
		return fmt.Errorf("report ID cannot be empty")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", report.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO inspection_reports (id, part_number, generated_at, has_outstanding_nok, payload)
		VALUES (?, ?, ?, ?, ?)`,
		report.ID,
		report.Header.PartNumber,
		report.GeneratedAt.UTC().Format(timestampLayout),
		boolToInt(report.HasOutstandingNok),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport loads a report by ID
func (r *ReportRepository) GetReport(ctx context.Context, id string) (*entities.InspectionReport, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM inspection_reports WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repositories.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}

	var report entities.InspectionReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// ListReports returns listings of all archived reports, newest first
func (r *ReportRepository) ListReports(ctx context.Context) ([]repositories.ReportListing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, part_number, generated_at, has_outstanding_nok
		FROM inspection_reports
		ORDER BY generated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var listings []repositories.ReportListing
	for rows.Next() {
		var (
			l           repositories.ReportListing
			generatedAt string
			nok         int
		)
		if err := rows.Scan(&l.ID, &l.PartNumber, &generatedAt, &nok); err != nil {
			return nil, fmt.Errorf("failed to scan report listing: %w", err)
		}
		l.HasOutstandingNok = nok != 0
		l.GeneratedAt, err = time.Parse(timestampLayout, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("report %s has malformed timestamp %q: %w", l.ID, generatedAt, err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
