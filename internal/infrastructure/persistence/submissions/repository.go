// Package submissions persists questionnaire records into the hosted
// submissions store, upserting on run identity.
package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/database"
)

// Repository reads and writes signup_submissions rows.
type Repository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewRepository creates a submissions repository.
func NewRepository(db *database.DB, logger *logging.ChanneledLogger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Upsert writes a full or partial record, inserting on first contact with a
// run id and updating only the record's own columns afterwards. The record
// must carry run_id.
func (r *Repository) Upsert(ctx context.Context, rec forms.Record) error {
	runID, ok := rec["run_id"].(string)
	if !ok || runID == "" {
		return fmt.Errorf("record is missing run_id")
	}

	columns := make([]string, 0, len(rec))
	for col := range rec {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	var updates []string
	for i, col := range columns {
		placeholders[i] = "?"
		encoded, err := encodeValue(rec[col])
		if err != nil {
			return fmt.Errorf("failed to encode column %s: %w", col, err)
		}
		args[i] = encoded
		if col != "run_id" {
			updates = append(updates, col+" = excluded."+col)
		}
	}

	query := fmt.Sprintf(
		`INSERT INTO signup_submissions (%s) VALUES (%s) ON CONFLICT(run_id) DO UPDATE SET %s`,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	if duration > database.GetSlowQueryThreshold() {
		r.logger.LogSlowQuery(query, duration)
	}
	if err != nil {
		r.logger.Database().Error("Submission upsert failed",
			"runId", runID, "columns", len(columns), "error", err.Error())
		return fmt.Errorf("failed to upsert submission: %w", err)
	}

	r.logger.Database().Debug("Submission upserted",
		"runId", runID, "columns", len(columns), "duration", duration)
	return nil
}

// FindByRunID returns one submission row as a column map.
func (r *Repository) FindByRunID(ctx context.Context, runID string) (map[string]any, error) {
	const query = `SELECT * FROM signup_submissions WHERE run_id = ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}
	defer rows.Close()

	if duration := time.Since(start); duration > database.GetSlowQueryThreshold() {
		r.logger.LogSlowQuery(query, duration)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return scanRowMap(rows)
}

// List returns submissions ordered newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	const query = `SELECT * FROM signup_submissions ORDER BY updated_at DESC LIMIT ? OFFSET ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	if duration := time.Since(start); duration > database.GetSlowQueryThreshold() {
		r.logger.LogSlowQuery(query, duration)
	}

	var out []map[string]any
	for rows.Next() {
		row, err := scanRowMap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the number of stored submissions.
func (r *Repository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM signup_submissions`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// encodeValue maps a record value onto its SQL shape. Lists and maps are
// stored as JSON text.
func encodeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int64, float64:
		return val, nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
}

// scanRowMap reads the current row into a column map, normalizing []byte
// values to strings.
func scanRowMap(rows *sql.Rows) (map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(columns))
	for i, col := range columns {
		switch v := values[i].(type) {
		case []byte:
			row[col] = string(v)
		case time.Time:
			row[col] = v.UTC().Format(time.RFC3339)
		default:
			row[col] = v
		}
	}
	return row, nil
}
