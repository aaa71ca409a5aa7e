package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// PostgresStore implements the ReportStore interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) SaveExport(ctx context.Context, rec *models.ExportRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO report_exports (id, job_id, source_name, markdown, confirmed, exported_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.JobID, rec.SourceName, rec.Markdown, rec.Confirmed, rec.ExportedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}

// ListExports returns a job's archived exports, newest first.
func (s *PostgresStore) ListExports(ctx context.Context, jobID uuid.UUID) ([]*models.ExportRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, source_name, markdown, confirmed, exported_at
		 FROM report_exports WHERE job_id = $1 ORDER BY exported_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var recs []*models.ExportRecord
	for rows.Next() {
		var r models.ExportRecord
		if err := rows.Scan(&r.ID, &r.JobID, &r.SourceName, &r.Markdown, &r.Confirmed, &r.ExportedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		recs = append(recs, &r)
	}
	return recs, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ ReportStore = (*PostgresStore)(nil)
