// Package store archives exported reports in Postgres. It is an audit trail
// of what was exported, not the job store.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

var ErrDuplicateKey = errors.New("duplicate key violation")

// ReportStore is the export archive interface.
type ReportStore interface {
	Ping(ctx context.Context) error
	SaveExport(ctx context.Context, rec *models.ExportRecord) error
	ListExports(ctx context.Context, jobID uuid.UUID) ([]*models.ExportRecord, error)
}
