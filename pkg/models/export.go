package models

import (
	"time"

	"github.com/google/uuid"
)

// ExportRecord is one rendered report as archived at export time.
type ExportRecord struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	JobID      uuid.UUID `db:"job_id"      json:"job_id"`
	SourceName string    `db:"source_name" json:"filename"`
	Markdown   string    `db:"markdown"    json:"markdown"`
	Confirmed  bool      `db:"confirmed"   json:"confirmed"`
	ExportedAt time.Time `db:"exported_at" json:"exported_at"`
}
