package models_test

import (
	"testing"

	"github.com/kiranshivaraju/minutes/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status      models.Status
		processable bool
		inFlight    bool
	}{
		{models.JobStatusUploaded, true, false},
		{models.JobStatusTranscribing, false, true},
		{models.JobStatusExtracting, false, true},
		{models.JobStatusCompleted, false, false},
		{models.JobStatusError, true, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.processable, tt.status.Processable())
			assert.Equal(t, tt.inFlight, tt.status.InFlight())
		})
	}
}
