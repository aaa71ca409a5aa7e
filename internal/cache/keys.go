package cache

import (
	"fmt"

	"github.com/google/uuid"
)

const keyPrefix = "minutes"

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("%s:job:%s:status", keyPrefix, jobID)
}
