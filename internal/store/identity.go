package store

import (
	"time"

	"github.com/google/uuid"
)

// ensureID assigns a fresh UUID when the caller did not provide one.
// Callers that import records from external feeds keep their own IDs.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// touch stamps the audit timestamps. CreatedAt is preserved once set.
func touch(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
