package importlog

import "time"

// Entry is the audit record of one import commit.
type Entry struct {
	ID           string
	TableKey     string
	FileName     string
	TotalRows    int
	CreatedCount int
	UpdatedCount int
	FailedCount  int
	ImportedBy   string
	CreatedAt    time.Time
}
