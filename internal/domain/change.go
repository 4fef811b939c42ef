package domain

import "time"

// ChangeType is the kind of row change pushed on the realtime feed.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent notifies subscribers that a row in Table changed.
// It carries no row data; listeners re-fetch.
type ChangeEvent struct {
	Table           string     `json:"table"`
	Type            ChangeType `json:"type"`
	RecordID        string     `json:"record_id"`
	CommitTimestamp time.Time  `json:"commit_timestamp"`
}
