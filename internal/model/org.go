package model

import "time"

// Directorate is an organizational unit owning one or more offices.
// Reference data: consumed read-only by the reporting core.
type Directorate struct {
	ID   int64
	Name string
}

// Office is a local accounts office inside a directorate.
type Office struct {
	ID            int64
	DirectorateID int64
	Name          string
}

// BatchStatus tracks the lifecycle of an imported spreadsheet.
type BatchStatus string

const (
	BatchImported BatchStatus = "imported"
	BatchFailed   BatchStatus = "failed"
)

// ImportBatch records one processed spreadsheet file: where it came from,
// which reporting month it covers, and how many rows made it in.
type ImportBatch struct {
	ID          string // uuid
	Number      string // human-readable "YYYY-MM-NNN" sequence
	FileName    string
	Directorate string
	Month       int
	Year        int
	Imported    int
	Skipped     int
	Status      BatchStatus
	CreatedAt   time.Time
}
