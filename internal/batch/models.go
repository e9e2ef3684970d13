package batch

import "time"

// Phase represents the lifecycle stage of the active batch.
type Phase string

const (
	PhaseInput      Phase = "input"
	PhaseReview     Phase = "review"
	PhaseProcessing Phase = "processing"
	PhaseComplete   Phase = "complete"
)

var allPhases = []Phase{PhaseInput, PhaseReview, PhaseProcessing, PhaseComplete}

// Valid reports whether p is a known phase value.
func (p Phase) Valid() bool {
	for _, known := range allPhases {
		if p == known {
			return true
		}
	}
	return false
}

// Item is a single video queued for review and processing.
type Item struct {
	ID           int64
	BatchID      string
	Position     int
	VideoID      string
	URL          string
	Title        string
	Author       string
	Topic        string
	Year         string
	Selected     bool
	MetadataJSON string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResultStatus classifies the outcome of processing one item.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
	StatusSkipped ResultStatus = "skipped"
)

// Result records the outcome of processing a single item.
type Result struct {
	ID        int64
	BatchID   string
	ItemID    int64
	VideoID   string
	URL       string
	Title     string
	Status    ResultStatus
	Message   string
	Files     []string
	CreatedAt time.Time
}

// Summary aggregates result counts for a batch run.
type Summary struct {
	Success int
	Errors  int
	Skipped int
}

// Total returns the number of items that produced a result.
func (s Summary) Total() int {
	return s.Success + s.Errors + s.Skipped
}

func (s *Summary) add(status ResultStatus) {
	switch status {
	case StatusSuccess:
		s.Success++
	case StatusError:
		s.Errors++
	case StatusSkipped:
		s.Skipped++
	}
}
