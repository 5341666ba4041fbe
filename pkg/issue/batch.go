package issue

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of one record
type Status string

const (
	StatusCreated Status = "created"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// RecordResult represents the outcome of one CSV record
type RecordResult struct {
	Index     int       `json:"index"`
	Line      int       `json:"line"`
	Title     string    `json:"title"`
	Command   []string  `json:"command"`
	Status    Status    `json:"status"`
	ExitCode  int       `json:"exit_code"`
	Stdout    string    `json:"stdout,omitempty"`
	Stderr    string    `json:"stderr,omitempty"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorType ErrorType `json:"-"`
}

// BatchResult represents the result of batch issue creation
type BatchResult struct {
	RunID      string         `json:"run_id"`
	Repository string         `json:"repository"`
	Source     string         `json:"source"`
	DryRun     bool           `json:"dry_run,omitempty"`
	Total      int            `json:"total"`
	Succeeded  int            `json:"succeeded"`
	Failed     int            `json:"failed"`
	Skipped    int            `json:"skipped,omitempty"`
	Records    []RecordResult `json:"records"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// NewBatchResult starts a new batch for the given repository and CSV file
func NewBatchResult(repo, source string) *BatchResult {
	return &BatchResult{
		RunID:      uuid.NewString(),
		Repository: repo,
		Source:     source,
		Records:    []RecordResult{},
		StartedAt:  time.Now(),
	}
}

// Add records the outcome of one CSV record
func (b *BatchResult) Add(r RecordResult) {
	b.Total++
	switch r.Status {
	case StatusCreated:
		b.Succeeded++
	case StatusFailed:
		b.Failed++
	case StatusSkipped:
		b.Skipped++
	}
	b.Records = append(b.Records, r)
}

// Finish stamps the end time of the batch
func (b *BatchResult) Finish() {
	b.FinishedAt = time.Now()
}

// Duration returns how long the batch took
func (b *BatchResult) Duration() time.Duration {
	if b.FinishedAt.IsZero() {
		return time.Since(b.StartedAt)
	}
	return b.FinishedAt.Sub(b.StartedAt)
}

// Failures returns the failed records
func (b *BatchResult) Failures() []RecordResult {
	var failed []RecordResult
	for _, r := range b.Records {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// issueURL returns the first URL line printed by gh issue create
func issueURL(stdout string) string {
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "https://") || strings.HasPrefix(line, "http://") {
			return line
		}
	}
	return ""
}
