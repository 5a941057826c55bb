package model

import "time"

// RunStatus tracks a pipeline run through its lifecycle.
type RunStatus string

// Run statuses.
const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one end-to-end pipeline execution recorded in the store.
type Run struct {
	ID        string    `json:"id"`
	City      string    `json:"city"`
	Status    RunStatus `json:"status"`
	Summary   string    `json:"summary,omitempty"` // JSON-encoded IntersectionSummary
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StageStatus tracks a single pipeline stage.
type StageStatus string

// Stage statuses.
const (
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
)

// StageResult summarizes one completed (or failed) stage of a run.
type StageResult struct {
	Name       string         `json:"name"`
	Status     StageStatus    `json:"status"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Stage is the persisted form of a stage execution.
type Stage struct {
	ID        string      `json:"id"`
	RunID     string      `json:"run_id"`
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	Result    string      `json:"result,omitempty"` // JSON-encoded StageResult
	StartedAt time.Time   `json:"started_at"`
}
