package domain

import (
	"github.com/google/uuid"
)

// Stage is a verification pipeline state
type Stage string

// Pipeline stages. The ordering up to StageAggregating is a contract; the
// percentages attached to progress updates are advisory only.
const (
	StageIdle         Stage = "idle"
	StageLocating     Stage = "locating"
	StageLedgerChecks Stage = "ledger-checking"
	StageFiltering    Stage = "filtering"
	StageComparing    Stage = "comparing"
	StageAggregating  Stage = "aggregating"
	StageDone         Stage = "done"
	StageCancelled    Stage = "cancelled"
	StageFailed       Stage = "failed"
)

// Terminal tells whether the stage ends the pipeline
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageCancelled || s == StageFailed
}

// ProgressUpdate is one element of the ordered progress stream of a run
type ProgressUpdate struct {
	Stage   Stage  `json:"stage"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// RunSnapshot is the externally visible state of a verification run
type RunSnapshot struct {
	RunID   uuid.UUID            `json:"runID"`
	Stage   Stage                `json:"stage"`
	Percent int                  `json:"percent"`
	Message string               `json:"message,omitempty"`
	Verdict *VerificationVerdict `json:"verdict,omitempty"`
	Error   string               `json:"error,omitempty"`
}
