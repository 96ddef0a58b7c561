package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// PhaseResult is reported for every phase that started. Detail carries the
// phase's own result document.
type PhaseResult struct {
	Phase      Phase           `json:"phase"`
	Success    bool            `json:"success"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	DurationMs int64           `json:"duration_ms"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type Summary struct {
	RunID      string        `json:"run_id"`
	Status     string        `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Phases     []PhaseResult `json:"phases"`
	// Skipped lists phases that did not start because an earlier phase failed.
	Skipped []Phase `json:"skipped,omitempty"`
}

func (s Summary) Success() bool {
	return s.Status == RunStatusSucceeded
}

// FailedPhase returns the phase that stopped the run, if any.
func (s Summary) FailedPhase() (PhaseResult, bool) {
	for _, result := range s.Phases {
		if !result.Success {
			return result, true
		}
	}
	return PhaseResult{}, false
}

// Run is the persisted record of one pipeline run.
type Run struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	RunID      string         `gorm:"column:run_id;type:varchar(26);not null;uniqueIndex" json:"run_id"`
	Status     string         `gorm:"column:status;type:varchar(20);not null" json:"status"`
	StartedAt  time.Time      `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null" json:"finished_at"`
	Summary    datatypes.JSON `gorm:"column:summary;not null" json:"summary"`
}

func (Run) TableName() string { return "etl_runs" }
