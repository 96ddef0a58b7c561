package domain

import (
	"context"
	"errors"
)

type Service interface {
	// RunOnce executes the configured phases in order and stops at the first
	// failed phase. The summary is returned even when err is non-nil.
	RunOnce(ctx context.Context) (Summary, error)
	// RunPhases is RunOnce with an explicit phase list.
	RunPhases(ctx context.Context, phases []Phase) (Summary, error)
	Latest(ctx context.Context) (*Summary, error)
}

var (
	ErrUnknownPhase   = errors.New("unknown_phase")
	ErrDuplicatePhase = errors.New("duplicate_phase")
	ErrRunInProgress  = errors.New("run_in_progress")
	ErrPhaseFailed    = errors.New("phase_failed")
)
