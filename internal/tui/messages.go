package tui

import (
	"time"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
)

// OpDoneMsg reports the completion of one controller operation. The dashboard
// re-reads the controller snapshot on receipt; the message itself carries only
// enough to drop stale completions after a reset.
type OpDoneMsg struct {
	// Op is the workflow operation that finished.
	Op apperrors.Operation
	// Err is the operation outcome (nil on success).
	Err error
	// Generation identifies the session epoch the operation belongs to.
	Generation uint64
}

// TickMsg drives the elapsed-time display in the header.
type TickMsg time.Time

// ContextCancelledMsg reports that the parent context was cancelled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
