// Package orchestration owns the planning workflow state machine. The
// controller sequences location acquisition, weather retrieval, and
// simulation submission, enforces the preconditions guarding each
// transition, maps backend failures to user-facing error states, and exposes
// the current state to the presentation layer through immutable snapshots.
//
// The controller is the sole owner of the workflow state and all current
// parameter values; presentation surfaces interact with it exclusively
// through its intent methods and never hold back-references to the adapters.
package orchestration
