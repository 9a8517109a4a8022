package executor

import (
	"errors"
	"time"
)

// Status is the terminal state of one invocation node.
type Status int

const (
	// StatusRan means the body was invoked and returned successfully.
	StatusRan Status = iota
	// StatusSkipped means a check reported the end state already achieved;
	// the body was never invoked.
	StatusSkipped
	// StatusFailed means a check raised or the body returned an error.
	StatusFailed
	// StatusBlocked means an upstream node failed or was blocked; the body
	// was never invoked.
	StatusBlocked
)

// String returns the lowercase rendering used in logs and summaries.
func (s Status) String() string {
	switch s {
	case StatusRan:
		return "ran"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Record holds the run-time facts for one invocation node. Records persist
// only for the session that produced them.
type Record struct {
	// NodeID is the graph node this record belongs to.
	NodeID string
	// Task is the name of the underlying task definition.
	Task string
	// Status is the node's terminal state.
	Status Status
	// Err carries the failure for failed nodes and the blocking reason for
	// blocked ones. Nil for ran and skipped.
	Err error
	// Duration is how long the body ran. Zero unless the body was invoked.
	Duration time.Duration
}

// ErrCheckEvaluation marks a node whose check predicate raised while being
// evaluated. The node counts as failed, not skipped.
var ErrCheckEvaluation = errors.New("check evaluation failed")

// ErrBlocked marks a node that was never attempted because a predecessor
// failed.
var ErrBlocked = errors.New("blocked by upstream failure")

// ErrAborted marks nodes never attempted because an earlier failure aborted
// the session under fail-fast.
var ErrAborted = errors.New("run aborted after earlier failure")

// AnyFailed reports whether the record set contains a failure. Blocked nodes
// count: they represent work that could not proceed.
func AnyFailed(records []Record) bool {
	for _, r := range records {
		if r.Status == StatusFailed || r.Status == StatusBlocked {
			return true
		}
	}
	return false
}
