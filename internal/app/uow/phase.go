package uow

import "fmt"

// Phase is a unit-of-work lifecycle phase. Phases are ordered; a unit of
// work only moves forward.
type Phase int

const (
	NotStarted Phase = iota
	Started
	PrepareCommit
	Commit
	Rollback
	AfterCommit
	Cleanup
	Closed
)

var phaseNames = [...]string{
	NotStarted:    "not_started",
	Started:       "started",
	PrepareCommit: "prepare_commit",
	Commit:        "commit",
	Rollback:      "rollback",
	AfterCommit:   "after_commit",
	Cleanup:       "cleanup",
	Closed:        "closed",
}

// String implements fmt.Stringer.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Terminal reports whether the unit of work has finished processing.
func (p Phase) Terminal() bool {
	return p >= Cleanup
}
