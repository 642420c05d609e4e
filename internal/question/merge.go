package question

import (
	"fmt"
	"time"
)

// Strategy governs what happens when an incoming candidate collides with
// an existing question.
type Strategy string

const (
	// StrategySkip keeps the existing question and drops the candidate.
	StrategySkip Strategy = "skip"
	// StrategyOverwrite folds the candidate into the existing question,
	// preserving its identifier.
	StrategyOverwrite Strategy = "overwrite"
	// StrategyForce always persists the candidate as a new question,
	// even when a duplicate exists.
	StrategyForce Strategy = "force"
)

// ParseStrategy validates a strategy value; the empty string defaults to
// skip, the safest policy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategySkip, nil
	case StrategySkip, StrategyOverwrite, StrategyForce:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown merge strategy %q", s)
	}
}

// Action is the merge engine's decision for one candidate.
type Action string

const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped"
)

// ApplyStrategy decides the outcome for a candidate given the duplicate
// resolver's result (existing may be nil) and a merge strategy. It
// returns the question to persist, or nil when the candidate is skipped.
// newID supplies the identifier for questions persisted as new.
//
//	strategy   | duplicate present       | no duplicate
//	-----------+-------------------------+--------------
//	skip       | nil, skipped            | new, added
//	overwrite  | merged (same ID), updated | new, added
//	force      | new, added              | new, added
func ApplyStrategy(c Candidate, existing *Question, strategy Strategy, newID string, now time.Time) (*Question, Action) {
	if existing == nil || strategy == StrategyForce {
		q := FromCandidate(c, newID, now)
		return &q, ActionAdded
	}

	switch strategy {
	case StrategyOverwrite:
		merged := existing.Merge(c, now)
		return &merged, ActionUpdated
	default: // StrategySkip
		return nil, ActionSkipped
	}
}
