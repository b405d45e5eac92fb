// Package status validates lifecycle moves between enumerated statuses.
package status

import (
	"slices"

	"hotel/shared/failure"
)

// Transitions maps a status to the statuses it may move to. A status with no
// entry is terminal.
type Transitions map[string][]string

func (t Transitions) Allows(from, to string) bool {
	return slices.Contains(t[from], to)
}

// Check returns a conflict failure when from cannot move to to.
func (t Transitions) Check(entity, from, to string) error {
	if t.Allows(from, to) {
		return nil
	}

	return failure.Conflictf("%s cannot move from %s to %s", entity, from, to) //nolint:wrapcheck
}

// Next lists the statuses reachable from from.
func (t Transitions) Next(from string) []string {
	return slices.Clone(t[from])
}
