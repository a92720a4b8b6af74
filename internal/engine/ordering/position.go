// Package ordering computes ordinal positions for sibling entities (lists
// on a board, tasks in a list). It is pure: callers persist whatever it
// returns, and a bad reorder request is rejected before any write happens.
package ordering

import "fmt"

// InvalidOrderingError reports a reorder request whose ID list is not a
// permutation of the sibling set.
type InvalidOrderingError struct {
	Reason string
	ID     string
}

func (e *InvalidOrderingError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid ordering: %s", e.Reason)
	}
	return fmt.Sprintf("invalid ordering: %s (%s)", e.Reason, e.ID)
}

// NextPosition returns the position for an entity appended to a sibling
// set: max(existing)+1, or 0 when the set is empty. Appends therefore yield
// strictly increasing positions in call order.
func NextPosition(positions []int) int {
	if len(positions) == 0 {
		return 0
	}
	max := positions[0]
	for _, p := range positions[1:] {
		if p > max {
			max = p
		}
	}
	return max + 1
}

// Renumber assigns each sibling a fresh position equal to its index in
// orderedIDs. The request must be an exact permutation of existingIDs;
// duplicates, unknown IDs, or missing IDs are rejected so no partial state
// change can occur. Prior position values are irrelevant, which also makes
// renumbering immune to collisions left behind by earlier writers.
func Renumber(orderedIDs, existingIDs []string) (map[string]int, error) {
	if len(orderedIDs) != len(existingIDs) {
		return nil, &InvalidOrderingError{
			Reason: fmt.Sprintf("expected %d ids, got %d", len(existingIDs), len(orderedIDs)),
		}
	}

	existing := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	positions := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		if !existing[id] {
			return nil, &InvalidOrderingError{Reason: "unknown id", ID: id}
		}
		if _, seen := positions[id]; seen {
			return nil, &InvalidOrderingError{Reason: "duplicate id", ID: id}
		}
		positions[id] = i
	}
	return positions, nil
}
