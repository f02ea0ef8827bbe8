package task

import (
	"fmt"
	"strings"

	"github.com/amonks/smarttodo/internal/ids"
)

// IDIndex indexes task IDs for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from a slice of tasks.
func NewIDIndex(tasks []Task) IDIndex {
	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	return IDIndex{ids: taskIDs}
}

// Resolve returns the full task ID for a prefix. An exact match always wins.
func (index IDIndex) Resolve(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrTaskNotFound
	}

	var matches []string
	for _, id := range index.ids {
		lower := strings.ToLower(id)
		if lower == prefix {
			return id, nil
		}
		if strings.HasPrefix(lower, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// PrefixLengths returns the shortest unique prefix length for each ID,
// keyed by lowercased ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengths(index.ids)
}
