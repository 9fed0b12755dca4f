package depend

import (
	"fmt"
	"strings"
)

// CycleDependencyError reports items that can never be ordered because they
// depend on each other, directly or transitively.
type CycleDependencyError struct {
	// Items holds every item left unresolved, in working-list order.
	Items []string
	// Cycle is one closed dependency path among Items, e.g. [x y x].
	Cycle []string
}

func (e *CycleDependencyError) Error() string {
	msg := "cycle depends in: [" + strings.Join(e.Items, ", ") + "]"
	if len(e.Cycle) > 0 {
		msg += " (" + strings.Join(e.Cycle, " -> ") + ")"
	}
	return msg
}

// DuplicateItemError is returned when the working list names an item twice.
type DuplicateItemError struct {
	Item string
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("duplicate item in working list: %s", e.Item)
}
