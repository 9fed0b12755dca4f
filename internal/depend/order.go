// Package depend orders items by a hand-written dependency table and fills in
// missing transitive dependencies. It is used to sequence library builds and
// linker flags.
package depend

import (
	"slices"

	"github.com/axekit/axe/internal/collection"
)

// Map maps an item to the items it depends on.
type Map map[string][]string

// Direction selects where dependencies land relative to their dependents.
type Direction int

const (
	// Ascending puts dependencies before their dependents (leaf first).
	Ascending Direction = iota
	// Descending puts dependents before their dependencies (root first).
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Order returns a permutation of items consistent with deps.
//
// Dependencies naming items outside of items are ignored. Every round scans
// the remaining items in their current order and emits each one that has no
// unresolved dependency left; a round that emits nothing fails with
// *CycleDependencyError. Neither items nor deps are modified.
func Order(items []string, deps Map, dir Direction) ([]string, error) {
	if dup, ok := collection.FirstDuplicate(items); ok {
		return nil, &DuplicateItemError{Item: dup}
	}

	pending := prune(items, deps)
	left := slices.Clone(items)
	resolved := make([]string, 0, len(items))
	for len(left) > 0 {
		blocked := make([]string, 0, len(left))
		for _, item := range left {
			if _, ok := pending[item]; ok {
				blocked = append(blocked, item)
				continue
			}
			strip(pending, item)
			resolved = append(resolved, item)
		}
		if len(blocked) == len(left) {
			return nil, &CycleDependencyError{Items: blocked, Cycle: findCycle(blocked, pending)}
		}
		left = blocked
	}

	if dir == Descending {
		slices.Reverse(resolved)
	}
	return resolved, nil
}

// prune copies deps keeping only edges between members of items, without
// duplicates. Entries left empty are dropped.
func prune(items []string, deps Map) map[string][]string {
	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		present[it] = struct{}{}
	}
	out := make(map[string][]string, len(deps))
	for item, ds := range deps {
		if _, ok := present[item]; !ok {
			continue
		}
		kept := make([]string, 0, len(ds))
		for _, d := range collection.Unique(ds) {
			if _, ok := present[d]; ok {
				kept = append(kept, d)
			}
		}
		if len(kept) > 0 {
			out[item] = kept
		}
	}
	return out
}

// strip removes a resolved item from every pending dependency list.
func strip(pending map[string][]string, item string) {
	for k, ds := range pending {
		ds = collection.RemoveAll(ds, item)
		if len(ds) == 0 {
			delete(pending, k)
			continue
		}
		pending[k] = ds
	}
}

// findCycle follows first dependencies from the first blocked item until an
// item repeats. Every blocked item still has a pending dependency on another
// blocked item, so the walk always closes.
func findCycle(blocked []string, pending map[string][]string) []string {
	if len(blocked) == 0 {
		return nil
	}
	index := map[string]int{}
	path := []string{}
	cur := blocked[0]
	for {
		if i, ok := index[cur]; ok {
			return append(path[i:], cur)
		}
		index[cur] = len(path)
		path = append(path, cur)
		ds := pending[cur]
		if len(ds) == 0 {
			return path
		}
		cur = ds[0]
	}
}
