package depend

import "github.com/axekit/axe/internal/collection"

// Complete returns items followed by every dependency reachable from them
// through deps, in discovery order. Newly added items are expanded as well.
// Repeated items are kept once, at their first position.
func Complete(items []string, deps Map) []string {
	out := collection.Unique(items)
	seen := make(map[string]struct{}, len(out))
	for _, it := range out {
		seen[it] = struct{}{}
	}
	for i := 0; i < len(out); i++ {
		for _, d := range deps[out[i]] {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// CompleteAndOrder adds the missing transitive dependencies of items and
// orders the result so that the most foundational items come last, which is
// the order linkers expect libraries in.
func CompleteAndOrder(items []string, deps Map) ([]string, error) {
	return Order(Complete(items, deps), deps, Descending)
}
