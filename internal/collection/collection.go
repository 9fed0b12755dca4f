// Package collection holds small generic slice helpers.
package collection

// FirstDuplicate reports the first element that was already seen earlier in s.
func FirstDuplicate[T comparable](s []T) (T, bool) {
	seen := make(map[T]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return v, true
		}
		seen[v] = struct{}{}
	}
	var zero T
	return zero, false
}

// Unique returns a new slice keeping the first occurrence of every element.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// RemoveAll returns a new slice without any occurrence of v.
func RemoveAll[T comparable](s []T, v T) []T {
	out := make([]T, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
