package internal

// SliceText returns text[start:end] with both bounds clamped to the string.
// An inverted range yields the empty string instead of panicking.
func SliceText(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}

// UniqueOrdered returns the distinct values of s in first-seen order.
func UniqueOrdered[T comparable](s []T) []T {
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
