package common

// Set builds a membership set from the given values.
func Set[E comparable](values ...E) map[E]struct{} {
	set := make(map[E]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}
