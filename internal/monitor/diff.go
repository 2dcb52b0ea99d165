package monitor

// diffKeys computes the two halves of the symmetric difference between
// the key sets of previous and current: keys only in current (created)
// and keys only in previous (ended). Both watchers reduce every poll to
// this one primitive. Iteration order is map order, i.e. unspecified.
func diffKeys[K comparable, V any](previous, current map[K]V) (created, ended []K) {
	for k := range current {
		if _, ok := previous[k]; !ok {
			created = append(created, k)
		}
	}
	for k := range previous {
		if _, ok := current[k]; !ok {
			ended = append(ended, k)
		}
	}
	return created, ended
}
