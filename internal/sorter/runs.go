package sorter

// FoldRuns walks items once and splits them into maximal runs of equal keys.
// boundary is called with the key at the start of every run, including the
// first one; each is then called for the item itself.
//
// The first boundary is unconditional: no zero-value key can be mistaken for
// the previous run, so an empty key on the first item still opens a run.
func FoldRuns[T any, K comparable](items []T, key func(T) K, boundary func(K), each func(T)) {
	var (
		last    K
		started bool
	)
	for _, item := range items {
		k := key(item)
		if !started || k != last {
			boundary(k)
			last = k
			started = true
		}
		each(item)
	}
}
