package brackets

import "math/rand/v2"

// Pairs returns every unordered pair {items[i], items[j]} with i < j, in list
// order: (0,1), (0,2), ..., (1,2), ...
func Pairs[T any](items []T) [][2]T {
	n := len(items)
	if n < 2 {
		return nil
	}
	pairs := make([][2]T, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]T{items[i], items[j]})
		}
	}
	return pairs
}

// Shuffle returns a uniformly shuffled copy of items (Fisher-Yates).
// The input slice is not modified.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
