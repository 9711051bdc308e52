package business

import "fmt"

// Overlap returns the symmetric overlap of two frequency mappings.
//
// For each direction the shared count is the sum over keys of the minimum of
// both counts, divided by the total of the mapping being iterated. The two
// containment ratios are averaged, so Overlap(a, b) == Overlap(b, a).
//
//	a = {"rewards are": 2}; b = {"rewards are": 1} -> a in b 1/2, b in a 1/1
//
// Both mappings must hold at least one occurrence, otherwise
// ErrEmptyFrequencies is returned.
func Overlap(a, b Frequencies) (float64, error) {
	totalA, totalB := a.Total(), b.Total()
	if totalA == 0 || totalB == 0 {
		return 0, fmt.Errorf("overlap of %d and %d occurrences: %w", totalA, totalB, ErrEmptyFrequencies)
	}

	simA := float64(shared(a, b)) / float64(totalA)
	simB := float64(shared(b, a)) / float64(totalB)
	return (simA + simB) / 2, nil
}

func shared(from, in Frequencies) int {
	same := 0
	for key, count := range from {
		same += min(count, in[key])
	}
	return same
}
