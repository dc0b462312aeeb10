package daq

import "sort"

// TrimEarlier returns the suffix of an ascending sorted slice holding only
// the values not strictly less than threshold.
func TrimEarlier(values []float64, threshold float64) []float64 {
	return values[cutIndex(values, threshold):]
}

// TrimBefore applies the same cut TrimEarlier would compute from times to
// both times and a value slice aligned with it by index.
func TrimBefore(times, values []float64, threshold float64) ([]float64, []float64) {
	cut := cutIndex(times, threshold)
	return times[cut:], values[cut:]
}

func cutIndex(sorted []float64, threshold float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] >= threshold })
}
