package scoring

import "sort"

// priceReference derives the anchor price and its relative uncertainty from a
// resolved history: median price and MAD/median. A zero median is reported as
// no reference so no caller ever divides by it.
func priceReference(history []Observation) (ref, relUncertainty float64, ok bool) {
	prices := make([]float64, len(history))
	for i, obs := range history {
		prices[i] = obs.Price
	}
	ref = median(prices)
	if ref == 0 {
		return 0, 0, false
	}
	deviations := make([]float64, len(prices))
	for i, p := range prices {
		d := p - ref
		if d < 0 {
			d = -d
		}
		deviations[i] = d
	}
	mad := median(deviations)
	return ref, mad / ref, true
}

// median uses the standard definition: mean of the two central values for
// even-length input. The input slice is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}
