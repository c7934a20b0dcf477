package scoring

// Observation is one remembered sighting of a product: the price it carried
// and the features it had at the time.
type Observation struct {
	Price    float64   `json:"price"`
	Features []float64 `json:"features"`
}

// Memory is a customer's purchase memory: category → SKU → observation
// history in insertion order. Histories only grow; nothing is evicted.
type Memory map[int]map[string][]Observation

// ReferenceSource names how a reference history was resolved.
type ReferenceSource string

const (
	// ReferenceExact means the customer has seen this exact SKU before.
	ReferenceExact ReferenceSource = "exact"
	// ReferenceSimilar means a feature-similar SKU in the same category stood in.
	ReferenceSimilar ReferenceSource = "similar"
	// ReferenceNone means no usable history exists; scoring falls back to value only.
	ReferenceNone ReferenceSource = "none"
)

// append records an observation under (category, sku), creating the nested
// maps on first sight.
func (m Memory) append(category int, sku string, obs Observation) {
	bySKU, ok := m[category]
	if !ok {
		bySKU = make(map[string][]Observation)
		m[category] = bySKU
	}
	bySKU[sku] = append(bySKU[sku], obs)
}

// resolve finds the reference history for a product: the exact SKU's history
// if the customer has seen it, otherwise the most feature-similar SKU in the
// same category whose similarity clears the threshold.
func (m Memory) resolve(p Product, maxDistance, similarityThreshold float64) ([]Observation, ReferenceSource) {
	bySKU := m[p.Category]
	if len(bySKU) == 0 {
		return nil, ReferenceNone
	}
	if history := bySKU[p.SKU]; len(history) > 0 {
		return history, ReferenceExact
	}

	bestSimilarity := -1.0
	var bestSKU string
	for sku, history := range bySKU {
		for _, obs := range history {
			if len(obs.Features) != len(p.Features) {
				continue
			}
			similarity := 1.0 - l1Distance(p.Features, obs.Features)/maxDistance
			if similarity >= similarityThreshold && similarity > bestSimilarity {
				bestSimilarity = similarity
				bestSKU = sku
			}
		}
	}
	if bestSKU == "" {
		return nil, ReferenceNone
	}
	return bySKU[bestSKU], ReferenceSimilar
}

func l1Distance(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		d += diff
	}
	return d
}
