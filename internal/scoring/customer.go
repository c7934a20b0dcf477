package scoring

import "fmt"

// Customer holds the static taste parameters and the purchase memory for one
// simulated shopper. Memory is the only mutable state; it is owned by the
// Customer and grows only through Record. A Customer is not safe for
// concurrent use — callers sharing one across goroutines must serialize
// read-then-append per customer.
type Customer struct {
	Preferences      []float64
	MaxDistance      float64
	PriceSensitivity float64
	Memory           Memory
}

// NewCustomer validates the static parameters and returns a customer with an
// empty memory. Non-positive maxDistance or priceSensitivity and empty
// preferences are fatal here; everything downstream divides by them.
func NewCustomer(preferences []float64, maxDistance, priceSensitivity float64) (*Customer, error) {
	if len(preferences) == 0 {
		return nil, fmt.Errorf("%w: preferences required", ErrInvalidParameter)
	}
	for i, p := range preferences {
		if p < 0 {
			return nil, fmt.Errorf("%w: preference %d is negative", ErrInvalidParameter, i)
		}
	}
	if maxDistance <= 0 {
		return nil, fmt.Errorf("%w: max_distance must be positive, got %v", ErrInvalidParameter, maxDistance)
	}
	if priceSensitivity <= 0 {
		return nil, fmt.Errorf("%w: price_sensitivity must be positive, got %v", ErrInvalidParameter, priceSensitivity)
	}
	return &Customer{
		Preferences:      preferences,
		MaxDistance:      maxDistance,
		PriceSensitivity: priceSensitivity,
		Memory:           make(Memory),
	}, nil
}

// Record appends the product's price and features to the customer's memory
// under (category, sku). Append-only; existing history is never reordered
// or shrunk.
func (c *Customer) Record(p Product) {
	features := make([]float64, len(p.Features))
	copy(features, p.Features)
	c.Memory.append(p.Category, p.SKU, Observation{Price: p.Price, Features: features})
}

// HistoryLen reports how many observations exist for (category, sku).
func (c *Customer) HistoryLen(category int, sku string) int {
	return len(c.Memory[category][sku])
}

// value is the feature-match value: 1 at a perfect preference match, falling
// linearly with L1 distance. It goes negative once distance exceeds
// MaxDistance; calibration clamps its own copy (see clamp01 use in Engine).
func (c *Customer) value(features []float64) float64 {
	return 1.0 - l1Distance(c.Preferences, features)/c.MaxDistance
}
