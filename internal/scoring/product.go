package scoring

import "fmt"

// Product is an inert value object: a priced SKU with a feature vector.
// It has no lifecycle beyond construction and being read.
type Product struct {
	SKU      string    `json:"sku"`
	Category int       `json:"category"`
	Price    float64   `json:"price"`
	Features []float64 `json:"features"`
}

// Validate checks the basic shape of a product. Feature-length checks against
// a customer happen at evaluation time.
func (p Product) Validate() error {
	if p.SKU == "" {
		return fmt.Errorf("%w: sku required", ErrInvalidParameter)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive, got %v", ErrInvalidParameter, p.Price)
	}
	if len(p.Features) == 0 {
		return fmt.Errorf("%w: features required", ErrInvalidParameter)
	}
	for i, f := range p.Features {
		if f < 0 {
			return fmt.Errorf("%w: feature %d is negative", ErrInvalidParameter, i)
		}
	}
	return nil
}
