package scoring

import "errors"

var (
	// ErrDimensionMismatch is returned when a product's feature vector and a
	// customer's preference vector have different lengths. The call fails;
	// the caller can retry with corrected input.
	ErrDimensionMismatch = errors.New("feature vector length does not match preferences")

	// ErrInvalidParameter is returned at construction time for non-positive
	// max_distance or price_sensitivity, or for invalid engine tunables.
	ErrInvalidParameter = errors.New("invalid parameter")
)
