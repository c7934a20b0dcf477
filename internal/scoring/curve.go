package scoring

// DefaultCurvePoints bounds the diagnostic sweep when the caller does not
// choose a point count.
const DefaultCurvePoints = 100

// CurvePoint is one sample of the price → score curve.
type CurvePoint struct {
	Price float64 `json:"price"`
	Score float64 `json:"score"`
}

// sweepCurve re-runs the pipeline across a price range for visualization.
// The range spans 50%–200% of the reference price, or of the asked price when
// no reference exists. Memory is never mutated here.
func (e *Engine) sweepCurve(c *Customer, p Product, base Result, points int) []CurvePoint {
	if points < 2 {
		points = DefaultCurvePoints
	}
	anchor := base.ReferencePrice
	if base.ReferenceSource == ReferenceNone {
		anchor = p.Price
	}
	low, high := anchor*0.5, anchor*2.0

	curve := make([]CurvePoint, points)
	step := (high - low) / float64(points-1)
	for i := range curve {
		price := low + step*float64(i)
		probe := p
		probe.Price = price
		r := e.scoreOnce(c, probe)
		curve[i] = CurvePoint{Price: price, Score: r.Score}
	}
	return curve
}
