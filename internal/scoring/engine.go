package scoring

import (
	"fmt"
	"log/slog"
	"math"
)

// Params are the engine tunables shared by every customer.
type Params struct {
	// SimilarityThreshold is the minimum feature similarity for a same-category
	// SKU to stand in as a price reference.
	SimilarityThreshold float64
	// PremiumBudget caps the premium over the reference price for a perfect
	// feature match, divided by the customer's price sensitivity.
	PremiumBudget float64
	// LossAversion is the multiplier on negative feelings: overpriced hurts
	// more than the same underpricing helps.
	LossAversion float64
	// Curvature is the sub-linear exponent applied to the price delta on both
	// sides (diminishing marginal sensitivity).
	Curvature float64
	// SigmoidGain scales the sigmoid steepness together with price sensitivity.
	SigmoidGain float64
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		SimilarityThreshold: 0.80,
		PremiumBudget:       0.6,
		LossAversion:        2.0,
		Curvature:           0.65,
		SigmoidGain:         6.0,
	}
}

// Validate checks that every tunable is usable. Thresholds outside (0,1] or
// non-positive multipliers would silently break the pipeline's guarantees.
func (p Params) Validate() error {
	if p.SimilarityThreshold <= 0 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in (0,1], got %v", ErrInvalidParameter, p.SimilarityThreshold)
	}
	if p.PremiumBudget <= 0 {
		return fmt.Errorf("%w: premium_budget must be positive, got %v", ErrInvalidParameter, p.PremiumBudget)
	}
	if p.LossAversion < 1 {
		return fmt.Errorf("%w: loss_aversion must be >= 1, got %v", ErrInvalidParameter, p.LossAversion)
	}
	if p.Curvature <= 0 || p.Curvature > 1 {
		return fmt.Errorf("%w: curvature must be in (0,1], got %v", ErrInvalidParameter, p.Curvature)
	}
	if p.SigmoidGain <= 0 {
		return fmt.Errorf("%w: sigmoid_gain must be positive, got %v", ErrInvalidParameter, p.SigmoidGain)
	}
	return nil
}

// EvalOptions control the side effects of a single evaluation.
type EvalOptions struct {
	// UpdateMemory appends the candidate to the customer's memory after
	// scoring. Scoring always observes memory as it was before the append.
	UpdateMemory bool
	// EmitCurve sweeps the scoring pipeline across a price range and attaches
	// the resulting curve. Expensive — CurvePoints full pipeline runs — never
	// enable it on a latency-sensitive path.
	EmitCurve   bool
	CurvePoints int
}

// Result is the scored outcome plus the intermediate pipeline values, which
// callers use for diagnostics and charting.
type Result struct {
	Score               float64         `json:"score"`
	Value               float64         `json:"value"`
	ReferenceSource     ReferenceSource `json:"reference_source"`
	ReferencePrice      float64         `json:"reference_price,omitempty"`
	RelativeUncertainty float64         `json:"relative_uncertainty,omitempty"`
	WTP                 float64         `json:"wtp,omitempty"`
	RelativeDelta       float64         `json:"relative_delta,omitempty"`
	Feeling             float64         `json:"feeling"`
	Curve               []CurvePoint    `json:"curve,omitempty"`
}

// Engine runs the acceptance-scoring pipeline: reference-price resolution,
// WTP calibration, tolerance-band suppression, loss-averse feeling transform,
// sigmoid scoring.
type Engine struct {
	params Params
	logger *slog.Logger
}

// NewEngine creates an Engine with the given tunables.
func NewEngine(params Params, logger *slog.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params, logger: logger}, nil
}

// Evaluate scores how acceptable the product's price is to the customer,
// 0–100 with 50 meaning indifference. The only side effect is the optional
// memory append, applied after the score is computed.
func (e *Engine) Evaluate(c *Customer, p Product, opts EvalOptions) (Result, error) {
	if len(p.Features) != len(c.Preferences) {
		return Result{}, fmt.Errorf("%w: got %d features, preferences have %d",
			ErrDimensionMismatch, len(p.Features), len(c.Preferences))
	}

	result := e.scoreOnce(c, p)

	if opts.EmitCurve {
		result.Curve = e.sweepCurve(c, p, result, opts.CurvePoints)
	}
	if opts.UpdateMemory {
		c.Record(p)
	}

	e.logger.Debug("evaluated product",
		"sku", p.SKU,
		"price", p.Price,
		"score", result.Score,
		"reference", result.ReferenceSource,
	)
	return result, nil
}

// scoreOnce runs the pipeline once against the customer's current memory.
// Dimensions are assumed checked.
func (e *Engine) scoreOnce(c *Customer, p Product) Result {
	result := Result{Value: c.value(p.Features)}

	history, source := c.Memory.resolve(p, c.MaxDistance, e.params.SimilarityThreshold)
	result.ReferenceSource = source

	if source != ReferenceNone {
		ref, relUncertainty, ok := priceReference(history)
		if !ok {
			// Degenerate zero-price history; fall back to value-only scoring.
			result.ReferenceSource = ReferenceNone
		} else {
			result.ReferencePrice = ref
			result.RelativeUncertainty = relUncertainty
			result.WTP = e.willingnessToPay(ref, clamp01(result.Value), c.PriceSensitivity)
			result.RelativeDelta = e.toleratedDelta(result.WTP, p.Price, relUncertainty)
			result.Feeling = e.feeling(result.RelativeDelta)
			result.Score = e.sigmoid(result.Feeling, c.PriceSensitivity)
			return result
		}
	}

	// No reference price: score on feature-match value alone, through the
	// same feeling transform and sigmoid so the scale stays comparable.
	result.Feeling = e.feeling(clamp01(result.Value) - 0.5)
	result.Score = e.sigmoid(result.Feeling, c.PriceSensitivity)
	return result
}

// willingnessToPay calibrates a fair price from feature-match value,
// piecewise linear with the pivot at 0.5: a half-matched product is worth
// exactly the reference price, and a perfect match earns a sensitivity-capped
// premium.
func (e *Engine) willingnessToPay(ref, value, sensitivity float64) float64 {
	if value <= 0.5 {
		return ref * (value * 2.0)
	}
	maxPremium := e.params.PremiumBudget / sensitivity
	return ref * (1.0 + maxPremium*(value-0.5))
}

// toleratedDelta is the relative gap between willingness-to-pay and the asked
// price, with gaps inside the uncertainty band suppressed to zero.
func (e *Engine) toleratedDelta(wtp, price, relUncertainty float64) float64 {
	if wtp <= 0 {
		return 0
	}
	delta := (wtp - price) / wtp
	if math.Abs(delta) < relUncertainty {
		return 0
	}
	return delta
}

// feeling applies the asymmetric prospect-theory transform: sub-linear on
// both sides, losses weighted LossAversion times as heavily.
func (e *Engine) feeling(delta float64) float64 {
	if delta >= 0 {
		return math.Pow(delta, e.params.Curvature)
	}
	return -e.params.LossAversion * math.Pow(-delta, e.params.Curvature)
}

// sigmoid compresses a feeling into (0,100); sensitivity steepens the
// transition around feeling = 0.
func (e *Engine) sigmoid(feeling, sensitivity float64) float64 {
	kEff := e.params.SigmoidGain * sensitivity
	return 100.0 / (1.0 + math.Exp(-kEff*feeling))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
