package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/Patron/internal/events"
	"github.com/MikeSquared-Agency/Patron/internal/scoring"
	"github.com/MikeSquared-Agency/Patron/internal/store"
)

type EvaluateRequest struct {
	SKU      string    `json:"sku"`
	Category int       `json:"category"`
	Price    float64   `json:"price"`
	Features []float64 `json:"features"`

	UpdateMemory bool `json:"update_memory"`
	EmitCurve    bool `json:"emit_curve"`
	CurvePoints  int  `json:"curve_points,omitempty"`
}

type EvaluateResponse struct {
	EvaluationID string `json:"evaluation_id"`
	scoring.Result
}

// Evaluate scores a candidate product against the customer's preferences and
// purchase memory. The scoring snapshot is the memory as stored before this
// call; with update_memory the candidate is appended afterwards.
func (h *CustomersHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product := scoring.Product{SKU: req.SKU, Category: req.Category, Price: req.Price, Features: req.Features}
	if err := product.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CurvePoints > h.maxCurvePoints {
		req.CurvePoints = h.maxCurvePoints
	}

	shopper, err := h.buildShopper(r, customer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := h.engine.Evaluate(shopper, product, scoring.EvalOptions{
		// The engine's own append only mutates the per-request snapshot; the
		// durable append happens below against the store.
		UpdateMemory: false,
		EmitCurve:    req.EmitCurve,
		CurvePoints:  req.CurvePoints,
	})
	if err != nil {
		if isBadInput(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.UpdateMemory {
		obs := &store.Observation{
			CustomerID: customer.ID,
			SKU:        product.SKU,
			Category:   product.Category,
			Price:      product.Price,
			Features:   product.Features,
		}
		if err := h.store.AppendObservation(r.Context(), obs); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	evaluation := &store.Evaluation{
		CustomerID:      customer.ID,
		SKU:             product.SKU,
		Category:        product.Category,
		Price:           product.Price,
		Score:           result.Score,
		Value:           result.Value,
		ReferencePrice:  result.ReferencePrice,
		ReferenceSource: string(result.ReferenceSource),
		MemoryUpdated:   req.UpdateMemory,
	}
	if err := h.store.RecordEvaluation(r.Context(), evaluation); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publish(events.SubjectEvaluationScored(customer.ID.String()), events.EvaluationScoredEvent{
		CustomerID:      customer.ID.String(),
		SKU:             product.SKU,
		Category:        product.Category,
		Price:           product.Price,
		Score:           result.Score,
		ReferenceSource: string(result.ReferenceSource),
		MemoryUpdated:   req.UpdateMemory,
		Timestamp:       time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, EvaluateResponse{
		EvaluationID: evaluation.ID.String(),
		Result:       result,
	})
}

func (h *CustomersHandler) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	evaluations, err := h.store.ListEvaluations(r.Context(), customer.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if evaluations == nil {
		evaluations = []*store.Evaluation{}
	}
	writeJSON(w, http.StatusOK, evaluations)
}
