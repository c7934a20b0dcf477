package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Patron/internal/events"
	"github.com/MikeSquared-Agency/Patron/internal/scoring"
	"github.com/MikeSquared-Agency/Patron/internal/store"
)

type AppendObservationRequest struct {
	SKU      string    `json:"sku"`
	Category int       `json:"category"`
	Price    float64   `json:"price"`
	Features []float64 `json:"features"`
}

// AppendObservation seeds one product sighting into the customer's memory.
func (h *CustomersHandler) AppendObservation(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}

	var req AppendObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product := scoring.Product{SKU: req.SKU, Category: req.Category, Price: req.Price, Features: req.Features}
	if err := product.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(product.Features) != len(customer.Preferences) {
		writeError(w, http.StatusBadRequest, scoring.ErrDimensionMismatch.Error())
		return
	}

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

	h.publish(events.SubjectObservationRecorded(customer.ID.String()), events.ObservationRecordedEvent{
		CustomerID: customer.ID.String(),
		SKU:        obs.SKU,
		Category:   obs.Category,
		Price:      obs.Price,
		Timestamp:  time.Now().UTC(),
	})

	writeJSON(w, http.StatusCreated, obs)
}

func (h *CustomersHandler) ListObservations(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}
	observations, err := h.store.ListObservations(r.Context(), customer.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if observations == nil {
		observations = []*store.Observation{}
	}
	writeJSON(w, http.StatusOK, observations)
}

type SeedObservationsRequest struct {
	SKUs []string `json:"skus"`
}

// SeedObservations bulk-seeds memory from the external catalog: each SKU is
// resolved to its catalog entry and recorded as one observation.
func (h *CustomersHandler) SeedObservations(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}

	var req SeedObservationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.SKUs) == 0 {
		writeError(w, http.StatusBadRequest, "skus required")
		return
	}

	// Resolve everything before writing anything, so a bad SKU seeds nothing.
	resolved := make([]store.Observation, 0, len(req.SKUs))
	for _, sku := range req.SKUs {
		entry, err := h.catalog.GetProduct(r.Context(), sku)
		if err != nil {
			writeError(w, http.StatusBadGateway, "catalog lookup failed for "+sku+": "+err.Error())
			return
		}
		if len(entry.Features) != len(customer.Preferences) {
			writeError(w, http.StatusBadRequest, "catalog entry "+sku+": "+scoring.ErrDimensionMismatch.Error())
			return
		}
		resolved = append(resolved, store.Observation{
			CustomerID: customer.ID,
			SKU:        entry.SKU,
			Category:   entry.Category,
			Price:      entry.Price,
			Features:   entry.Features,
		})
	}

	created := make([]*store.Observation, 0, len(resolved))
	for i := range resolved {
		obs := &resolved[i]
		if err := h.store.AppendObservation(r.Context(), obs); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.publish(events.SubjectObservationRecorded(customer.ID.String()), events.ObservationRecordedEvent{
			CustomerID: customer.ID.String(),
			SKU:        obs.SKU,
			Category:   obs.Category,
			Price:      obs.Price,
			Timestamp:  time.Now().UTC(),
		})
		created = append(created, obs)
	}

	writeJSON(w, http.StatusCreated, created)
}
