package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Patron/internal/catalog"
	"github.com/MikeSquared-Agency/Patron/internal/events"
	"github.com/MikeSquared-Agency/Patron/internal/scoring"
	"github.com/MikeSquared-Agency/Patron/internal/store"
)

type CustomersHandler struct {
	store   store.Store
	events  events.Client
	catalog catalog.Client
	engine  *scoring.Engine
	logger  *slog.Logger

	// Upper bound on diagnostic curve size; requests may ask for fewer points.
	maxCurvePoints int
}

func NewCustomersHandler(s store.Store, ev events.Client, cat catalog.Client, engine *scoring.Engine, maxCurvePoints int, logger *slog.Logger) *CustomersHandler {
	if maxCurvePoints <= 0 {
		maxCurvePoints = scoring.DefaultCurvePoints
	}
	return &CustomersHandler{
		store:          s,
		events:         ev,
		catalog:        cat,
		engine:         engine,
		logger:         logger,
		maxCurvePoints: maxCurvePoints,
	}
}

type CreateCustomerRequest struct {
	Name             string    `json:"name"`
	Preferences      []float64 `json:"preferences"`
	MaxDistance      float64   `json:"max_distance"`
	PriceSensitivity float64   `json:"price_sensitivity"`
}

func (h *CustomersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PriceSensitivity == 0 {
		req.PriceSensitivity = 1.0
	}

	// Construction validates the scoring preconditions.
	if _, err := scoring.NewCustomer(req.Preferences, req.MaxDistance, req.PriceSensitivity); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer := &store.Customer{
		Name:             req.Name,
		Preferences:      req.Preferences,
		MaxDistance:      req.MaxDistance,
		PriceSensitivity: req.PriceSensitivity,
	}
	if err := h.store.CreateCustomer(r.Context(), customer); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publish(events.SubjectCustomerCreated(customer.ID.String()), events.CustomerCreatedEvent{
		CustomerID:       customer.ID.String(),
		Name:             customer.Name,
		PriceSensitivity: customer.PriceSensitivity,
		Timestamp:        time.Now().UTC(),
	})

	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if customers == nil {
		customers = []*store.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomersHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookupCustomer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// lookupCustomer resolves {id} to a stored customer, writing the error
// response itself when the id is bad or unknown.
func (h *CustomersHandler) lookupCustomer(w http.ResponseWriter, r *http.Request) (*store.Customer, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return nil, false
	}
	customer, err := h.store.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return nil, false
	}
	return customer, true
}

// buildShopper rebuilds the in-memory scoring customer from the stored
// profile and its observation history, in insertion order. Each request gets
// its own instance, so scoring always sees a stable snapshot.
func (h *CustomersHandler) buildShopper(r *http.Request, customer *store.Customer) (*scoring.Customer, error) {
	shopper, err := scoring.NewCustomer(customer.Preferences, customer.MaxDistance, customer.PriceSensitivity)
	if err != nil {
		return nil, err
	}
	observations, err := h.store.ListObservations(r.Context(), customer.ID)
	if err != nil {
		return nil, err
	}
	for _, obs := range observations {
		shopper.Record(scoring.Product{
			SKU:      obs.SKU,
			Category: obs.Category,
			Price:    obs.Price,
			Features: obs.Features,
		})
	}
	return shopper, nil
}

func (h *CustomersHandler) publish(subject string, event interface{}) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(subject, event); err != nil {
		h.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func isBadInput(err error) bool {
	return errors.Is(err, scoring.ErrDimensionMismatch) || errors.Is(err, scoring.ErrInvalidParameter)
}
