package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer is the persisted profile of a simulated shopper: static taste
// parameters plus a name for operators. Purchase memory lives in the
// observations table.
type Customer struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Preferences      []float64 `json:"preferences"`
	MaxDistance      float64   `json:"max_distance"`
	PriceSensitivity float64   `json:"price_sensitivity"`
	CreatedAt        time.Time `json:"created_at"`
}

// Observation is one row of a customer's purchase memory. Rows are append-only;
// insertion order is the memory order.
type Observation struct {
	ID         int64     `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	SKU        string    `json:"sku"`
	Category   int       `json:"category"`
	Price      float64   `json:"price"`
	Features   []float64 `json:"features"`
	CreatedAt  time.Time `json:"created_at"`
}

// Evaluation is the audit record of one scored product.
type Evaluation struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	SKU             string    `json:"sku"`
	Category        int       `json:"category"`
	Price           float64   `json:"price"`
	Score           float64   `json:"score"`
	Value           float64   `json:"value"`
	ReferencePrice  float64   `json:"reference_price"`
	ReferenceSource string    `json:"reference_source"`
	MemoryUpdated   bool      `json:"memory_updated"`
	CreatedAt       time.Time `json:"created_at"`
}

type Stats struct {
	TotalCustomers    int     `json:"total_customers"`
	TotalObservations int     `json:"total_observations"`
	TotalEvaluations  int     `json:"total_evaluations"`
	AvgScore          float64 `json:"avg_score"`
}

type Store interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)

	AppendObservation(ctx context.Context, o *Observation) error
	ListObservations(ctx context.Context, customerID uuid.UUID) ([]*Observation, error)

	RecordEvaluation(ctx context.Context, e *Evaluation) error
	ListEvaluations(ctx context.Context, customerID uuid.UUID, limit int) ([]*Evaluation, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
