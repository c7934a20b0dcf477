package events

import "time"

type CustomerCreatedEvent struct {
	CustomerID       string    `json:"customer_id"`
	Name             string    `json:"name,omitempty"`
	PriceSensitivity float64   `json:"price_sensitivity"`
	Timestamp        time.Time `json:"timestamp"`
}

type ObservationRecordedEvent struct {
	CustomerID string    `json:"customer_id"`
	SKU        string    `json:"sku"`
	Category   int       `json:"category"`
	Price      float64   `json:"price"`
	Timestamp  time.Time `json:"timestamp"`
}

type EvaluationScoredEvent struct {
	CustomerID      string    `json:"customer_id"`
	SKU             string    `json:"sku"`
	Category        int       `json:"category"`
	Price           float64   `json:"price"`
	Score           float64   `json:"score"`
	ReferenceSource string    `json:"reference_source"`
	MemoryUpdated   bool      `json:"memory_updated"`
	Timestamp       time.Time `json:"timestamp"`
}
