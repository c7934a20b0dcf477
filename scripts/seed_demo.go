// seed_demo.go — standalone script to seed a demo customer and purchase
// history via the Patron API, then run a couple of evaluations.
//
// Usage:
//
//	go run scripts/seed_demo.go -api http://localhost:8700
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type customerRequest struct {
	Name             string    `json:"name"`
	Preferences      []float64 `json:"preferences"`
	MaxDistance      float64   `json:"max_distance"`
	PriceSensitivity float64   `json:"price_sensitivity"`
}

type productRequest struct {
	SKU          string    `json:"sku"`
	Category     int       `json:"category"`
	Price        float64   `json:"price"`
	Features     []float64 `json:"features"`
	UpdateMemory bool      `json:"update_memory,omitempty"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "Patron API base URL")
	flag.Parse()

	customer := customerRequest{
		Name:             "demo-shopper",
		Preferences:      []float64{5, 5, 5},
		MaxDistance:      27,
		PriceSensitivity: 1.0,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := post(*apiURL+"/api/v1/customers", customer, &created); err != nil {
		log.Fatalf("create customer: %v", err)
	}
	fmt.Printf("created customer %s\n", created.ID)

	history := []productRequest{
		{SKU: "snickers", Category: 1, Price: 0.95, Features: []float64{5, 5, 5}},
		{SKU: "snickers", Category: 1, Price: 1.00, Features: []float64{5, 5, 5}},
		{SKU: "snickers", Category: 1, Price: 1.05, Features: []float64{5, 5, 5}},
		{SKU: "twix", Category: 1, Price: 1.10, Features: []float64{5, 5, 6}},
	}
	for _, p := range history {
		if err := post(*apiURL+"/api/v1/customers/"+created.ID+"/observations", p, nil); err != nil {
			log.Fatalf("seed %s: %v", p.SKU, err)
		}
	}
	fmt.Printf("seeded %d observations\n", len(history))

	candidates := []productRequest{
		{SKU: "snickers", Category: 1, Price: 0.99, Features: []float64{5, 5, 5}},
		{SKU: "snickers", Category: 1, Price: 1.20, Features: []float64{5, 5, 5}},
		{SKU: "bounty", Category: 1, Price: 1.00, Features: []float64{5, 5, 4}},
	}
	for _, p := range candidates {
		var result struct {
			Score           float64 `json:"score"`
			ReferenceSource string  `json:"reference_source"`
		}
		if err := post(*apiURL+"/api/v1/customers/"+created.ID+"/evaluations", p, &result); err != nil {
			log.Fatalf("evaluate %s: %v", p.SKU, err)
		}
		fmt.Printf("%-10s $%.2f → %.2f (%s)\n", p.SKU, p.Price, result.Score, result.ReferenceSource)
	}
}

func post(url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		return fmt.Errorf("%d: %s", resp.StatusCode, buf.String())
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
