package scoring

import "testing"

func testCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer([]float64{5, 5, 5}, 27, 1.0)
	if err != nil {
		t.Fatalf("NewCustomer failed: %v", err)
	}
	return c
}

func TestResolveNoReference(t *testing.T) {
	c := testCustomer(t)
	p := Product{SKU: "new_item", Category: 1, Price: 100, Features: []float64{5, 5, 5}}

	history, source := c.Memory.resolve(p, c.MaxDistance, 0.8)
	if history != nil {
		t.Errorf("expected nil history, got %v", history)
	}
	if source != ReferenceNone {
		t.Errorf("expected none, got %s", source)
	}
}

func TestResolveExactMatch(t *testing.T) {
	c := testCustomer(t)
	c.Record(Product{SKU: "ref_item", Category: 1, Price: 100, Features: []float64{5, 5, 5}})

	p := Product{SKU: "ref_item", Category: 1, Price: 150, Features: []float64{5, 5, 5}}
	history, source := c.Memory.resolve(p, c.MaxDistance, 0.8)

	if source != ReferenceExact {
		t.Fatalf("expected exact, got %s", source)
	}
	if len(history) != 1 || history[0].Price != 100 {
		t.Errorf("unexpected history: %v", history)
	}
}

func TestResolveSimilarFallback(t *testing.T) {
	c := testCustomer(t)
	c.Record(Product{SKU: "ref_item", Category: 1, Price: 100, Features: []float64{5, 5, 5}})

	t.Run("similar features match", func(t *testing.T) {
		p := Product{SKU: "unknown_item", Category: 1, Price: 105, Features: []float64{5, 5, 4}}
		history, source := c.Memory.resolve(p, c.MaxDistance, 0.8)
		if source != ReferenceSimilar {
			t.Fatalf("expected similar, got %s", source)
		}
		if history[0].Price != 100 {
			t.Errorf("expected ref price 100, got %v", history[0].Price)
		}
	})

	t.Run("different category misses", func(t *testing.T) {
		p := Product{SKU: "other_item", Category: 2, Price: 120, Features: []float64{5, 5, 5}}
		_, source := c.Memory.resolve(p, c.MaxDistance, 0.8)
		if source != ReferenceNone {
			t.Errorf("expected none, got %s", source)
		}
	})

	t.Run("outside threshold misses", func(t *testing.T) {
		c2 := testCustomer(t)
		c2.Record(Product{SKU: "ref", Category: 1, Price: 100, Features: []float64{1, 1, 1}})
		p := Product{SKU: "query", Category: 1, Price: 120, Features: []float64{9, 9, 9}}
		_, source := c2.Memory.resolve(p, c2.MaxDistance, 0.8)
		if source != ReferenceNone {
			t.Errorf("expected none for distant features, got %s", source)
		}
	})
}

func TestResolveMostSimilarWins(t *testing.T) {
	c := testCustomer(t)
	// close: distance 1 from query → similarity 1-1/27 ≈ 0.963
	// far: distance 5 from query → similarity 1-5/27 ≈ 0.815
	c.Record(Product{SKU: "close", Category: 1, Price: 100, Features: []float64{5, 5, 6}})
	c.Record(Product{SKU: "far", Category: 1, Price: 110, Features: []float64{5, 7, 8}})

	p := Product{SKU: "query", Category: 1, Price: 120, Features: []float64{5, 5, 5}}
	history, source := c.Memory.resolve(p, c.MaxDistance, 0.8)

	if source != ReferenceSimilar {
		t.Fatalf("expected similar, got %s", source)
	}
	if history[0].Price != 100 {
		t.Errorf("expected closest match (price 100), got %v", history[0].Price)
	}
}

func TestRecordAppendOnly(t *testing.T) {
	c := testCustomer(t)

	c.Record(Product{SKU: "item1", Category: 1, Price: 100, Features: []float64{5, 5, 5}})
	c.Record(Product{SKU: "item1", Category: 1, Price: 110, Features: []float64{5, 5, 6}})
	c.Record(Product{SKU: "item1", Category: 1, Price: 120, Features: []float64{5, 6, 6}})

	if got := c.HistoryLen(1, "item1"); got != 3 {
		t.Fatalf("expected 3 observations after 3 appends, got %d", got)
	}
	history := c.Memory[1]["item1"]
	wantPrices := []float64{100, 110, 120}
	for i, want := range wantPrices {
		if history[i].Price != want {
			t.Errorf("observation %d: expected price %v, got %v (order must be preserved)", i, want, history[i].Price)
		}
	}
}

func TestRecordCopiesFeatures(t *testing.T) {
	c := testCustomer(t)
	features := []float64{5, 5, 5}
	c.Record(Product{SKU: "item1", Category: 1, Price: 100, Features: features})

	features[0] = 99
	if c.Memory[1]["item1"][0].Features[0] != 5 {
		t.Error("memory must not alias the caller's feature slice")
	}
}

func TestNewCustomerValidation(t *testing.T) {
	tests := []struct {
		name        string
		preferences []float64
		maxDistance float64
		sensitivity float64
	}{
		{"empty preferences", nil, 27, 1.0},
		{"negative preference", []float64{5, -1, 5}, 27, 1.0},
		{"zero max distance", []float64{5, 5, 5}, 0, 1.0},
		{"negative max distance", []float64{5, 5, 5}, -1, 1.0},
		{"zero sensitivity", []float64{5, 5, 5}, 27, 0},
		{"negative sensitivity", []float64{5, 5, 5}, 27, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomer(tt.preferences, tt.maxDistance, tt.sensitivity)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
