package reconcile

import (
	"math"
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }

func lycraBomLine(qtyTotal *float64, toOrder *float64) BomLine {
	return BomLine{
		ID: "bi-1", BomID: "bom-1", Category: Fabric,
		ItemName: "Lycra Black 200", FabricName: "Lycra", FabricColor: "Black", FabricGsm: "200",
		Unit: "kg", QtyTotal: qtyTotal, ToOrder: toOrder,
	}
}

func lycraOrderLine(id, bomID string, qty float64) OrderLine {
	return OrderLine{
		ID: id, POID: "po-" + id, BomID: bomID, Category: Fabric,
		ItemName: "Lycra Black 200", FabricName: "Lycra", FabricColor: "Black", FabricGsm: "200",
		Quantity: f(qty),
	}
}

// Scenario: no POs yet, the whole requirement is pending.
func TestComputeNoOrders(t *testing.T) {
	calc := NewCalculator()
	pending := calc.Compute([]BomLine{lycraBomLine(f(100), nil)}, nil)

	if len(pending) != 1 {
		t.Fatalf("expected 1 pending requirement, got %d", len(pending))
	}
	p := pending[0]
	if p.RemainingQuantity != 100 || p.RequiredQuantity != 100 || p.OrderedQuantity != 0 {
		t.Errorf("got required=%v ordered=%v remaining=%v, want 100/0/100",
			p.RequiredQuantity, p.OrderedQuantity, p.RemainingQuantity)
	}
	if p.ItemKey != "fabric:lycra:black:200" {
		t.Errorf("unexpected item key %q", p.ItemKey)
	}
}

// Scenario: partial order leaves the difference pending.
func TestComputePartialOrder(t *testing.T) {
	calc := NewCalculator()
	pending := calc.Compute(
		[]BomLine{lycraBomLine(f(100), nil)},
		[]OrderLine{lycraOrderLine("ol-1", "bom-1", 40)},
	)

	if len(pending) != 1 {
		t.Fatalf("expected 1 pending requirement, got %d", len(pending))
	}
	if got := pending[0].RemainingQuantity; math.Abs(got-60) > Epsilon {
		t.Errorf("remaining = %v, want 60", got)
	}
	if got := pending[0].OrderedQuantity; got != 40 {
		t.Errorf("ordered = %v, want 40", got)
	}
}

// Scenario: over-ordering clamps to zero and drops the line from output.
func TestComputeOverOrderClamped(t *testing.T) {
	calc := NewCalculator()
	pending := calc.Compute(
		[]BomLine{lycraBomLine(f(100), nil)},
		[]OrderLine{lycraOrderLine("ol-1", "bom-1", 150)},
	)

	if len(pending) != 0 {
		t.Fatalf("over-ordered line must be excluded, got %+v", pending)
	}
}

// Scenario: a remainder below epsilon counts as fully satisfied.
func TestComputeEpsilonBoundary(t *testing.T) {
	calc := NewCalculator()
	pending := calc.Compute(
		[]BomLine{lycraBomLine(f(10.00005), nil)},
		[]OrderLine{lycraOrderLine("ol-1", "bom-1", 10.0)},
	)

	if len(pending) != 0 {
		t.Fatalf("sub-epsilon remainder must be excluded, got %+v", pending)
	}
}

// Legitimately small positive quantities survive the epsilon filter.
func TestComputeSmallQuantityKept(t *testing.T) {
	calc := NewCalculator()
	pending := calc.Compute([]BomLine{lycraBomLine(f(0.05), nil)}, nil)

	if len(pending) != 1 {
		t.Fatalf("0.05 remaining must stay pending, got %d results", len(pending))
	}
	if got := pending[0].RemainingQuantity; math.Abs(got-0.05) > Epsilon {
		t.Errorf("remaining = %v, want 0.05", got)
	}
}

func TestComputeQuantityPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		qtyTotal *float64
		toOrder  *float64
		want     float64
		pending  bool
	}{
		{"qty_total wins over to_order", f(100), f(80), 100, true},
		{"to_order fallback", nil, f(80), 80, true},
		{"no quantity data skips line", nil, nil, 0, false},
		{"zero qty_total skips even with to_order present", f(0), f(80), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator()
			pending := calc.Compute([]BomLine{lycraBomLine(tt.qtyTotal, tt.toOrder)}, nil)
			if tt.pending != (len(pending) == 1) {
				t.Fatalf("pending = %v, want pending=%v", pending, tt.pending)
			}
			if tt.pending && pending[0].RequiredQuantity != tt.want {
				t.Errorf("required = %v, want %v", pending[0].RequiredQuantity, tt.want)
			}
		})
	}
}

// Lines attributed to another BOM must not offset this BOM's requirement,
// but unattributed legacy lines are consulted after a scoped miss.
func TestComputeScoping(t *testing.T) {
	bomLines := []BomLine{lycraBomLine(f(100), nil)}

	t.Run("other boms ignored", func(t *testing.T) {
		pending := NewCalculator().Compute(bomLines,
			[]OrderLine{lycraOrderLine("ol-1", "bom-2", 100)})
		if len(pending) != 1 || pending[0].RemainingQuantity != 100 {
			t.Fatalf("line attributed to bom-2 leaked into bom-1: %+v", pending)
		}
	})

	t.Run("unattributed lines counted after scoped miss", func(t *testing.T) {
		pending := NewCalculator().Compute(bomLines,
			[]OrderLine{lycraOrderLine("ol-1", "", 40)})
		if len(pending) != 1 || math.Abs(pending[0].RemainingQuantity-60) > Epsilon {
			t.Fatalf("unattributed order not counted: %+v", pending)
		}
	})

	t.Run("scoped hit suppresses unattributed fallback", func(t *testing.T) {
		pending := NewCalculator().Compute(bomLines, []OrderLine{
			lycraOrderLine("ol-1", "bom-1", 30),
			lycraOrderLine("ol-2", "", 40),
		})
		if len(pending) != 1 || math.Abs(pending[0].RemainingQuantity-70) > Epsilon {
			t.Fatalf("expected remaining 70 from scoped sum only: %+v", pending)
		}
	})
}

func TestComputeNilQuantityTreatedAsZero(t *testing.T) {
	line := lycraOrderLine("ol-1", "bom-1", 0)
	line.Quantity = nil
	pending := NewCalculator().Compute([]BomLine{lycraBomLine(f(100), nil)}, []OrderLine{line})

	if len(pending) != 1 || pending[0].RemainingQuantity != 100 {
		t.Fatalf("nil-quantity order line should contribute 0: %+v", pending)
	}
}

func TestFuzzyFallback(t *testing.T) {
	bomLines := []BomLine{lycraBomLine(f(100), nil)}
	// recorded before GSM was captured, so the exact key cannot match
	legacy := OrderLine{
		ID: "ol-legacy", POID: "po-9", Category: Fabric,
		ItemName: "Lycra Blk", FabricName: "Lycra Fabric", FabricColor: "Black", FabricGsm: "",
		Quantity: f(25),
	}

	t.Run("disabled by default", func(t *testing.T) {
		pending := NewCalculator().Compute(bomLines, []OrderLine{legacy})
		if len(pending) != 1 || pending[0].RemainingQuantity != 100 {
			t.Fatalf("fuzzy matching should be off by default: %+v", pending)
		}
	})

	t.Run("enabled finds partial matches", func(t *testing.T) {
		pending := NewCalculator(WithFuzzyFallback(true)).Compute(bomLines, []OrderLine{legacy})
		if len(pending) != 1 || math.Abs(pending[0].RemainingQuantity-75) > Epsilon {
			t.Fatalf("expected fuzzy ordered 25, remaining 75: %+v", pending)
		}
	})
}

// Aggregation over an unchanged dataset is idempotent.
func TestAggregateIdempotent(t *testing.T) {
	lines := []OrderLine{
		lycraOrderLine("ol-1", "bom-1", 40),
		lycraOrderLine("ol-2", "bom-1", 12.5),
		lycraOrderLine("ol-3", "", 7),
	}

	first := AggregateOrdered(lines, "", nil)
	second := AggregateOrdered(lines, "", nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregation not idempotent: %v vs %v", first, second)
	}
	if got := first["fabric:lycra:black:200"]; math.Abs(got-59.5) > Epsilon {
		t.Errorf("summed %v, want 59.5", got)
	}
}

func TestAggregateSkipsUnderivableKeys(t *testing.T) {
	lines := []OrderLine{
		{POID: "po-1", Category: Item, Quantity: f(5)}, // no id, no name, no record id
		lycraOrderLine("ol-1", "bom-1", 10),
	}

	sums := AggregateOrdered(lines, "", nil)
	if len(sums) != 1 {
		t.Fatalf("underivable line should be skipped, got %v", sums)
	}
}
