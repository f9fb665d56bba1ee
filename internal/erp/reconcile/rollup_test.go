package reconcile

import (
	"math"
	"testing"
)

func samplePending() []PendingRequirement {
	return []PendingRequirement{
		{BomItemID: "bi-1", BomID: "bom-2", ItemKey: "fabric:lycra:black:200",
			Category: Fabric, ItemName: "Lycra Black 200", Unit: "kg",
			RequiredQuantity: 100, OrderedQuantity: 40, RemainingQuantity: 60},
		{BomItemID: "bi-2", BomID: "bom-1", ItemKey: "fabric:lycra:black:200",
			Category: Fabric, ItemName: "Lycra Black 200", Unit: "kg",
			RequiredQuantity: 50, OrderedQuantity: 0, RemainingQuantity: 50},
		{BomItemID: "bi-3", BomID: "bom-1", ItemKey: "item:itm-77",
			Category: Item, ItemName: "Zipper 6in", Unit: "pcs",
			RequiredQuantity: 500, OrderedQuantity: 200, RemainingQuantity: 300},
	}
}

func sampleMeta() map[string]BomMeta {
	return map[string]BomMeta{
		"bom-1": {BomID: "bom-1", BomNumber: "BOM-0001", ProductName: "Track Pants"},
		"bom-2": {BomID: "bom-2", BomNumber: "BOM-0002", ProductName: "Sports Tee"},
	}
}

func TestGroupByBom(t *testing.T) {
	groups := GroupByBom(samplePending(), sampleMeta())

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].BomNumber != "BOM-0001" || groups[1].BomNumber != "BOM-0002" {
		t.Errorf("groups not sorted by bom number: %s, %s", groups[0].BomNumber, groups[1].BomNumber)
	}

	// group totals must equal the sum of their breakdown
	for _, g := range groups {
		var sumRemaining float64
		for _, req := range g.Requirements {
			sumRemaining += req.RemainingQuantity
		}
		if math.Abs(sumRemaining-g.TotalRemaining) > Epsilon {
			t.Errorf("%s: breakdown sums to %v, group total %v", g.BomNumber, sumRemaining, g.TotalRemaining)
		}
	}

	if groups[0].TotalRemaining != 350 {
		t.Errorf("BOM-0001 total remaining = %v, want 350", groups[0].TotalRemaining)
	}
	if groups[0].ProductName != "Track Pants" {
		t.Errorf("missing display metadata: %+v", groups[0])
	}
}

func TestGroupByBomExcludesSatisfiedBoms(t *testing.T) {
	// Compute never emits zero-remaining requirements, so a satisfied BOM
	// simply contributes nothing and must not appear as an empty group.
	groups := GroupByBom(nil, sampleMeta())
	if len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}

func TestGroupByItem(t *testing.T) {
	groups := GroupByItem(samplePending(), sampleMeta())

	if len(groups) != 2 {
		t.Fatalf("expected 2 item groups, got %d", len(groups))
	}

	var fabricGroup *ItemGroup
	for i := range groups {
		if groups[i].ItemKey == "fabric:lycra:black:200" {
			fabricGroup = &groups[i]
		}
	}
	if fabricGroup == nil {
		t.Fatal("fabric group missing")
	}

	if fabricGroup.TotalRequired != 150 || fabricGroup.TotalOrdered != 40 || fabricGroup.TotalRemaining != 110 {
		t.Errorf("fabric totals = %v/%v/%v, want 150/40/110",
			fabricGroup.TotalRequired, fabricGroup.TotalOrdered, fabricGroup.TotalRemaining)
	}

	if len(fabricGroup.Breakdown) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(fabricGroup.Breakdown))
	}
	if fabricGroup.Breakdown[0].BomNumber != "BOM-0001" || fabricGroup.Breakdown[1].BomNumber != "BOM-0002" {
		t.Errorf("breakdown not sorted by bom number: %+v", fabricGroup.Breakdown)
	}
}
