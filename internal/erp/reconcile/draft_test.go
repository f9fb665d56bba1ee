package reconcile

import (
	"strings"
	"testing"
)

func draftFixture() ([]PendingRequirement, map[string]BomLine) {
	pending := []PendingRequirement{
		{BomItemID: "bi-1", BomID: "bom-1", ItemKey: "fabric:lycra:black:200",
			Category: Fabric, ItemName: "Lycra Black 200", Unit: "kg",
			RequiredQuantity: 100, OrderedQuantity: 40, RemainingQuantity: 60},
		{BomItemID: "bi-2", BomID: "bom-1", ItemKey: "item:itm-77",
			Category: Item, ItemName: "Zipper 6in", Unit: "pcs",
			RequiredQuantity: 500, OrderedQuantity: 0, RemainingQuantity: 500},
	}
	lines := map[string]BomLine{
		"bi-1": {ID: "bi-1", BomID: "bom-1", Category: Fabric, ItemName: "Lycra Black 200",
			FabricName: "Lycra", FabricColor: "Black", FabricGsm: "200", Unit: "kg"},
		"bi-2": {ID: "bi-2", BomID: "bom-1", Category: Item, ItemID: "itm-77",
			ItemName: "Zipper 6in", Unit: "pcs"},
	}
	return pending, lines
}

func TestBuildDraftsGroupsBySupplier(t *testing.T) {
	pending, lines := draftFixture()
	assignments := []SupplierAssignment{
		{ID: "a1", BomItemID: "bi-1", SupplierID: "sup-1", SupplierName: "Surat Textiles", Quantity: 60},
		{ID: "a2", BomItemID: "bi-2", SupplierID: "sup-2", SupplierName: "Delhi Trims", Quantity: 300},
		{ID: "a3", BomItemID: "bi-2", SupplierID: "sup-1", SupplierName: "Surat Textiles", Quantity: 200},
	}

	drafts, err := BuildDrafts(pending, lines, assignments)
	if err != nil {
		t.Fatalf("BuildDrafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	// first-seen supplier order is preserved
	if drafts[0].SupplierID != "sup-1" || drafts[1].SupplierID != "sup-2" {
		t.Errorf("supplier order: %s, %s", drafts[0].SupplierID, drafts[1].SupplierID)
	}
	if len(drafts[0].Lines) != 2 || len(drafts[1].Lines) != 1 {
		t.Fatalf("line counts: %d, %d", len(drafts[0].Lines), len(drafts[1].Lines))
	}

	fabric := drafts[0].Lines[0]
	if fabric.BomID != "bom-1" || fabric.BomItemID != "bi-1" {
		t.Errorf("draft line lost bom attribution: %+v", fabric)
	}
	if fabric.FabricName != "Lycra" || fabric.FabricColor != "Black" || fabric.FabricGsm != "200" {
		t.Errorf("draft line lost fabric identity: %+v", fabric)
	}
	if fabric.Quantity != 60 || fabric.Unit != "kg" {
		t.Errorf("draft line quantity/unit: %+v", fabric)
	}
}

func TestBuildDraftsSplitOverAllocation(t *testing.T) {
	pending, lines := draftFixture()
	// remaining 60 split 40 + 25 across two suppliers sums to 65
	assignments := []SupplierAssignment{
		{ID: "a1", BomItemID: "bi-1", SupplierID: "sup-1", SupplierName: "Surat Textiles", Quantity: 40},
		{ID: "a2", BomItemID: "bi-1", SupplierID: "sup-2", SupplierName: "Tirupur Mills", Quantity: 25},
	}

	drafts, err := BuildDrafts(pending, lines, assignments)
	if drafts != nil {
		t.Fatalf("expected no drafts on validation failure, got %d", len(drafts))
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	if len(verrs) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(verrs), verrs)
	}
	if verrs[0].BomItemID != "bi-1" {
		t.Errorf("violation not tied to the over-allocated requirement: %+v", verrs[0])
	}
	if !strings.Contains(verrs[0].Message, "40+25=65") || !strings.Contains(verrs[0].Message, "remaining 60") {
		t.Errorf("message should show the arithmetic: %q", verrs[0].Message)
	}
}

func TestBuildDraftsWithinRemainingTolerance(t *testing.T) {
	pending, lines := draftFixture()
	// an exact split of the remaining quantity is fine
	assignments := []SupplierAssignment{
		{ID: "a1", BomItemID: "bi-1", SupplierID: "sup-1", SupplierName: "Surat Textiles", Quantity: 40},
		{ID: "a2", BomItemID: "bi-1", SupplierID: "sup-2", SupplierName: "Tirupur Mills", Quantity: 20},
	}
	if _, err := BuildDrafts(pending, lines, assignments); err != nil {
		t.Fatalf("exact split should validate: %v", err)
	}
}

func TestBuildDraftsCollectsAllViolations(t *testing.T) {
	pending, lines := draftFixture()
	assignments := []SupplierAssignment{
		{ID: "a1", BomItemID: "bi-1", SupplierID: "", Quantity: 10},       // no supplier
		{ID: "a2", BomItemID: "bi-2", SupplierID: "sup-1", Quantity: 0},   // non-positive
		{ID: "a3", BomItemID: "bi-9", SupplierID: "sup-1", Quantity: 5},   // unknown item
		{ID: "a4", BomItemID: "bi-1", SupplierID: "sup-2", Quantity: 100}, // over-allocated
	}

	_, err := BuildDrafts(pending, lines, assignments)
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	if len(verrs) != 4 {
		t.Fatalf("expected 4 violations collected together, got %d: %v", len(verrs), verrs)
	}
	if !strings.Contains(verrs.Error(), "; ") {
		t.Errorf("Error() should join all messages: %q", verrs.Error())
	}
}

func TestBuildDraftsNoAssignments(t *testing.T) {
	pending, lines := draftFixture()
	_, err := BuildDrafts(pending, lines, nil)
	if err == nil {
		t.Fatal("expected error for empty assignment list")
	}
	if !strings.Contains(err.Error(), "no supplier assignments") {
		t.Errorf("unexpected message: %v", err)
	}
}
