// Package reconcile computes pending fabric/trim requirements by matching
// BOM line items against purchase-order line items. It is a pure package:
// callers fetch the full line sets and pass them in, so the same routines
// serve the HTTP handlers, exports, and tests without a database.
package reconcile

import "strings"

// Epsilon absorbs floating-point noise in quantity comparisons. A
// remaining quantity at or below it counts as fully ordered; a required
// quantity at or below it counts as nothing to order.
const Epsilon = 1e-4

// Category of a line item. Both sides of the join store category with
// different casing (BOM authoring writes "Fabric"/"Item", the PO tables
// write "fabric"/"item"); callers normalize to these values.
type Category string

const (
	Fabric Category = "fabric"
	Item   Category = "item"
)

// ItemRef carries the identity fields shared by BOM and PO lines, plus the
// record's own id for the collision-proof fallback key.
type ItemRef struct {
	RecordID    string
	Category    Category
	ItemID      string
	ItemName    string
	FabricName  string
	FabricColor string
	FabricGsm   string
}

// BomLine is one BOM line item as seen by the reconciler.
type BomLine struct {
	ID          string
	BomID       string
	Category    Category
	ItemID      string
	ItemName    string
	FabricName  string
	FabricColor string
	FabricGsm   string
	Unit        string
	QtyTotal    *float64
	ToOrder     *float64
}

func (l BomLine) Ref() ItemRef {
	return ItemRef{
		RecordID:    l.ID,
		Category:    l.Category,
		ItemID:      l.ItemID,
		ItemName:    l.ItemName,
		FabricName:  l.FabricName,
		FabricColor: l.FabricColor,
		FabricGsm:   l.FabricGsm,
	}
}

// OrderLine is one purchase-order line item. BomID is empty when the line
// was created before line-level BOM attribution existed.
type OrderLine struct {
	ID          string
	POID        string
	BomID       string
	Category    Category
	ItemID      string
	ItemName    string
	FabricName  string
	FabricColor string
	FabricGsm   string
	Quantity    *float64
}

func (l OrderLine) Ref() ItemRef {
	return ItemRef{
		RecordID:    l.ID,
		Category:    l.Category,
		ItemID:      l.ItemID,
		ItemName:    l.ItemName,
		FabricName:  l.FabricName,
		FabricColor: l.FabricColor,
		FabricGsm:   l.FabricGsm,
	}
}

// PendingRequirement is the derived shortfall for one BOM line. Never
// persisted; recomputed from fresh reads on every request.
type PendingRequirement struct {
	BomItemID         string   `json:"bom_item_id"`
	BomID             string   `json:"bom_id"`
	ItemKey           string   `json:"item_key"`
	Category          Category `json:"category"`
	ItemName          string   `json:"item_name"`
	FabricName        string   `json:"fabric_name,omitempty"`
	FabricColor       string   `json:"fabric_color,omitempty"`
	FabricGsm         string   `json:"fabric_gsm,omitempty"`
	Unit              string   `json:"unit"`
	RequiredQuantity  float64  `json:"required_quantity"`
	OrderedQuantity   float64  `json:"ordered_quantity"`
	RemainingQuantity float64  `json:"remaining_quantity"`
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
