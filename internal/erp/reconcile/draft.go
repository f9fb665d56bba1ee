package reconcile

import (
	"fmt"
	"strings"
)

// SupplierAssignment is one wizard-session allocation of (part of) a
// pending requirement to a supplier. A requirement may be split across
// several assignments with different suppliers.
type SupplierAssignment struct {
	ID           string  `json:"id"`
	BomItemID    string  `json:"bom_item_id"`
	SupplierID   string  `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Quantity     float64 `json:"quantity"`
	Remarks      string  `json:"remarks"`
}

// DraftLine one line of a draft purchase order, carrying everything needed
// to persist a POItem with a derivable item key.
type DraftLine struct {
	BomID       string   `json:"bom_id"`
	BomItemID   string   `json:"bom_item_id"`
	Category    Category `json:"category"`
	ItemID      string   `json:"item_id,omitempty"`
	ItemName    string   `json:"item_name"`
	FabricName  string   `json:"fabric_name,omitempty"`
	FabricColor string   `json:"fabric_color,omitempty"`
	FabricGsm   string   `json:"fabric_gsm,omitempty"`
	Unit        string   `json:"unit"`
	Quantity    float64  `json:"quantity"`
	Remarks     string   `json:"remarks,omitempty"`
}

// Draft all lines destined for one supplier's purchase order.
type Draft struct {
	SupplierID   string      `json:"supplier_id"`
	SupplierName string      `json:"supplier_name"`
	Lines        []DraftLine `json:"lines"`
}

// ValidationError one draft-validation violation tied to the requirement
// that caused it (empty BomItemID for session-level violations).
type ValidationError struct {
	BomItemID string `json:"bom_item_id,omitempty"`
	Message   string `json:"message"`
}

// ValidationErrors collects every violation found in one pass so the user
// can correct the whole form at once.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return "draft validation failed: " + strings.Join(msgs, "; ")
}

// BuildDrafts turns supplier assignments into supplier-grouped PO drafts.
// It fails closed: every violation is collected and returned together, and
// no drafts are emitted if any assignment is invalid. Over-allocation is
// reported, never clamped.
func BuildDrafts(pending []PendingRequirement, lines map[string]BomLine, assignments []SupplierAssignment) ([]Draft, error) {
	var violations ValidationErrors

	if len(assignments) == 0 {
		violations = append(violations, ValidationError{
			Message: "no supplier assignments: select at least one item and assign a supplier",
		})
		return nil, violations
	}

	remaining := make(map[string]float64, len(pending))
	names := make(map[string]string, len(pending))
	for _, req := range pending {
		remaining[req.BomItemID] = req.RemainingQuantity
		names[req.BomItemID] = req.ItemName
	}

	allocated := make(map[string][]float64)
	for _, a := range assignments {
		if strings.TrimSpace(a.SupplierID) == "" {
			violations = append(violations, ValidationError{
				BomItemID: a.BomItemID,
				Message:   fmt.Sprintf("%s: assignment has no supplier", names[a.BomItemID]),
			})
		}
		if a.Quantity <= 0 {
			violations = append(violations, ValidationError{
				BomItemID: a.BomItemID,
				Message:   fmt.Sprintf("%s: assignment quantity must be positive", names[a.BomItemID]),
			})
		}
		if _, ok := remaining[a.BomItemID]; !ok {
			violations = append(violations, ValidationError{
				BomItemID: a.BomItemID,
				Message:   fmt.Sprintf("assignment references unknown pending item %s", a.BomItemID),
			})
			continue
		}
		allocated[a.BomItemID] = append(allocated[a.BomItemID], a.Quantity)
	}

	for bomItemID, quantities := range allocated {
		var sum float64
		parts := make([]string, len(quantities))
		for i, q := range quantities {
			sum += q
			parts[i] = trimFloat(q)
		}
		if sum > remaining[bomItemID]+Epsilon {
			violations = append(violations, ValidationError{
				BomItemID: bomItemID,
				Message: fmt.Sprintf("%s: assigned %s=%s exceeds remaining %s",
					names[bomItemID], strings.Join(parts, "+"), trimFloat(sum), trimFloat(remaining[bomItemID])),
			})
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}

	// group by supplier, preserving assignment order within a group
	order := make([]string, 0)
	bySupplier := make(map[string]*Draft)
	for _, a := range assignments {
		draft, ok := bySupplier[a.SupplierID]
		if !ok {
			draft = &Draft{SupplierID: a.SupplierID, SupplierName: a.SupplierName}
			bySupplier[a.SupplierID] = draft
			order = append(order, a.SupplierID)
		}
		line := lines[a.BomItemID]
		draft.Lines = append(draft.Lines, DraftLine{
			BomID:       line.BomID,
			BomItemID:   a.BomItemID,
			Category:    line.Category,
			ItemID:      line.ItemID,
			ItemName:    line.ItemName,
			FabricName:  line.FabricName,
			FabricColor: line.FabricColor,
			FabricGsm:   line.FabricGsm,
			Unit:        line.Unit,
			Quantity:    a.Quantity,
			Remarks:     a.Remarks,
		})
	}

	drafts := make([]Draft, 0, len(order))
	for _, supplierID := range order {
		drafts = append(drafts, *bySupplier[supplierID])
	}
	return drafts, nil
}

// trimFloat renders quantities without trailing zeros for error messages.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
