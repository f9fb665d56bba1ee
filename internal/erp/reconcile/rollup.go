package reconcile

import "sort"

// BomMeta display metadata for grouping output.
type BomMeta struct {
	BomID       string `json:"bom_id"`
	BomNumber   string `json:"bom_number"`
	ProductName string `json:"product_name"`
}

// BomGroup pending requirements of one BOM. BOMs whose lines are all
// satisfied produce no group at all.
type BomGroup struct {
	BomID          string               `json:"bom_id"`
	BomNumber      string               `json:"bom_number"`
	ProductName    string               `json:"product_name"`
	TotalRequired  float64              `json:"total_required"`
	TotalOrdered   float64              `json:"total_ordered"`
	TotalRemaining float64              `json:"total_remaining"`
	Requirements   []PendingRequirement `json:"requirements"`
}

// GroupByBom rolls pending requirements up per BOM, sorted by BOM number
// for stable rendering.
func GroupByBom(pending []PendingRequirement, meta map[string]BomMeta) []BomGroup {
	byBom := make(map[string]*BomGroup)
	for _, req := range pending {
		group, ok := byBom[req.BomID]
		if !ok {
			m := meta[req.BomID]
			group = &BomGroup{
				BomID:       req.BomID,
				BomNumber:   m.BomNumber,
				ProductName: m.ProductName,
			}
			byBom[req.BomID] = group
		}
		group.TotalRequired += req.RequiredQuantity
		group.TotalOrdered += req.OrderedQuantity
		group.TotalRemaining += req.RemainingQuantity
		group.Requirements = append(group.Requirements, req)
	}

	groups := make([]BomGroup, 0, len(byBom))
	for _, group := range byBom {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].BomNumber < groups[j].BomNumber
	})
	return groups
}

// ItemContribution one BOM's share of an item group, for drill-down.
type ItemContribution struct {
	BomID             string  `json:"bom_id"`
	BomNumber         string  `json:"bom_number"`
	BomItemID         string  `json:"bom_item_id"`
	RequiredQuantity  float64 `json:"required_quantity"`
	OrderedQuantity   float64 `json:"ordered_quantity"`
	RemainingQuantity float64 `json:"remaining_quantity"`
}

// ItemGroup pending quantities for one item identity across all BOMs
// (the "pending items by type" dashboard view).
type ItemGroup struct {
	ItemKey        string             `json:"item_key"`
	Category       Category           `json:"category"`
	ItemName       string             `json:"item_name"`
	FabricName     string             `json:"fabric_name,omitempty"`
	FabricColor    string             `json:"fabric_color,omitempty"`
	FabricGsm      string             `json:"fabric_gsm,omitempty"`
	Unit           string             `json:"unit"`
	TotalRequired  float64            `json:"total_required"`
	TotalOrdered   float64            `json:"total_ordered"`
	TotalRemaining float64            `json:"total_remaining"`
	Breakdown      []ItemContribution `json:"breakdown"`
}

// GroupByItem rolls pending requirements up per item identity, ignoring
// which BOM each came from. Breakdown lists are sorted by BOM number;
// groups themselves are sorted by item key for deterministic output.
func GroupByItem(pending []PendingRequirement, meta map[string]BomMeta) []ItemGroup {
	byKey := make(map[string]*ItemGroup)
	for _, req := range pending {
		group, ok := byKey[req.ItemKey]
		if !ok {
			group = &ItemGroup{
				ItemKey:     req.ItemKey,
				Category:    req.Category,
				ItemName:    req.ItemName,
				FabricName:  req.FabricName,
				FabricColor: req.FabricColor,
				FabricGsm:   req.FabricGsm,
				Unit:        req.Unit,
			}
			byKey[req.ItemKey] = group
		}
		group.TotalRequired += req.RequiredQuantity
		group.TotalOrdered += req.OrderedQuantity
		group.TotalRemaining += req.RemainingQuantity
		group.Breakdown = append(group.Breakdown, ItemContribution{
			BomID:             req.BomID,
			BomNumber:         meta[req.BomID].BomNumber,
			BomItemID:         req.BomItemID,
			RequiredQuantity:  req.RequiredQuantity,
			OrderedQuantity:   req.OrderedQuantity,
			RemainingQuantity: req.RemainingQuantity,
		})
	}

	groups := make([]ItemGroup, 0, len(byKey))
	for _, group := range byKey {
		sort.Slice(group.Breakdown, func(i, j int) bool {
			return group.Breakdown[i].BomNumber < group.Breakdown[j].BomNumber
		})
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].ItemKey < groups[j].ItemKey
	})
	return groups
}
