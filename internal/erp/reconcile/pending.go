package reconcile

import "go.uber.org/zap"

// Calculator computes pending requirements. Zero value is not usable;
// construct with NewCalculator.
type Calculator struct {
	fuzzy  bool
	logger *zap.Logger
}

type Option func(*Calculator)

// WithFuzzyFallback enables the substring fabric-match secondary pass for
// PO lines recorded before fabric identities were standardized. Off by
// default; strict matching is the primary correctness mechanism.
func WithFuzzyFallback(enabled bool) Option {
	return func(c *Calculator) { c.fuzzy = enabled }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Calculator) { c.logger = logger }
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute derives the pending requirement for every BOM line with a
// positive shortfall. For each line:
//
//	required  = qty_total, else to_order, else the line is skipped
//	ordered   = BOM-scoped sum for the line's key; when that is zero,
//	            the sum over unattributed PO lines (no bom_id); when
//	            still zero and fuzzy fallback is on, a partial match pass
//	remaining = max(0, required - ordered)
//
// Lines with required ≤ ε or remaining ≤ ε are excluded. Unattributed PO
// lines are only consulted after the scoped lookup misses so that lines
// explicitly attributed to another BOM are never counted here.
func (c *Calculator) Compute(bomLines []BomLine, orderLines []OrderLine) []PendingRequirement {
	scoped := make(map[string]map[string]float64) // bom id -> key -> qty
	var unattributed []OrderLine
	for _, line := range orderLines {
		if line.BomID == "" {
			unattributed = append(unattributed, line)
		}
	}
	unattributedSums := AggregateOrdered(unattributed, "", c.logger)

	var pending []PendingRequirement
	for _, line := range bomLines {
		required, ok := requiredQuantity(line)
		if !ok {
			c.logger.Warn("bom line has no quantity data, excluded from pending",
				zap.String("bom_id", line.BomID),
				zap.String("bom_item_id", line.ID))
			continue
		}
		if required <= Epsilon {
			continue
		}

		sums, seen := scoped[line.BomID]
		if !seen {
			sums = AggregateOrdered(orderLines, line.BomID, c.logger)
			scoped[line.BomID] = sums
		}

		key := line.Ref().Key()
		ordered := sums[key]
		if ordered == 0 {
			ordered = unattributedSums[key]
		}
		if ordered == 0 && c.fuzzy {
			ordered = fuzzyOrdered(orderLines, line)
		}

		remaining := required - ordered
		if remaining < 0 {
			remaining = 0
		}
		if remaining <= Epsilon {
			continue
		}

		pending = append(pending, PendingRequirement{
			BomItemID:         line.ID,
			BomID:             line.BomID,
			ItemKey:           key,
			Category:          line.Category,
			ItemName:          line.ItemName,
			FabricName:        line.FabricName,
			FabricColor:       line.FabricColor,
			FabricGsm:         line.FabricGsm,
			Unit:              line.Unit,
			RequiredQuantity:  required,
			OrderedQuantity:   ordered,
			RemainingQuantity: remaining,
		})
	}
	return pending
}

// requiredQuantity applies the precedence rule: qty_total is authoritative,
// to_order is only consulted when qty_total is null. Lines with neither
// carry no quantity data and are not actionable.
func requiredQuantity(line BomLine) (float64, bool) {
	if line.QtyTotal != nil {
		return *line.QtyTotal, true
	}
	if line.ToOrder != nil {
		return *line.ToOrder, true
	}
	return 0, false
}
