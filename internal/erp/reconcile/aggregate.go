package reconcile

import (
	"strings"

	"go.uber.org/zap"
)

// AggregateOrdered sums PO line quantities per item key. With a non-empty
// bomID only lines attributed to that BOM are counted; with an empty bomID
// every line is. Nil quantities count as zero. Lines with no derivable key
// are logged and skipped, never fatal.
func AggregateOrdered(lines []OrderLine, bomID string, logger *zap.Logger) map[string]float64 {
	if logger == nil {
		logger = zap.NewNop()
	}

	sums := make(map[string]float64)
	for _, line := range lines {
		if bomID != "" && line.BomID != bomID {
			continue
		}
		key := line.Ref().Key()
		if key == "" {
			logger.Warn("po line has no derivable item key, skipping",
				zap.String("po_id", line.POID),
				zap.String("po_item_id", line.ID))
			continue
		}
		var qty float64
		if line.Quantity != nil {
			qty = *line.Quantity
		}
		sums[key] += qty
	}
	return sums
}

// fuzzyOrdered is the best-effort secondary pass: it sums quantities of
// fabric lines whose name+color partially match the BOM line's, used only
// when exact key matching found nothing and the caller opted in. It is a
// migration-period crutch for PO lines keyed before fabric identities were
// standardized, and deliberately lives apart from AggregateOrdered so
// strict deployments can drop it without touching the primary path.
func fuzzyOrdered(lines []OrderLine, target BomLine) float64 {
	name, color := norm(target.FabricName), norm(target.FabricColor)
	if target.Category != Fabric || name == "" || color == "" {
		return 0
	}

	var sum float64
	for _, line := range lines {
		if line.Category != Fabric || line.Quantity == nil {
			continue
		}
		if line.BomID != "" && line.BomID != target.BomID {
			continue
		}
		ln, lc := norm(line.FabricName), norm(line.FabricColor)
		if ln == "" || lc == "" {
			continue
		}
		if (strings.Contains(ln, name) || strings.Contains(name, ln)) &&
			(strings.Contains(lc, color) || strings.Contains(color, lc)) {
			sum += *line.Quantity
		}
	}
	return sum
}
