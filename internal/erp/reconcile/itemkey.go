package reconcile

import "fmt"

// Key derives the canonical matching key joining BOM lines to PO lines.
//
// Fabrics match on normalized name+color+GSM. If any of the three fields
// is blank the key is scoped to the record's own id instead, so two
// half-filled fabric rows from different BOMs can never match each other
// (or anything else) by accident. Generic items match on item id, then
// normalized name, then record id.
//
// Returns "" only when every identity field including the record id is
// blank; such records cannot participate in matching at all.
func (r ItemRef) Key() string {
	if r.Category == Fabric {
		name, color, gsm := norm(r.FabricName), norm(r.FabricColor), norm(r.FabricGsm)
		if name != "" && color != "" && gsm != "" {
			return fmt.Sprintf("fabric:%s:%s:%s", name, color, gsm)
		}
		if r.RecordID != "" {
			return "fabric:#" + r.RecordID
		}
		return ""
	}

	if r.ItemID != "" {
		return "item:" + r.ItemID
	}
	if name := norm(r.ItemName); name != "" {
		return "item:" + name
	}
	if r.RecordID != "" {
		return "item:#" + r.RecordID
	}
	return ""
}
