package reconcile

import "testing"

func TestItemKeyFabric(t *testing.T) {
	tests := []struct {
		name string
		ref  ItemRef
		want string
	}{
		{
			name: "complete fabric identity",
			ref:  ItemRef{RecordID: "r1", Category: Fabric, FabricName: "Lycra", FabricColor: "Black", FabricGsm: "200"},
			want: "fabric:lycra:black:200",
		},
		{
			name: "casing and whitespace normalized",
			ref:  ItemRef{RecordID: "r2", Category: Fabric, FabricName: "  LYCRA ", FabricColor: "black ", FabricGsm: " 200"},
			want: "fabric:lycra:black:200",
		},
		{
			name: "missing gsm falls back to record id",
			ref:  ItemRef{RecordID: "r3", Category: Fabric, FabricName: "Lycra", FabricColor: "Black"},
			want: "fabric:#r3",
		},
		{
			name: "whitespace-only color falls back to record id",
			ref:  ItemRef{RecordID: "r4", Category: Fabric, FabricName: "Lycra", FabricColor: "   ", FabricGsm: "200"},
			want: "fabric:#r4",
		},
		{
			name: "nothing derivable",
			ref:  ItemRef{Category: Fabric},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItemKeyItem(t *testing.T) {
	tests := []struct {
		name string
		ref  ItemRef
		want string
	}{
		{
			name: "item id preferred",
			ref:  ItemRef{RecordID: "r1", Category: Item, ItemID: "itm-77", ItemName: "Zipper 6in"},
			want: "item:itm-77",
		},
		{
			name: "name fallback normalized",
			ref:  ItemRef{RecordID: "r2", Category: Item, ItemName: " Zipper 6IN "},
			want: "item:zipper 6in",
		},
		{
			name: "record id fallback for blank name",
			ref:  ItemRef{RecordID: "r3", Category: Item, ItemName: "   "},
			want: "item:#r3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Two empty-name items from different BOMs must never share a key.
func TestItemKeyEmptyNamesDoNotCollide(t *testing.T) {
	a := ItemRef{RecordID: "bom1-item", Category: Item}
	b := ItemRef{RecordID: "bom2-item", Category: Item}
	if a.Key() == b.Key() {
		t.Errorf("empty-name items collided on key %q", a.Key())
	}

	fa := ItemRef{RecordID: "f1", Category: Fabric, FabricName: "Lycra"}
	fb := ItemRef{RecordID: "f2", Category: Fabric, FabricName: "Lycra"}
	if fa.Key() == fb.Key() {
		t.Errorf("half-specified fabrics collided on key %q", fa.Key())
	}
}

// Identical fabric identity must produce identical keys on both sides of
// the join regardless of original casing or padding.
func TestItemKeyStableAcrossSides(t *testing.T) {
	bom := BomLine{ID: "b1", BomID: "bom-1", Category: Fabric,
		FabricName: "Cotton Jersey", FabricColor: "Navy", FabricGsm: "180"}
	po := OrderLine{ID: "p1", POID: "po-1", Category: Fabric,
		FabricName: "  cotton jersey", FabricColor: "NAVY ", FabricGsm: "180 "}

	if bom.Ref().Key() != po.Ref().Key() {
		t.Errorf("keys differ: bom=%q po=%q", bom.Ref().Key(), po.Ref().Key())
	}
}
