package service

import (
	"strings"
	"testing"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
)

func TestParseBomRowFabric(t *testing.T) {
	row := []string{"Fabric", "Main body", "Lycra", "Black", "200", "kg", "100", "80", "first lot"}

	item, errMsg := parseBomRow(row)
	if errMsg != "" {
		t.Fatalf("unexpected error: %s", errMsg)
	}
	if item.Category != entity.CategoryFabric {
		t.Fatalf("expected category Fabric, got %s", item.Category)
	}
	if item.FabricName != "Lycra" || item.FabricColor != "Black" || item.FabricGsm != "200" {
		t.Fatalf("fabric identity not parsed: %+v", item)
	}
	if item.UnitOfMeasure != "kg" {
		t.Fatalf("expected unit kg, got %s", item.UnitOfMeasure)
	}
	if item.QtyTotal == nil || *item.QtyTotal != 100 {
		t.Fatalf("expected qty_total 100, got %v", item.QtyTotal)
	}
	if item.ToOrder == nil || *item.ToOrder != 80 {
		t.Fatalf("expected to_order 80, got %v", item.ToOrder)
	}
	if item.Remarks != "first lot" {
		t.Fatalf("expected remarks, got %q", item.Remarks)
	}
}

func TestParseBomRowDefaults(t *testing.T) {
	// empty category defaults to Item, missing unit defaults to pcs
	item, errMsg := parseBomRow([]string{"", "Drawcord"})
	if errMsg != "" {
		t.Fatalf("unexpected error: %s", errMsg)
	}
	if item.Category != entity.CategoryItem {
		t.Fatalf("expected category Item, got %s", item.Category)
	}
	if item.UnitOfMeasure != "pcs" {
		t.Fatalf("expected unit pcs, got %s", item.UnitOfMeasure)
	}
	if item.QtyTotal != nil {
		t.Fatalf("expected nil qty_total, got %v", *item.QtyTotal)
	}
}

func TestParseBomRowErrors(t *testing.T) {
	cases := []struct {
		name string
		row  []string
		want string
	}{
		{"missing name", []string{"Fabric", "  "}, "item name missing"},
		{"short row", []string{"Fabric"}, "item name missing"},
		{"unknown category", []string{"Trim", "Zipper"}, `unknown category "Trim"`},
		{"bad qty", []string{"Item", "Zipper", "", "", "", "", "ten"}, `bad qty_total "ten"`},
		{"bad to_order", []string{"Item", "Zipper", "", "", "", "", "10", "abc"}, `bad to_order "abc"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item, errMsg := parseBomRow(tc.row)
			if item != nil {
				t.Fatalf("expected nil item, got %+v", item)
			}
			if !strings.Contains(errMsg, tc.want) {
				t.Fatalf("expected error containing %q, got %q", tc.want, errMsg)
			}
		})
	}
}
