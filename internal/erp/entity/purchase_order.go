package entity

import "time"

// PO status
const (
	POStatusDraft     = "draft"
	POStatusApproved  = "approved"
	POStatusPartial   = "partial"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// POItem status
const (
	POItemStatusPending  = "pending"
	POItemStatusPartial  = "partial"
	POItemStatusReceived = "received"
)

// Line item types on the PO side. Lowercase, unlike BomItem categories;
// both sides predate this service and are normalized in the reconcile
// package rather than migrated.
const (
	ItemTypeFabric = "fabric"
	ItemTypeItem   = "item"
)

// PurchaseOrder order placed with one supplier. A single PO may carry
// lines attributed to different BOMs; the link lives on the line.
type PurchaseOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	PONumber     string     `json:"po_number" gorm:"size:50;uniqueIndex;not null"`
	SupplierID   string     `json:"supplier_id" gorm:"size:32;not null;index"`
	Status       string     `json:"status" gorm:"size:20;not null;default:draft"`
	TotalAmount  float64    `json:"total_amount" gorm:"type:decimal(15,2);default:0"`
	Currency     string     `json:"currency" gorm:"size:10;not null;default:INR"`
	OrderDate    *time.Time `json:"order_date"`
	ExpectedDate *time.Time `json:"expected_date"`
	ReceivedDate *time.Time `json:"received_date"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedBy    string     `json:"created_by" gorm:"size:32"`
	ApprovedBy   *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt   *time.Time `json:"approved_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []POItem  `json:"items,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "erp_purchase_orders"
}

// POItem purchase order line. BomID/BomItemID attribute this line (not the
// whole PO) to the BOM it was ordered for; identity fields are duplicated
// from the BOM line so the reconcile key can be derived on both sides.
type POItem struct {
	ID          string   `json:"id" gorm:"primaryKey;size:32"`
	POID        string   `json:"po_id" gorm:"size:32;not null;index"`
	BomID       *string  `json:"bom_id" gorm:"size:32;index"`
	BomItemID   *string  `json:"bom_item_id" gorm:"size:32"`
	ItemType    string   `json:"item_type" gorm:"size:10;not null"` // fabric/item
	ItemID      *string  `json:"item_id" gorm:"size:32"`
	ItemName    string   `json:"item_name" gorm:"size:200;not null"`
	FabricName  string   `json:"fabric_name" gorm:"size:200"`
	FabricColor string   `json:"fabric_color" gorm:"size:100"`
	FabricGsm   string   `json:"fabric_gsm" gorm:"size:20"`
	Quantity    *float64 `json:"quantity" gorm:"type:decimal(12,4)"`
	Unit        string   `json:"unit" gorm:"size:20;default:pcs"`
	UnitPrice   *float64 `json:"unit_price" gorm:"type:decimal(12,4)"`
	Amount      *float64 `json:"amount" gorm:"type:decimal(15,2)"`
	ReceivedQty float64  `json:"received_qty" gorm:"type:decimal(12,4);default:0"`
	Status      string   `json:"status" gorm:"size:20;not null;default:pending"`
	Remarks     string   `json:"remarks" gorm:"type:text"`
	SortOrder   int      `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (POItem) TableName() string {
	return "erp_po_items"
}
