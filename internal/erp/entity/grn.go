package entity

import "time"

// GoodsReceipt GRN, the record of physical receipt against a PO. Receiving
// rolls up POItem.ReceivedQty and the PO status; the pending computation
// never reads GRNs directly (ordered quantity, not received quantity,
// offsets a BOM requirement).
type GoodsReceipt struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	GRNNumber    string    `json:"grn_number" gorm:"size:50;uniqueIndex;not null"`
	POID         string    `json:"po_id" gorm:"size:32;not null;index"`
	ReceivedDate time.Time `json:"received_date"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedBy    string    `json:"created_by" gorm:"size:32"`
	CreatedAt    time.Time `json:"created_at"`

	Items []GoodsReceiptItem `json:"items,omitempty" gorm:"foreignKey:GRNID"`
}

func (GoodsReceipt) TableName() string {
	return "erp_goods_receipts"
}

type GoodsReceiptItem struct {
	ID       string  `json:"id" gorm:"primaryKey;size:32"`
	GRNID    string  `json:"grn_id" gorm:"size:32;not null;index"`
	POItemID string  `json:"po_item_id" gorm:"size:32;not null"`
	Quantity float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Remarks  string  `json:"remarks" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
}

func (GoodsReceiptItem) TableName() string {
	return "erp_goods_receipt_items"
}
