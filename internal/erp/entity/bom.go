package entity

import "time"

// BOM status
const (
	BomStatusDraft    = "draft"
	BomStatusApproved = "approved"
	BomStatusClosed   = "closed"
)

// BomItem categories. Fabric lines are identified by name+color+GSM,
// generic item lines by item_id or name.
const (
	CategoryFabric = "Fabric"
	CategoryItem   = "Item"
)

// Bom bill of materials for one garment style/order
type Bom struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	BomNumber   string     `json:"bom_number" gorm:"size:50;uniqueIndex;not null"`
	ProductName string     `json:"product_name" gorm:"size:200;not null"`
	OrderRef    string     `json:"order_ref" gorm:"size:100"`
	Status      string     `json:"status" gorm:"size:20;not null;default:draft"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedBy   string     `json:"created_by" gorm:"size:32"`
	ApprovedBy  *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt  *time.Time `json:"approved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	Items []BomItem `json:"items,omitempty" gorm:"foreignKey:BomID"`
}

func (Bom) TableName() string {
	return "erp_boms"
}

// BomItem BOM line item. QtyTotal and ToOrder are independently stored by the
// authoring UI; QtyTotal is authoritative when both are present.
type BomItem struct {
	ID            string   `json:"id" gorm:"primaryKey;size:32"`
	BomID         string   `json:"bom_id" gorm:"size:32;not null;index"`
	Category      string   `json:"category" gorm:"size:10;not null"` // Fabric/Item
	ItemID        *string  `json:"item_id" gorm:"size:32"`
	ItemName      string   `json:"item_name" gorm:"size:200;not null"`
	FabricName    string   `json:"fabric_name" gorm:"size:200"`
	FabricColor   string   `json:"fabric_color" gorm:"size:100"`
	FabricGsm     string   `json:"fabric_gsm" gorm:"size:20"`
	UnitOfMeasure string   `json:"unit_of_measure" gorm:"size:20;default:pcs"`
	QtyTotal      *float64 `json:"qty_total" gorm:"type:decimal(12,4)"`
	ToOrder       *float64 `json:"to_order" gorm:"type:decimal(12,4)"`
	Remarks       string   `json:"remarks" gorm:"type:text"`
	SortOrder     int      `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BomItem) TableName() string {
	return "erp_bom_items"
}

// BomAttachment uploaded design sheets / tech packs stored in object storage
type BomAttachment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	BomID      string    `json:"bom_id" gorm:"size:32;not null;index"`
	FileName   string    `json:"file_name" gorm:"size:256;not null"`
	FilePath   string    `json:"file_path" gorm:"size:512;not null"`
	FileSize   int64     `json:"file_size" gorm:"not null"`
	MimeType   string    `json:"mime_type" gorm:"size:128"`
	UploadedBy string    `json:"uploaded_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (BomAttachment) TableName() string {
	return "erp_bom_attachments"
}
