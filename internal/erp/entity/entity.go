package entity

import "gorm.io/gorm"

// AutoMigrate migrates all ERP tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// master data
		&Supplier{},
		&Employee{},

		// BOM authoring
		&Bom{},
		&BomItem{},
		&BomAttachment{},

		// procurement
		&PurchaseOrder{},
		&POItem{},
		&GoodsReceipt{},
		&GoodsReceiptItem{},
	)
}
