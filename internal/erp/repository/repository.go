package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories ERP repository set
type Repositories struct {
	Bom          *BomRepository
	PO           *PORepository
	Supplier     *SupplierRepository
	Employee     *EmployeeRepository
	GoodsReceipt *GoodsReceiptRepository
}

// NewRepositories creates the ERP repository set
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Bom:          NewBomRepository(db),
		PO:           NewPORepository(db),
		Supplier:     NewSupplierRepository(db),
		Employee:     NewEmployeeRepository(db),
		GoodsReceipt: NewGoodsReceiptRepository(db),
	}
}
