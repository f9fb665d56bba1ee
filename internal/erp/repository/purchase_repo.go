package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"gorm.io/gorm"
)

// PORepository purchase order storage
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindAll lists purchase orders with filters and pagination
func (r *PORepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).Where("deleted_at IS NULL")

	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("po_number ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one purchase order with supplier and lines
func (r *PORepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// Create stores a purchase order with its lines
func (r *PORepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

// CreateGuarded runs the guard and the insert inside one transaction. The
// guard reads order lines through a transaction-scoped repository, so a PO
// created concurrently between pending computation and submit is seen
// before this order commits.
func (r *PORepository) CreateGuarded(ctx context.Context, po *entity.PurchaseOrder, guard func(txRepo *PORepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			if err := guard(&PORepository{db: tx}); err != nil {
				return err
			}
		}
		return tx.Create(po).Error
	})
}

// Update saves purchase order header fields
func (r *PORepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

// Delete soft-deletes a purchase order
func (r *PORepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("id = ?", id).
		Update("deleted_at", time.Now()).Error
}

// FindOpenOrderLines loads every line of non-cancelled, non-deleted POs,
// the ordered side of a pending-requirement computation.
func (r *PORepository) FindOpenOrderLines(ctx context.Context) ([]entity.POItem, error) {
	var items []entity.POItem
	err := r.db.WithContext(ctx).
		Joins("JOIN erp_purchase_orders po ON po.id = erp_po_items.po_id").
		Where("po.status <> ? AND po.deleted_at IS NULL", entity.POStatusCancelled).
		Find(&items).Error
	return items, err
}

// FindItemByID loads one PO line
func (r *PORepository) FindItemByID(ctx context.Context, itemID string) (*entity.POItem, error) {
	var item entity.POItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ReceiveItems applies received quantities to PO lines and rolls the PO
// status up from its lines, in one transaction.
func (r *PORepository) ReceiveItems(ctx context.Context, poID string, quantities map[string]float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []entity.POItem
		if err := tx.Where("po_id = ?", poID).Find(&items).Error; err != nil {
			return err
		}

		received, partial := true, false
		for i := range items {
			item := &items[i]
			if qty, ok := quantities[item.ID]; ok {
				item.ReceivedQty += qty
			}
			var ordered float64
			if item.Quantity != nil {
				ordered = *item.Quantity
			}
			switch {
			case item.ReceivedQty >= ordered && ordered > 0:
				item.Status = entity.POItemStatusReceived
			case item.ReceivedQty > 0:
				item.Status = entity.POItemStatusPartial
			default:
				item.Status = entity.POItemStatusPending
			}
			if item.Status != entity.POItemStatusReceived {
				received = false
			}
			if item.ReceivedQty > 0 {
				partial = true
			}
			if err := tx.Save(item).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{}
		if received {
			now := time.Now()
			updates["status"] = entity.POStatusReceived
			updates["received_date"] = &now
		} else if partial {
			updates["status"] = entity.POStatusPartial
		}
		if len(updates) > 0 {
			if err := tx.Model(&entity.PurchaseOrder{}).Where("id = ?", poID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateNumber generates a PO number PO-{year}-{4 digits}
func (r *PORepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("PO-%s-", year)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("COALESCE(MAX(po_number), '')").
		Where("po_number LIKE ?", prefix+"%").
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		fmt.Sscanf(maxNumber, "PO-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("PO-%s-%04d", year, seq), nil
}
