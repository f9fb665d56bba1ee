package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"gorm.io/gorm"
)

// BomRepository BOM and BOM line storage
type BomRepository struct {
	db *gorm.DB
}

func NewBomRepository(db *gorm.DB) *BomRepository {
	return &BomRepository{db: db}
}

// FindAll lists BOMs with filters and pagination
func (r *BomRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Bom, int64, error) {
	var items []entity.Bom
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bom{}).Where("deleted_at IS NULL")

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if orderRef := filters["order_ref"]; orderRef != "" {
		query = query.Where("order_ref = ?", orderRef)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("bom_number ILIKE ? OR product_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one BOM with its lines
func (r *BomRepository) FindByID(ctx context.Context, id string) (*entity.Bom, error) {
	var bom entity.Bom
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// Create stores a BOM together with its lines
func (r *BomRepository) Create(ctx context.Context, bom *entity.Bom) error {
	return r.db.WithContext(ctx).Create(bom).Error
}

// Update saves BOM header fields
func (r *BomRepository) Update(ctx context.Context, bom *entity.Bom) error {
	return r.db.WithContext(ctx).Save(bom).Error
}

// ReplaceItems swaps all lines of a BOM in one transaction
func (r *BomRepository) ReplaceItems(ctx context.Context, bomID string, items []entity.BomItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bom_id = ?", bomID).Delete(&entity.BomItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Delete soft-deletes a BOM; its lines stay for PO attribution history
func (r *BomRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Bom{}).
		Where("id = ?", id).
		Update("deleted_at", time.Now()).Error
}

// FindActiveWithItems loads every non-deleted, non-closed BOM with lines,
// the full input of a pending-requirement computation.
func (r *BomRepository) FindActiveWithItems(ctx context.Context) ([]entity.Bom, error) {
	var boms []entity.Bom
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("deleted_at IS NULL AND status <> ?", entity.BomStatusClosed).
		Order("bom_number ASC").
		Find(&boms).Error
	return boms, err
}

// FindItemByID loads one BOM line
func (r *BomRepository) FindItemByID(ctx context.Context, itemID string) (*entity.BomItem, error) {
	var item entity.BomItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GenerateNumber generates a BOM number BOM-{year}-{4 digits}
func (r *BomRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("BOM-%s-", year)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.Bom{}).
		Select("COALESCE(MAX(bom_number), '')").
		Where("bom_number LIKE ?", prefix+"%").
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		fmt.Sscanf(maxNumber, "BOM-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("BOM-%s-%04d", year, seq), nil
}

// AddAttachment records an uploaded file for a BOM
func (r *BomRepository) AddAttachment(ctx context.Context, att *entity.BomAttachment) error {
	return r.db.WithContext(ctx).Create(att).Error
}

// FindAttachments lists attachments of a BOM
func (r *BomRepository) FindAttachments(ctx context.Context, bomID string) ([]entity.BomAttachment, error) {
	var atts []entity.BomAttachment
	err := r.db.WithContext(ctx).
		Where("bom_id = ?", bomID).
		Order("created_at DESC").
		Find(&atts).Error
	return atts, err
}

// FindAttachmentByID loads one attachment record
func (r *BomRepository) FindAttachmentByID(ctx context.Context, id string) (*entity.BomAttachment, error) {
	var att entity.BomAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &att, nil
}

// DeleteAttachment removes an attachment record
func (r *BomRepository) DeleteAttachment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.BomAttachment{}).Error
}
