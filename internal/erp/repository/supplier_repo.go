package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"gorm.io/gorm"
)

// SupplierRepository supplier master storage
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// FindAll lists suppliers with filters and pagination
func (r *SupplierRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	var items []entity.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Supplier{}).Where("deleted_at IS NULL")

	if supplierType := filters["type"]; supplierType != "" {
		query = query.Where("type = ?", supplierType)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if rating := filters["rating"]; rating != "" {
		query = query.Where("rating = ?", rating)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR supplier_code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one supplier
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByIDs loads several suppliers at once, keyed by ID
func (r *SupplierRepository) FindByIDs(ctx context.Context, ids []string) (map[string]entity.Supplier, error) {
	var suppliers []entity.Supplier
	err := r.db.WithContext(ctx).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.Supplier, len(suppliers))
	for _, s := range suppliers {
		byID[s.ID] = s
	}
	return byID, nil
}

// Create stores a supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// Update saves supplier fields
func (r *SupplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete soft-deletes a supplier
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Supplier{}).
		Where("id = ?", id).
		Update("deleted_at", time.Now()).Error
}

// GenerateCode generates a supplier code SUP-{4 digits}
func (r *SupplierRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Supplier{}).
		Select("COALESCE(MAX(supplier_code), '')").
		Where("supplier_code LIKE ?", "SUP-%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "SUP-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("SUP-%04d", seq), nil
}
