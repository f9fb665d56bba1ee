package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"gorm.io/gorm"
)

// GoodsReceiptRepository GRN storage
type GoodsReceiptRepository struct {
	db *gorm.DB
}

func NewGoodsReceiptRepository(db *gorm.DB) *GoodsReceiptRepository {
	return &GoodsReceiptRepository{db: db}
}

// Create stores a GRN with its lines
func (r *GoodsReceiptRepository) Create(ctx context.Context, grn *entity.GoodsReceipt) error {
	return r.db.WithContext(ctx).Create(grn).Error
}

// FindByID loads one GRN with its lines
func (r *GoodsReceiptRepository) FindByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	var grn entity.GoodsReceipt
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&grn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &grn, nil
}

// FindByPO lists GRNs recorded against one purchase order
func (r *GoodsReceiptRepository) FindByPO(ctx context.Context, poID string) ([]entity.GoodsReceipt, error) {
	var grns []entity.GoodsReceipt
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("po_id = ?", poID).
		Order("received_date DESC").
		Find(&grns).Error
	return grns, err
}

// GenerateNumber generates a GRN number GRN-{year}-{4 digits}
func (r *GoodsReceiptRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("GRN-%s-", year)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.GoodsReceipt{}).
		Select("COALESCE(MAX(grn_number), '')").
		Where("grn_number LIKE ?", prefix+"%").
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		fmt.Sscanf(maxNumber, "GRN-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("GRN-%s-%04d", year, seq), nil
}
