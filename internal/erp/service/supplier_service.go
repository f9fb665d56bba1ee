package service

import (
	"context"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/google/uuid"
)

// SupplierService supplier master service
type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

// CreateSupplierRequest create supplier request
type CreateSupplierRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	GSTNumber    string `json:"gst_number"`
	PaymentTerms string `json:"payment_terms"`
	Notes        string `json:"notes"`
}

// UpdateSupplierRequest update supplier request
type UpdateSupplierRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	ContactName  *string `json:"contact_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	GSTNumber    *string `json:"gst_number"`
	PaymentTerms *string `json:"payment_terms"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

// ScoreSupplierRequest supplier evaluation scores
type ScoreSupplierRequest struct {
	QualityScore  float64 `json:"quality_score" binding:"min=0,max=100"`
	DeliveryScore float64 `json:"delivery_score" binding:"min=0,max=100"`
	PriceScore    float64 `json:"price_score" binding:"min=0,max=100"`
	ServiceScore  float64 `json:"service_score" binding:"min=0,max=100"`
}

// List lists suppliers
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one supplier
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Create creates a supplier
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{
		ID:           uuid.New().String()[:32],
		SupplierCode: code,
		Name:         req.Name,
		Type:         req.Type,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		GSTNumber:    req.GSTNumber,
		PaymentTerms: req.PaymentTerms,
		Status:       entity.SupplierStatusActive,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Update updates supplier fields
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Type != nil {
		supplier.Type = *req.Type
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.GSTNumber != nil {
		supplier.GSTNumber = *req.GSTNumber
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Score records evaluation scores and re-derives the rating
func (s *SupplierService) Score(ctx context.Context, id string, req *ScoreSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.QualityScore = req.QualityScore
	supplier.DeliveryScore = req.DeliveryScore
	supplier.PriceScore = req.PriceScore
	supplier.ServiceScore = req.ServiceScore
	supplier.DetermineRating()

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete soft-deletes a supplier
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
