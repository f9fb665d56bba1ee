package entity

import "time"

// Supplier type
const (
	SupplierTypeFabric    = "FABRIC"
	SupplierTypeTrims     = "TRIMS"
	SupplierTypePackaging = "PACKAGING"
	SupplierTypeJobWork   = "JOB_WORK"
	SupplierTypeOther     = "OTHER"
)

// Supplier rating
const (
	SupplierRatingA = "A"
	SupplierRatingB = "B"
	SupplierRatingC = "C"
	SupplierRatingD = "D"
)

// Supplier status
const (
	SupplierStatusActive    = "active"
	SupplierStatusInactive  = "inactive"
	SupplierStatusBlacklist = "blacklist"
)

type Supplier struct {
	ID            string     `json:"id" gorm:"primaryKey;size:32"`
	SupplierCode  string     `json:"supplier_code" gorm:"size:50;uniqueIndex;not null"`
	Name          string     `json:"name" gorm:"size:200;not null"`
	Type          string     `json:"type" gorm:"size:20;not null"`
	ContactName   string     `json:"contact_name" gorm:"size:100"`
	Phone         string     `json:"phone" gorm:"size:20"`
	Email         string     `json:"email" gorm:"size:100"`
	Address       string     `json:"address" gorm:"size:500"`
	GSTNumber     string     `json:"gst_number" gorm:"size:20"`
	PaymentTerms  string     `json:"payment_terms" gorm:"size:100"`
	Rating        string     `json:"rating" gorm:"size:1"`
	Status        string     `json:"status" gorm:"size:20;not null;default:active"`
	QualityScore  float64    `json:"quality_score" gorm:"type:decimal(5,2);default:0"`
	DeliveryScore float64    `json:"delivery_score" gorm:"type:decimal(5,2);default:0"`
	PriceScore    float64    `json:"price_score" gorm:"type:decimal(5,2);default:0"`
	ServiceScore  float64    `json:"service_score" gorm:"type:decimal(5,2);default:0"`
	OverallScore  float64    `json:"overall_score" gorm:"type:decimal(5,2);default:0"`
	Notes         string     `json:"notes" gorm:"type:text"`
	CreatedBy     string     `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`
}

func (Supplier) TableName() string {
	return "erp_suppliers"
}

// CalculateOverallScore weighted supplier score
func (s *Supplier) CalculateOverallScore() {
	s.OverallScore = s.QualityScore*0.4 + s.DeliveryScore*0.3 + s.PriceScore*0.2 + s.ServiceScore*0.1
}

// DetermineRating derives the letter rating from the overall score
func (s *Supplier) DetermineRating() {
	s.CalculateOverallScore()
	switch {
	case s.OverallScore >= 90:
		s.Rating = SupplierRatingA
	case s.OverallScore >= 75:
		s.Rating = SupplierRatingB
	case s.OverallScore >= 60:
		s.Rating = SupplierRatingC
	default:
		s.Rating = SupplierRatingD
	}
}
