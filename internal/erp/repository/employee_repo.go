package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"gorm.io/gorm"
)

// EmployeeRepository production-team HR storage
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindAll lists employees with filters and pagination
func (r *EmployeeRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Employee, int64, error) {
	var items []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{}).Where("deleted_at IS NULL")

	if department := filters["department"]; department != "" {
		query = query.Where("department = ?", department)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR emp_code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("emp_code ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one employee
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*entity.Employee, error) {
	var emp entity.Employee
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// Create stores an employee
func (r *EmployeeRepository) Create(ctx context.Context, emp *entity.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

// Update saves employee fields
func (r *EmployeeRepository) Update(ctx context.Context, emp *entity.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

// Delete soft-deletes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Employee{}).
		Where("id = ?", id).
		Update("deleted_at", time.Now()).Error
}

// CountByDepartment headcount of active employees per department
func (r *EmployeeRepository) CountByDepartment(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Department string
		Count      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.Employee{}).
		Select("department, COUNT(*) AS count").
		Where("deleted_at IS NULL AND status = ?", entity.EmployeeStatusActive).
		Group("department").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Department] = r.Count
	}
	return counts, nil
}

// GenerateCode generates an employee code EMP-{4 digits}
func (r *EmployeeRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Employee{}).
		Select("COALESCE(MAX(emp_code), '')").
		Where("emp_code LIKE ?", "EMP-%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "EMP-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("EMP-%04d", seq), nil
}
