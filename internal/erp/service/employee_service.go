package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// EmployeeService production-team HR service
type EmployeeService struct {
	repo        *repository.EmployeeRepository
	minioClient *minio.Client
	bucketName  string
}

func NewEmployeeService(repo *repository.EmployeeRepository, minioClient *minio.Client, bucketName string) *EmployeeService {
	return &EmployeeService{repo: repo, minioClient: minioClient, bucketName: bucketName}
}

// CreateEmployeeRequest create employee request
type CreateEmployeeRequest struct {
	Name          string   `json:"name" binding:"required"`
	Designation   string   `json:"designation"`
	Department    string   `json:"department" binding:"required"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	AadhaarNumber string   `json:"aadhaar_number"`
	DateOfJoining *string  `json:"date_of_joining"` // YYYY-MM-DD
	MonthlySalary *float64 `json:"monthly_salary"`
	Notes         string   `json:"notes"`
}

// UpdateEmployeeRequest update employee request
type UpdateEmployeeRequest struct {
	Name          *string  `json:"name"`
	Designation   *string  `json:"designation"`
	Department    *string  `json:"department"`
	Phone         *string  `json:"phone"`
	Email         *string  `json:"email"`
	Address       *string  `json:"address"`
	AadhaarNumber *string  `json:"aadhaar_number"`
	DateOfJoining *string  `json:"date_of_joining"`
	DateOfLeaving *string  `json:"date_of_leaving"`
	MonthlySalary *float64 `json:"monthly_salary"`
	Status        *string  `json:"status"`
	Notes         *string  `json:"notes"`
}

// List lists employees
func (s *EmployeeService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Employee, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one employee
func (s *EmployeeService) Get(ctx context.Context, id string) (*entity.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

// Create creates an employee
func (s *EmployeeService) Create(ctx context.Context, userID string, req *CreateEmployeeRequest) (*entity.Employee, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	emp := &entity.Employee{
		ID:            uuid.New().String()[:32],
		EmpCode:       code,
		Name:          req.Name,
		Designation:   req.Designation,
		Department:    req.Department,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		AadhaarNumber: req.AadhaarNumber,
		MonthlySalary: req.MonthlySalary,
		Status:        entity.EmployeeStatusActive,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}
	if req.DateOfJoining != nil {
		doj, err := parseDate(*req.DateOfJoining)
		if err != nil {
			return nil, err
		}
		emp.DateOfJoining = doj
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// Update updates employee fields
func (s *EmployeeService) Update(ctx context.Context, id string, req *UpdateEmployeeRequest) (*entity.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Designation != nil {
		emp.Designation = *req.Designation
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Address != nil {
		emp.Address = *req.Address
	}
	if req.AadhaarNumber != nil {
		emp.AadhaarNumber = *req.AadhaarNumber
	}
	if req.DateOfJoining != nil {
		doj, err := parseDate(*req.DateOfJoining)
		if err != nil {
			return nil, err
		}
		emp.DateOfJoining = doj
	}
	if req.DateOfLeaving != nil {
		dol, err := parseDate(*req.DateOfLeaving)
		if err != nil {
			return nil, err
		}
		emp.DateOfLeaving = dol
	}
	if req.MonthlySalary != nil {
		emp.MonthlySalary = req.MonthlySalary
	}
	if req.Status != nil {
		emp.Status = *req.Status
	}
	if req.Notes != nil {
		emp.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// UploadPhoto stores an employee photo in object storage
func (s *EmployeeService) UploadPhoto(ctx context.Context, id, fileName, contentType string, reader io.Reader, fileSize int64) (*entity.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.minioClient == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	objectName := fmt.Sprintf("employees/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))
	_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	emp.PhotoURL = objectName
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// DownloadPhoto streams an employee photo from object storage
func (s *EmployeeService) DownloadPhoto(ctx context.Context, id string) (io.ReadCloser, *entity.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if emp.PhotoURL == "" {
		return nil, nil, repository.ErrNotFound
	}
	if s.minioClient == nil {
		return nil, emp, fmt.Errorf("storage not configured")
	}

	object, err := s.minioClient.GetObject(ctx, s.bucketName, emp.PhotoURL, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	return object, emp, nil
}

// Delete soft-deletes an employee
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Headcount active headcount per department
func (s *EmployeeService) Headcount(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByDepartment(ctx)
}

func parseDate(value string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}
