package entity

import "time"

// Production departments
const (
	DeptCutting   = "cutting"
	DeptStitching = "stitching"
	DeptFinishing = "finishing"
	DeptQuality   = "quality"
	DeptPacking   = "packing"
	DeptAdmin     = "admin"
)

// Employee status
const (
	EmployeeStatusActive   = "active"
	EmployeeStatusOnLeave  = "on_leave"
	EmployeeStatusResigned = "resigned"
)

// Employee production-team HR record
type Employee struct {
	ID            string     `json:"id" gorm:"primaryKey;size:32"`
	EmpCode       string     `json:"emp_code" gorm:"size:50;uniqueIndex;not null"`
	Name          string     `json:"name" gorm:"size:200;not null"`
	Designation   string     `json:"designation" gorm:"size:100"`
	Department    string     `json:"department" gorm:"size:20;not null;index"`
	Phone         string     `json:"phone" gorm:"size:20"`
	Email         string     `json:"email" gorm:"size:100"`
	Address       string     `json:"address" gorm:"size:500"`
	AadhaarNumber string     `json:"aadhaar_number" gorm:"size:20"`
	DateOfJoining *time.Time `json:"date_of_joining"`
	DateOfLeaving *time.Time `json:"date_of_leaving"`
	MonthlySalary *float64   `json:"monthly_salary" gorm:"type:decimal(12,2)"`
	PhotoURL      string     `json:"photo_url" gorm:"size:512"`
	Status        string     `json:"status" gorm:"size:20;not null;default:active"`
	Notes         string     `json:"notes" gorm:"type:text"`
	CreatedBy     string     `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`
}

func (Employee) TableName() string {
	return "erp_employees"
}
