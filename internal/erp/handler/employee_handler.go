package handler

import (
	"fmt"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler production-team HR endpoints
type EmployeeHandler struct {
	svc *service.EmployeeService
}

func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// ListEmployees employee list
// GET /api/v1/employees?search=xxx&department=xxx&status=xxx&page=1&page_size=20
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":     c.Query("search"),
		"department": c.Query("department"),
		"status":     c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list employees: "+err.Error())
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// GetEmployee employee detail
// GET /api/v1/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	emp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "employee not found")
		return
	}
	Success(c, emp)
}

// CreateEmployee create employee
// POST /api/v1/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	emp, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "create employee: "+err.Error())
		return
	}
	Created(c, emp)
}

// UpdateEmployee update employee
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	emp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err, "employee not found")
		return
	}
	Success(c, emp)
}

// UploadPhoto upload employee photo
// POST /api/v1/employees/:id/photo (multipart form, field "file")
func (h *EmployeeHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "open file: "+err.Error())
		return
	}
	defer file.Close()

	emp, err := h.svc.UploadPhoto(c.Request.Context(), c.Param("id"),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		ServiceError(c, err, "employee not found")
		return
	}
	Success(c, emp)
}

// DownloadPhoto stream employee photo
// GET /api/v1/employees/:id/photo
func (h *EmployeeHandler) DownloadPhoto(c *gin.Context) {
	object, emp, err := h.svc.DownloadPhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "photo not found")
		return
	}
	defer object.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", emp.EmpCode+".jpg"))
	c.DataFromReader(200, -1, "application/octet-stream", object, nil)
}

// DeleteEmployee delete employee
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err, "employee not found")
		return
	}
	Success(c, nil)
}

// Headcount active headcount per department
// GET /api/v1/employees/headcount
func (h *EmployeeHandler) Headcount(c *gin.Context) {
	counts, err := h.svc.Headcount(c.Request.Context())
	if err != nil {
		InternalError(c, "headcount: "+err.Error())
		return
	}
	Success(c, counts)
}
