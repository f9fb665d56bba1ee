package handler

import (
	"errors"
	"strconv"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// Handlers ERP handler set
type Handlers struct {
	Bom         *BomHandler
	Procurement *ProcurementHandler
	Supplier    *SupplierHandler
	Employee    *EmployeeHandler
	Report      *ReportHandler
}

// NewHandlers creates the ERP handler set
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Bom:         NewBomHandler(services.Bom),
		Procurement: NewProcurementHandler(services.Procurement),
		Supplier:    NewSupplierHandler(services.Supplier),
		Employee:    NewEmployeeHandler(services.Employee),
		Report:      NewReportHandler(services.Report),
	}
}

// === response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// ServiceError maps a service error onto the right response bucket
func ServiceError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, notFoundMsg)
		return
	}
	InternalError(c, err.Error())
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func ListOK(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}
