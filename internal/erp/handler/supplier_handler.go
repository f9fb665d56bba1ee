package handler

import (
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// SupplierHandler supplier endpoints
type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// ListSuppliers supplier list
// GET /api/v1/suppliers?search=xxx&type=xxx&rating=xxx&status=xxx&page=1&page_size=20
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"type":   c.Query("type"),
		"rating": c.Query("rating"),
		"status": c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list suppliers: "+err.Error())
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// GetSupplier supplier detail
// GET /api/v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "supplier not found")
		return
	}
	Success(c, supplier)
}

// CreateSupplier create supplier
// POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "create supplier: "+err.Error())
		return
	}
	Created(c, supplier)
}

// UpdateSupplier update supplier
// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err, "supplier not found")
		return
	}
	Success(c, supplier)
}

// ScoreSupplier record evaluation scores
// POST /api/v1/suppliers/:id/score
func (h *SupplierHandler) ScoreSupplier(c *gin.Context) {
	var req service.ScoreSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Score(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err, "supplier not found")
		return
	}
	Success(c, supplier)
}

// DeleteSupplier delete supplier
// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err, "supplier not found")
		return
	}
	Success(c, nil)
}
