package handler

import (
	"errors"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/reconcile"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// ProcurementHandler pending requirements, the BOM→PO wizard, POs and GRNs
type ProcurementHandler struct {
	svc *service.ProcurementService
}

func NewProcurementHandler(svc *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{svc: svc}
}

// Pending pending requirements grouped by BOM
// GET /api/v1/procurement/pending
func (h *ProcurementHandler) Pending(c *gin.Context) {
	groups, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		InternalError(c, "compute pending: "+err.Error())
		return
	}
	Success(c, gin.H{"items": groups})
}

// PendingItems pending requirements grouped by item identity
// GET /api/v1/procurement/pending-items
func (h *ProcurementHandler) PendingItems(c *gin.Context) {
	groups, err := h.svc.PendingItems(c.Request.Context())
	if err != nil {
		InternalError(c, "compute pending: "+err.Error())
		return
	}
	Success(c, gin.H{"items": groups})
}

// ==================== wizard ====================

// StartWizard open a BOM→PO wizard session
// POST /api/v1/procurement/wizard
func (h *ProcurementHandler) StartWizard(c *gin.Context) {
	session, err := h.svc.StartWizard(c.Request.Context(), GetUserID(c))
	if err != nil {
		InternalError(c, "start wizard: "+err.Error())
		return
	}
	Created(c, session)
}

// GetWizard wizard session state
// GET /api/v1/procurement/wizard/:id
func (h *ProcurementHandler) GetWizard(c *gin.Context) {
	session, err := h.svc.GetWizard(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "wizard session not found or expired")
		return
	}
	Success(c, session)
}

type selectItemsRequest struct {
	BomItemIDs []string `json:"bom_item_ids" binding:"required,min=1"`
}

// SelectItems choose pending items
// POST /api/v1/procurement/wizard/:id/items
func (h *ProcurementHandler) SelectItems(c *gin.Context) {
	var req selectItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	session, err := h.svc.SelectItems(c.Request.Context(), c.Param("id"), req.BomItemIDs)
	if err != nil {
		wizardError(c, err)
		return
	}
	Success(c, session)
}

type assignSuppliersRequest struct {
	Assignments []reconcile.SupplierAssignment `json:"assignments" binding:"required,min=1"`
}

// AssignSuppliers allocate selected items to suppliers
// POST /api/v1/procurement/wizard/:id/suppliers
func (h *ProcurementHandler) AssignSuppliers(c *gin.Context) {
	var req assignSuppliersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	session, err := h.svc.AssignSuppliers(c.Request.Context(), c.Param("id"), req.Assignments)
	if err != nil {
		wizardError(c, err)
		return
	}
	Success(c, session)
}

// Review validated supplier-grouped drafts
// GET /api/v1/procurement/wizard/:id/review
func (h *ProcurementHandler) Review(c *gin.Context) {
	state, err := h.svc.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		wizardError(c, err)
		return
	}
	Success(c, state)
}

// CancelWizard discard an in-flight wizard session
// DELETE /api/v1/procurement/wizard/:id
func (h *ProcurementHandler) CancelWizard(c *gin.Context) {
	if err := h.svc.CancelWizard(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err, "wizard session not found or expired")
		return
	}
	Success(c, nil)
}

// Submit create purchase orders from the reviewed drafts
// POST /api/v1/procurement/wizard/:id/submit
func (h *ProcurementHandler) Submit(c *gin.Context) {
	result, err := h.svc.Submit(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		wizardError(c, err)
		return
	}
	Success(c, result)
}

// wizardError distinguishes validation failures (with their violation
// list) from missing sessions and real faults
func wizardError(c *gin.Context, err error) {
	var verrs reconcile.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(400, Response{
			Code:    40000,
			Message: verrs.Error(),
			Data:    gin.H{"violations": verrs},
		})
		return
	}
	ServiceError(c, err, "wizard session not found or expired")
}

// ==================== purchase orders ====================

type createPOsRequest struct {
	Assignments []reconcile.SupplierAssignment `json:"assignments" binding:"required,min=1"`
}

// CreatePOs create purchase orders directly from supplier assignments
// POST /api/v1/purchase-orders
func (h *ProcurementHandler) CreatePOs(c *gin.Context) {
	var req createPOsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.CreatePOs(c.Request.Context(), GetUserID(c), req.Assignments)
	if err != nil {
		wizardError(c, err)
		return
	}
	Created(c, result)
}

// ListPOs purchase order list
// GET /api/v1/purchase-orders?supplier_id=xxx&status=xxx&search=xxx
func (h *ProcurementHandler) ListPOs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"supplier_id": c.Query("supplier_id"),
		"status":      c.Query("status"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.ListPOs(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list purchase orders: "+err.Error())
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// GetPO purchase order detail
// GET /api/v1/purchase-orders/:id
func (h *ProcurementHandler) GetPO(c *gin.Context) {
	po, err := h.svc.GetPO(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "purchase order not found")
		return
	}
	Success(c, po)
}

// ApprovePO approve a draft PO
// POST /api/v1/purchase-orders/:id/approve
func (h *ProcurementHandler) ApprovePO(c *gin.Context) {
	po, err := h.svc.ApprovePO(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		ServiceError(c, err, "purchase order not found")
		return
	}
	Success(c, po)
}

// CancelPO cancel a PO
// POST /api/v1/purchase-orders/:id/cancel
func (h *ProcurementHandler) CancelPO(c *gin.Context) {
	po, err := h.svc.CancelPO(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "purchase order not found")
		return
	}
	Success(c, po)
}

// ==================== goods receipt ====================

// ReceiveGoods record a GRN against a PO
// POST /api/v1/purchase-orders/:id/receive
func (h *ProcurementHandler) ReceiveGoods(c *gin.Context) {
	var req service.ReceiveGoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	grn, err := h.svc.ReceiveGoods(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err, "purchase order not found")
		return
	}
	Created(c, grn)
}

// ListGRNs GRNs of a PO
// GET /api/v1/purchase-orders/:id/receipts
func (h *ProcurementHandler) ListGRNs(c *gin.Context) {
	grns, err := h.svc.ListGRNs(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "list receipts: "+err.Error())
		return
	}
	Success(c, gin.H{"items": grns})
}
