package handler

import (
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// BomHandler BOM endpoints
type BomHandler struct {
	svc *service.BomService
}

func NewBomHandler(svc *service.BomService) *BomHandler {
	return &BomHandler{svc: svc}
}

// ListBoms BOM list
// GET /api/v1/boms?search=xxx&status=xxx&order_ref=xxx&page=1&page_size=20
func (h *BomHandler) ListBoms(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":    c.Query("search"),
		"status":    c.Query("status"),
		"order_ref": c.Query("order_ref"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list boms: "+err.Error())
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// GetBom BOM detail with lines
// GET /api/v1/boms/:id
func (h *BomHandler) GetBom(c *gin.Context) {
	bom, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "bom not found")
		return
	}
	Success(c, bom)
}

// CreateBom create BOM
// POST /api/v1/boms
func (h *BomHandler) CreateBom(c *gin.Context) {
	var req service.CreateBomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	bom, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "create bom: "+err.Error())
		return
	}
	Created(c, bom)
}

// UpdateBom update BOM (drafts only)
// PUT /api/v1/boms/:id
func (h *BomHandler) UpdateBom(c *gin.Context) {
	var req service.UpdateBomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	bom, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err, "bom not found")
		return
	}
	Success(c, bom)
}

// ApproveBom approve a draft BOM
// POST /api/v1/boms/:id/approve
func (h *BomHandler) ApproveBom(c *gin.Context) {
	bom, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		ServiceError(c, err, "bom not found")
		return
	}
	Success(c, bom)
}

// CloseBom close a BOM
// POST /api/v1/boms/:id/close
func (h *BomHandler) CloseBom(c *gin.Context) {
	bom, err := h.svc.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "bom not found")
		return
	}
	Success(c, bom)
}

// DeleteBom delete BOM
// DELETE /api/v1/boms/:id
func (h *BomHandler) DeleteBom(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err, "bom not found")
		return
	}
	Success(c, nil)
}

// ImportExcel import BOM lines from xlsx
// POST /api/v1/boms/:id/import (multipart form, field "file")
func (h *BomHandler) ImportExcel(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "upload an Excel file")
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		BadRequest(c, "cannot parse Excel file: "+err.Error())
		return
	}
	defer f.Close()

	result, err := h.svc.ImportExcel(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

// ImportCSV import BOM lines from a legacy CSV export
// POST /api/v1/boms/:id/import-csv (multipart form, field "file")
func (h *BomHandler) ImportCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "upload a CSV file")
		return
	}
	defer file.Close()

	result, err := h.svc.ImportCSV(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

// DownloadTemplate import template xlsx
// GET /api/v1/boms/template
func (h *BomHandler) DownloadTemplate(c *gin.Context) {
	f, err := h.svc.GenerateTemplate()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"BOM_Import_Template.xlsx\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// UploadAttachment attach a file to a BOM
// POST /api/v1/boms/:id/attachments (multipart form, field "file")
func (h *BomHandler) UploadAttachment(c *gin.Context) {
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

	att, err := h.svc.UploadAttachment(c.Request.Context(), c.Param("id"), GetUserID(c),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		ServiceError(c, err, "bom not found")
		return
	}
	Created(c, att)
}

// ListAttachments attachments of a BOM
// GET /api/v1/boms/:id/attachments
func (h *BomHandler) ListAttachments(c *gin.Context) {
	atts, err := h.svc.ListAttachments(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "list attachments: "+err.Error())
		return
	}
	Success(c, gin.H{"items": atts})
}

// DownloadAttachment stream one attachment
// GET /api/v1/boms/:id/attachments/:attId
func (h *BomHandler) DownloadAttachment(c *gin.Context) {
	object, att, err := h.svc.DownloadAttachment(c.Request.Context(), c.Param("attId"))
	if err != nil {
		ServiceError(c, err, "attachment not found")
		return
	}
	defer object.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+att.FileName+"\"")
	c.DataFromReader(200, att.FileSize, att.MimeType, object, nil)
}

// DeleteAttachment remove one attachment
// DELETE /api/v1/boms/:id/attachments/:attId
func (h *BomHandler) DeleteAttachment(c *gin.Context) {
	if err := h.svc.DeleteAttachment(c.Request.Context(), c.Param("attId")); err != nil {
		ServiceError(c, err, "attachment not found")
		return
	}
	Success(c, nil)
}
