package handler

import (
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler dashboard and export endpoints
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Dashboard factory-wide summary
// GET /api/v1/reports/dashboard?refresh=true
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dash, err := h.svc.GetDashboard(c.Request.Context(), c.Query("refresh") == "true")
	if err != nil {
		InternalError(c, "dashboard: "+err.Error())
		return
	}
	Success(c, dash)
}

// ExportPending download the pending-items rollup as xlsx
// GET /api/v1/reports/pending-export
func (h *ReportHandler) ExportPending(c *gin.Context) {
	f, filename, err := h.svc.ExportPending(c.Request.Context())
	if err != nil {
		InternalError(c, "export pending: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
