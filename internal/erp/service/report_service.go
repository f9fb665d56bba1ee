package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/reconcile"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	dashboardKey = "erp:dashboard"
	dashboardTTL = 60 * time.Second
)

// ReportService dashboard snapshot and pending exports
type ReportService struct {
	bomRepo      *repository.BomRepository
	poRepo       *repository.PORepository
	supplierRepo *repository.SupplierRepository
	employeeRepo *repository.EmployeeRepository
	rdb          *redis.Client
	logger       *zap.Logger
	calc         *reconcile.Calculator
}

func NewReportService(
	bomRepo *repository.BomRepository,
	poRepo *repository.PORepository,
	supplierRepo *repository.SupplierRepository,
	employeeRepo *repository.EmployeeRepository,
	rdb *redis.Client,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		bomRepo:      bomRepo,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		employeeRepo: employeeRepo,
		rdb:          rdb,
		logger:       logger,
		calc:         reconcile.NewCalculator(reconcile.WithLogger(logger)),
	}
}

// Dashboard factory-wide summary
type Dashboard struct {
	OpenBoms         int64            `json:"open_boms"`
	OpenPOs          int64            `json:"open_pos"`
	ActiveSuppliers  int64            `json:"active_suppliers"`
	PendingItems     int              `json:"pending_items"`
	PendingQuantity  float64          `json:"pending_quantity"`
	Headcount        map[string]int64 `json:"headcount"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// GetDashboard returns the dashboard snapshot, cached briefly in redis so
// repeated loads do not recompute the reconciliation.
func (s *ReportService) GetDashboard(ctx context.Context, refresh bool) (*Dashboard, error) {
	if !refresh {
		if data, err := s.rdb.Get(ctx, dashboardKey).Bytes(); err == nil {
			var cached Dashboard
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	dash, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(dash); err == nil {
		if err := s.rdb.Set(ctx, dashboardKey, data, dashboardTTL).Err(); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return dash, nil
}

func (s *ReportService) buildDashboard(ctx context.Context) (*Dashboard, error) {
	boms, err := s.bomRepo.FindActiveWithItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load boms: %w", err)
	}
	poItems, err := s.poRepo.FindOpenOrderLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}

	var bomLines []reconcile.BomLine
	for _, bom := range boms {
		for _, item := range bom.Items {
			bomLines = append(bomLines, toBomLine(item))
		}
	}
	orderLines := make([]reconcile.OrderLine, 0, len(poItems))
	for _, item := range poItems {
		orderLines = append(orderLines, toOrderLine(item))
	}
	pending := s.calc.Compute(bomLines, orderLines)

	var pendingQty float64
	for _, req := range pending {
		pendingQty += req.RemainingQuantity
	}

	_, openPOs, err := s.poRepo.FindAll(ctx, 1, 1, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("count pos: %w", err)
	}
	_, suppliers, err := s.supplierRepo.FindAll(ctx, 1, 1, map[string]string{"status": entity.SupplierStatusActive})
	if err != nil {
		return nil, fmt.Errorf("count suppliers: %w", err)
	}
	headcount, err := s.employeeRepo.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}

	return &Dashboard{
		OpenBoms:        int64(len(boms)),
		OpenPOs:         openPOs,
		ActiveSuppliers: suppliers,
		PendingItems:    len(pending),
		PendingQuantity: pendingQty,
		Headcount:       headcount,
		GeneratedAt:     time.Now(),
	}, nil
}

// ==================== pending export ====================

var pendingExportHeaders = []string{
	"Item", "Category", "Fabric", "Color", "GSM", "Unit",
	"Required", "Ordered", "Remaining", "BOMs",
}

// ExportPending renders the pending-items rollup as xlsx
func (s *ReportService) ExportPending(ctx context.Context) (*excelize.File, string, error) {
	boms, err := s.bomRepo.FindActiveWithItems(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load boms: %w", err)
	}
	poItems, err := s.poRepo.FindOpenOrderLines(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load order lines: %w", err)
	}

	var bomLines []reconcile.BomLine
	meta := make(map[string]reconcile.BomMeta, len(boms))
	for _, bom := range boms {
		meta[bom.ID] = reconcile.BomMeta{
			BomID:       bom.ID,
			BomNumber:   bom.BomNumber,
			ProductName: bom.ProductName,
		}
		for _, item := range bom.Items {
			bomLines = append(bomLines, toBomLine(item))
		}
	}
	orderLines := make([]reconcile.OrderLine, 0, len(poItems))
	for _, item := range poItems {
		orderLines = append(orderLines, toOrderLine(item))
	}

	pending := s.calc.Compute(bomLines, orderLines)
	groups := reconcile.GroupByItem(pending, meta)

	f := excelize.NewFile()
	sheet := "Pending"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range pendingExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	var totalRemaining float64
	for rowIdx, group := range groups {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), group.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), string(group.Category))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), group.FabricName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), group.FabricColor)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), group.FabricGsm)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), group.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), group.TotalRequired)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), group.TotalOrdered)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), group.TotalRemaining)
		totalRemaining += group.TotalRemaining

		bomNumbers := ""
		for i, c := range group.Breakdown {
			if i > 0 {
				bomNumbers += ", "
			}
			bomNumbers += c.BomNumber
		}
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), bomNumbers)
	}

	summaryRow := len(groups) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("I%d", summaryRow), totalRemaining)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("J%d", summaryRow), summaryStyle)

	colWidths := []float64{26, 10, 18, 12, 8, 8, 12, 12, 12, 30}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("pending_items_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
