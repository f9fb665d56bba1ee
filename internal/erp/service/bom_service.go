package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// BomService BOM authoring service
type BomService struct {
	repo        *repository.BomRepository
	minioClient *minio.Client
	bucketName  string
	logger      *zap.Logger
}

func NewBomService(repo *repository.BomRepository, minioClient *minio.Client, bucketName string, logger *zap.Logger) *BomService {
	return &BomService{repo: repo, minioClient: minioClient, bucketName: bucketName, logger: logger}
}

// BomItemInput one BOM line in create/update requests
type BomItemInput struct {
	Category      string   `json:"category" binding:"required,oneof=Fabric Item"`
	ItemID        *string  `json:"item_id"`
	ItemName      string   `json:"item_name" binding:"required"`
	FabricName    string   `json:"fabric_name"`
	FabricColor   string   `json:"fabric_color"`
	FabricGsm     string   `json:"fabric_gsm"`
	UnitOfMeasure string   `json:"unit_of_measure"`
	QtyTotal      *float64 `json:"qty_total"`
	ToOrder       *float64 `json:"to_order"`
	Remarks       string   `json:"remarks"`
}

// CreateBomRequest create BOM request
type CreateBomRequest struct {
	ProductName string         `json:"product_name" binding:"required"`
	OrderRef    string         `json:"order_ref"`
	Notes       string         `json:"notes"`
	Items       []BomItemInput `json:"items"`
}

// UpdateBomRequest update BOM request. Items, when present, replace all lines.
type UpdateBomRequest struct {
	ProductName *string         `json:"product_name"`
	OrderRef    *string         `json:"order_ref"`
	Notes       *string         `json:"notes"`
	Items       *[]BomItemInput `json:"items"`
}

// ImportResult import outcome counts
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// List lists BOMs
func (s *BomService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Bom, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one BOM with lines
func (s *BomService) Get(ctx context.Context, id string) (*entity.Bom, error) {
	return s.repo.FindByID(ctx, id)
}

// Create creates a BOM with its lines
func (s *BomService) Create(ctx context.Context, userID string, req *CreateBomRequest) (*entity.Bom, error) {
	number, err := s.repo.GenerateNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate bom number: %w", err)
	}

	bom := &entity.Bom{
		ID:          uuid.New().String()[:32],
		BomNumber:   number,
		ProductName: req.ProductName,
		OrderRef:    req.OrderRef,
		Status:      entity.BomStatusDraft,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}
	bom.Items = buildBomItems(bom.ID, req.Items)

	if err := s.repo.Create(ctx, bom); err != nil {
		return nil, fmt.Errorf("create bom: %w", err)
	}
	return bom, nil
}

// Update updates a BOM; only drafts are editable
func (s *BomService) Update(ctx context.Context, id string, req *UpdateBomRequest) (*entity.Bom, error) {
	bom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bom.Status != entity.BomStatusDraft {
		return nil, fmt.Errorf("only draft BOMs can be edited")
	}

	if req.ProductName != nil {
		bom.ProductName = *req.ProductName
	}
	if req.OrderRef != nil {
		bom.OrderRef = *req.OrderRef
	}
	if req.Notes != nil {
		bom.Notes = *req.Notes
	}

	if req.Items != nil {
		items := buildBomItems(bom.ID, *req.Items)
		if err := s.repo.ReplaceItems(ctx, bom.ID, items); err != nil {
			return nil, fmt.Errorf("replace items: %w", err)
		}
	}

	bom.Items = nil
	if err := s.repo.Update(ctx, bom); err != nil {
		return nil, fmt.Errorf("update bom: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

// Approve marks a draft BOM approved
func (s *BomService) Approve(ctx context.Context, id, userID string) (*entity.Bom, error) {
	bom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bom.Status != entity.BomStatusDraft {
		return nil, fmt.Errorf("only draft BOMs can be approved")
	}
	if len(bom.Items) == 0 {
		return nil, fmt.Errorf("BOM has no lines")
	}

	now := time.Now()
	bom.Status = entity.BomStatusApproved
	bom.ApprovedBy = &userID
	bom.ApprovedAt = &now
	bom.Items = nil

	if err := s.repo.Update(ctx, bom); err != nil {
		return nil, fmt.Errorf("approve bom: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

// Close marks a BOM closed so it stops feeding pending requirements
func (s *BomService) Close(ctx context.Context, id string) (*entity.Bom, error) {
	bom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bom.Status == entity.BomStatusClosed {
		return nil, fmt.Errorf("BOM already closed")
	}

	bom.Status = entity.BomStatusClosed
	bom.Items = nil
	if err := s.repo.Update(ctx, bom); err != nil {
		return nil, fmt.Errorf("close bom: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

// Delete soft-deletes a BOM
func (s *BomService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func buildBomItems(bomID string, inputs []BomItemInput) []entity.BomItem {
	items := make([]entity.BomItem, 0, len(inputs))
	for i, in := range inputs {
		item := entity.BomItem{
			ID:            uuid.New().String()[:32],
			BomID:         bomID,
			Category:      in.Category,
			ItemID:        in.ItemID,
			ItemName:      in.ItemName,
			FabricName:    in.FabricName,
			FabricColor:   in.FabricColor,
			FabricGsm:     in.FabricGsm,
			UnitOfMeasure: in.UnitOfMeasure,
			QtyTotal:      in.QtyTotal,
			ToOrder:       in.ToOrder,
			Remarks:       in.Remarks,
			SortOrder:     i + 1,
		}
		if item.UnitOfMeasure == "" {
			item.UnitOfMeasure = "pcs"
		}
		items = append(items, item)
	}
	return items
}

// ==================== Excel / CSV import ====================

var bomImportHeaders = []string{
	"Category", "Item Name", "Fabric Name", "Fabric Color", "GSM",
	"Unit", "Qty Total", "To Order", "Remarks",
}

// ImportExcel appends lines to a draft BOM from an xlsx upload
func (s *BomService) ImportExcel(ctx context.Context, bomID string, f *excelize.File) (*ImportResult, error) {
	bom, err := s.repo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	if bom.Status != entity.BomStatusDraft {
		return nil, fmt.Errorf("only draft BOMs can be imported into")
	}

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read excel: %w", err)
	}

	result := &ImportResult{}
	if len(rows) < 2 {
		return result, nil
	}

	sortOrder := len(bom.Items)
	var items []entity.BomItem
	for i, row := range rows[1:] {
		item, reason := parseBomRow(row)
		if item == nil {
			result.Skipped++
			if reason != "" {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i+2, reason))
			}
			continue
		}
		sortOrder++
		item.ID = uuid.New().String()[:32]
		item.BomID = bomID
		item.SortOrder = sortOrder
		items = append(items, *item)
		result.Created++
	}

	if len(items) > 0 {
		all := append(bom.Items, items...)
		if err := s.repo.ReplaceItems(ctx, bomID, all); err != nil {
			return nil, fmt.Errorf("save imported items: %w", err)
		}
	}

	s.logger.Info("bom excel import",
		zap.String("bom_id", bomID),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// ImportCSV appends lines from a CSV exported by legacy desktop tools.
// Those exports are Windows-1252, not UTF-8.
func (s *BomService) ImportCSV(ctx context.Context, bomID string, reader io.Reader) (*ImportResult, error) {
	bom, err := s.repo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	if bom.Status != entity.BomStatusDraft {
		return nil, fmt.Errorf("only draft BOMs can be imported into")
	}

	utf8Reader := transform.NewReader(reader, charmap.Windows1252.NewDecoder())

	result := &ImportResult{}
	sortOrder := len(bom.Items)
	var items []entity.BomItem

	scanner := bufio.NewScanner(utf8Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || lineNo == 1 { // header
			continue
		}

		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.Trim(strings.TrimSpace(fields[i]), "\"")
		}

		item, reason := parseBomRow(fields)
		if item == nil {
			result.Skipped++
			if reason != "" {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s", lineNo, reason))
			}
			continue
		}
		sortOrder++
		item.ID = uuid.New().String()[:32]
		item.BomID = bomID
		item.SortOrder = sortOrder
		items = append(items, *item)
		result.Created++
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("read csv: %w", scanErr)
	}

	if len(items) > 0 {
		all := append(bom.Items, items...)
		if err := s.repo.ReplaceItems(ctx, bomID, all); err != nil {
			return nil, fmt.Errorf("save imported items: %w", err)
		}
	}

	s.logger.Info("bom csv import",
		zap.String("bom_id", bomID),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// parseBomRow maps one import row onto a BOM line. Column order follows
// bomImportHeaders. Returns nil with a reason when the row is unusable.
func parseBomRow(row []string) (*entity.BomItem, string) {
	if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
		return nil, "item name missing"
	}

	item := &entity.BomItem{
		Category:      strings.TrimSpace(row[0]),
		ItemName:      strings.TrimSpace(row[1]),
		UnitOfMeasure: "pcs",
	}
	switch strings.ToLower(item.Category) {
	case "fabric":
		item.Category = entity.CategoryFabric
	case "item", "":
		item.Category = entity.CategoryItem
	default:
		return nil, fmt.Sprintf("unknown category %q", item.Category)
	}

	if len(row) > 2 {
		item.FabricName = strings.TrimSpace(row[2])
	}
	if len(row) > 3 {
		item.FabricColor = strings.TrimSpace(row[3])
	}
	if len(row) > 4 {
		item.FabricGsm = strings.TrimSpace(row[4])
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		item.UnitOfMeasure = strings.TrimSpace(row[5])
	}
	if len(row) > 6 && strings.TrimSpace(row[6]) != "" {
		if q, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64); err == nil {
			item.QtyTotal = &q
		} else {
			return nil, fmt.Sprintf("bad qty_total %q", row[6])
		}
	}
	if len(row) > 7 && strings.TrimSpace(row[7]) != "" {
		if q, err := strconv.ParseFloat(strings.TrimSpace(row[7]), 64); err == nil {
			item.ToOrder = &q
		} else {
			return nil, fmt.Sprintf("bad to_order %q", row[7])
		}
	}
	if len(row) > 8 {
		item.Remarks = strings.TrimSpace(row[8])
	}

	return item, ""
}

// GenerateTemplate builds the import template xlsx
func (s *BomService) GenerateTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "BOM"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})

	for i, h := range bomImportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	colWidths := []float64{10, 24, 20, 14, 8, 8, 10, 10, 24}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	sample := []string{"Fabric", "Lycra Black 200", "Lycra", "Black", "200", "kg", "100", "", "main body"}
	for j, val := range sample {
		col, _ := excelize.ColumnNumberToName(j + 1)
		f.SetCellValue(sheet, fmt.Sprintf("%s2", col), val)
	}

	return f, nil
}

// ==================== Attachments ====================

// UploadAttachment stores a design sheet / tech pack against a BOM
func (s *BomService) UploadAttachment(ctx context.Context, bomID, userID, fileName, contentType string, reader io.Reader, fileSize int64) (*entity.BomAttachment, error) {
	if _, err := s.repo.FindByID(ctx, bomID); err != nil {
		return nil, err
	}
	if s.minioClient == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	objectName := fmt.Sprintf("boms/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))
	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	att := &entity.BomAttachment{
		ID:         uuid.New().String()[:32],
		BomID:      bomID,
		FileName:   fileName,
		FilePath:   objectName,
		FileSize:   fileSize,
		MimeType:   contentType,
		UploadedBy: userID,
	}
	if err := s.repo.AddAttachment(ctx, att); err != nil {
		return nil, fmt.Errorf("save attachment: %w", err)
	}
	return att, nil
}

// ListAttachments lists attachments of a BOM
func (s *BomService) ListAttachments(ctx context.Context, bomID string) ([]entity.BomAttachment, error) {
	return s.repo.FindAttachments(ctx, bomID)
}

// DownloadAttachment streams one attachment from object storage
func (s *BomService) DownloadAttachment(ctx context.Context, id string) (io.ReadCloser, *entity.BomAttachment, error) {
	att, err := s.repo.FindAttachmentByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.minioClient == nil {
		return nil, att, fmt.Errorf("storage not configured")
	}

	object, err := s.minioClient.GetObject(ctx, s.bucketName, att.FilePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	return object, att, nil
}

// DeleteAttachment removes an attachment record and its object
func (s *BomService) DeleteAttachment(ctx context.Context, id string) error {
	att, err := s.repo.FindAttachmentByID(ctx, id)
	if err != nil {
		return err
	}
	if s.minioClient != nil {
		if err := s.minioClient.RemoveObject(ctx, s.bucketName, att.FilePath, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("remove object failed", zap.String("path", att.FilePath), zap.Error(err))
		}
	}
	return s.repo.DeleteAttachment(ctx, id)
}
