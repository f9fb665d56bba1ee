package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/reconcile"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	wizardKeyPrefix = "erp:wizard:"
	wizardTTL       = 2 * time.Hour
)

// ProcurementService pending-requirement computation and the BOM→PO flow
type ProcurementService struct {
	bomRepo      *repository.BomRepository
	poRepo       *repository.PORepository
	supplierRepo *repository.SupplierRepository
	grnRepo      *repository.GoodsReceiptRepository
	rdb          *redis.Client
	logger       *zap.Logger
	calc         *reconcile.Calculator
}

func NewProcurementService(
	bomRepo *repository.BomRepository,
	poRepo *repository.PORepository,
	supplierRepo *repository.SupplierRepository,
	grnRepo *repository.GoodsReceiptRepository,
	rdb *redis.Client,
	logger *zap.Logger,
) *ProcurementService {
	return &ProcurementService{
		bomRepo:      bomRepo,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		grnRepo:      grnRepo,
		rdb:          rdb,
		logger:       logger,
		calc:         reconcile.NewCalculator(reconcile.WithLogger(logger)),
	}
}

// ==================== entity → reconcile mapping ====================

func toBomLine(item entity.BomItem) reconcile.BomLine {
	category := reconcile.Item
	if item.Category == entity.CategoryFabric {
		category = reconcile.Fabric
	}
	line := reconcile.BomLine{
		ID:          item.ID,
		BomID:       item.BomID,
		Category:    category,
		ItemName:    item.ItemName,
		FabricName:  item.FabricName,
		FabricColor: item.FabricColor,
		FabricGsm:   item.FabricGsm,
		Unit:        item.UnitOfMeasure,
		QtyTotal:    item.QtyTotal,
		ToOrder:     item.ToOrder,
	}
	if item.ItemID != nil {
		line.ItemID = *item.ItemID
	}
	return line
}

func toOrderLine(item entity.POItem) reconcile.OrderLine {
	category := reconcile.Item
	if item.ItemType == entity.ItemTypeFabric {
		category = reconcile.Fabric
	}
	line := reconcile.OrderLine{
		ID:          item.ID,
		POID:        item.POID,
		Category:    category,
		ItemName:    item.ItemName,
		FabricName:  item.FabricName,
		FabricColor: item.FabricColor,
		FabricGsm:   item.FabricGsm,
		Quantity:    item.Quantity,
	}
	if item.BomID != nil {
		line.BomID = *item.BomID
	}
	if item.ItemID != nil {
		line.ItemID = *item.ItemID
	}
	return line
}

// pendingInputs loads both sides of the reconciliation
func (s *ProcurementService) pendingInputs(ctx context.Context) ([]reconcile.BomLine, []reconcile.OrderLine, map[string]reconcile.BomMeta, map[string]reconcile.BomLine, error) {
	boms, err := s.bomRepo.FindActiveWithItems(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load boms: %w", err)
	}
	poItems, err := s.poRepo.FindOpenOrderLines(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load order lines: %w", err)
	}

	var bomLines []reconcile.BomLine
	meta := make(map[string]reconcile.BomMeta, len(boms))
	byID := make(map[string]reconcile.BomLine)
	for _, bom := range boms {
		meta[bom.ID] = reconcile.BomMeta{
			BomID:       bom.ID,
			BomNumber:   bom.BomNumber,
			ProductName: bom.ProductName,
		}
		for _, item := range bom.Items {
			line := toBomLine(item)
			bomLines = append(bomLines, line)
			byID[line.ID] = line
		}
	}

	orderLines := make([]reconcile.OrderLine, 0, len(poItems))
	for _, item := range poItems {
		orderLines = append(orderLines, toOrderLine(item))
	}

	return bomLines, orderLines, meta, byID, nil
}

// Pending computes pending requirements grouped per BOM
func (s *ProcurementService) Pending(ctx context.Context) ([]reconcile.BomGroup, error) {
	bomLines, orderLines, meta, _, err := s.pendingInputs(ctx)
	if err != nil {
		return nil, err
	}
	pending := s.calc.Compute(bomLines, orderLines)
	return reconcile.GroupByBom(pending, meta), nil
}

// PendingItems computes pending requirements grouped per item identity
func (s *ProcurementService) PendingItems(ctx context.Context) ([]reconcile.ItemGroup, error) {
	bomLines, orderLines, meta, _, err := s.pendingInputs(ctx)
	if err != nil {
		return nil, err
	}
	pending := s.calc.Compute(bomLines, orderLines)
	return reconcile.GroupByItem(pending, meta), nil
}

// ==================== wizard ====================

// WizardState session plus the data the current step needs
type WizardState struct {
	Session *reconcile.WizardSession `json:"session"`
	Drafts  []reconcile.Draft        `json:"drafts,omitempty"`
}

// StartWizard opens a new BOM→PO wizard session
func (s *ProcurementService) StartWizard(ctx context.Context, userID string) (*reconcile.WizardSession, error) {
	now := time.Now()
	session := &reconcile.WizardSession{
		ID:        uuid.New().String()[:32],
		Step:      reconcile.StepItemSelection,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetWizard loads a wizard session
func (s *ProcurementService) GetWizard(ctx context.Context, id string) (*reconcile.WizardSession, error) {
	return s.loadSession(ctx, id)
}

// SelectItems records the chosen pending items and moves to supplier assignment
func (s *ProcurementService) SelectItems(ctx context.Context, sessionID string, bomItemIDs []string) (*reconcile.WizardSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.At(reconcile.StepItemSelection) {
		return nil, fmt.Errorf("wizard is at %s, not item selection", session.Step)
	}

	// every selected item must still be pending
	pending, _, err := s.pendingByItemID(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range bomItemIDs {
		if _, ok := pending[id]; !ok {
			return nil, fmt.Errorf("item %s is not pending", id)
		}
	}

	session.BomItemIDs = bomItemIDs
	if err := session.Advance(); err != nil {
		return nil, err
	}
	return session, s.saveSession(ctx, session)
}

// AssignSuppliers records supplier allocations and moves to review
func (s *ProcurementService) AssignSuppliers(ctx context.Context, sessionID string, assignments []reconcile.SupplierAssignment) (*reconcile.WizardSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.At(reconcile.StepSupplierAssignment) {
		return nil, fmt.Errorf("wizard is at %s, not supplier assignment", session.Step)
	}

	selected := make(map[string]bool, len(session.BomItemIDs))
	for _, id := range session.BomItemIDs {
		selected[id] = true
	}
	for i := range assignments {
		if !selected[assignments[i].BomItemID] {
			return nil, fmt.Errorf("assignment references unselected item %s", assignments[i].BomItemID)
		}
	}
	if err := s.resolveSuppliers(ctx, assignments); err != nil {
		return nil, err
	}

	session.Assignments = assignments
	if err := session.Advance(); err != nil {
		return nil, err
	}
	return session, s.saveSession(ctx, session)
}

// resolveSuppliers fills in assignment IDs and supplier names, rejecting
// unknown and non-active suppliers
func (s *ProcurementService) resolveSuppliers(ctx context.Context, assignments []reconcile.SupplierAssignment) error {
	supplierIDs := make([]string, 0, len(assignments))
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.New().String()[:32]
		}
		supplierIDs = append(supplierIDs, assignments[i].SupplierID)
	}

	suppliers, err := s.supplierRepo.FindByIDs(ctx, supplierIDs)
	if err != nil {
		return fmt.Errorf("load suppliers: %w", err)
	}
	for i := range assignments {
		a := &assignments[i]
		supplier, ok := suppliers[a.SupplierID]
		if !ok {
			return fmt.Errorf("supplier %s not found", a.SupplierID)
		}
		if supplier.Status != entity.SupplierStatusActive {
			return fmt.Errorf("supplier %s is %s", supplier.Name, supplier.Status)
		}
		a.SupplierName = supplier.Name
	}
	return nil
}

// CancelWizard discards an in-flight session
func (s *ProcurementService) CancelWizard(ctx context.Context, sessionID string) error {
	if _, err := s.loadSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, wizardKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Review validates the whole session and returns the supplier-grouped
// drafts that submit would create. The session stays at review.
func (s *ProcurementService) Review(ctx context.Context, sessionID string) (*WizardState, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.At(reconcile.StepReview) {
		return nil, fmt.Errorf("wizard is at %s, not review", session.Step)
	}

	drafts, err := s.buildDrafts(ctx, session)
	if err != nil {
		return nil, err
	}
	return &WizardState{Session: session, Drafts: drafts}, nil
}

func (s *ProcurementService) buildDrafts(ctx context.Context, session *reconcile.WizardSession) ([]reconcile.Draft, error) {
	bomLines, orderLines, _, byID, err := s.pendingInputs(ctx)
	if err != nil {
		return nil, err
	}
	pending := s.calc.Compute(bomLines, orderLines)
	return reconcile.BuildDrafts(pending, byID, session.Assignments)
}

func (s *ProcurementService) pendingByItemID(ctx context.Context) (map[string]reconcile.PendingRequirement, map[string]reconcile.BomLine, error) {
	bomLines, orderLines, _, byID, err := s.pendingInputs(ctx)
	if err != nil {
		return nil, nil, err
	}
	pending := s.calc.Compute(bomLines, orderLines)
	byItem := make(map[string]reconcile.PendingRequirement, len(pending))
	for _, req := range pending {
		byItem[req.BomItemID] = req
	}
	return byItem, byID, nil
}

// ==================== submit ====================

// SupplierResult outcome of one supplier group's PO creation
type SupplierResult struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	POID         string `json:"po_id,omitempty"`
	PONumber     string `json:"po_number,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SubmitResult partial-success report of a wizard submit
type SubmitResult struct {
	Created []SupplierResult `json:"created"`
	Failed  []SupplierResult `json:"failed"`
}

// Submit turns the reviewed drafts into purchase orders, one transaction
// per supplier group. A failing group does not roll back the others; the
// result reports both sides.
func (s *ProcurementService) Submit(ctx context.Context, sessionID, userID string) (*SubmitResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.At(reconcile.StepReview) {
		return nil, fmt.Errorf("wizard is at %s, not review", session.Step)
	}

	drafts, err := s.buildDrafts(ctx, session)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{}
	for _, draft := range drafts {
		po, err := s.createFromDraft(ctx, userID, draft)
		if err != nil {
			s.logger.Warn("po creation failed",
				zap.String("supplier_id", draft.SupplierID),
				zap.Error(err))
			result.Failed = append(result.Failed, SupplierResult{
				SupplierID:   draft.SupplierID,
				SupplierName: draft.SupplierName,
				Error:        err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, SupplierResult{
			SupplierID:   draft.SupplierID,
			SupplierName: draft.SupplierName,
			POID:         po.ID,
			PONumber:     po.PONumber,
		})
	}

	if len(result.Failed) == 0 {
		if err := session.Advance(); err != nil {
			return nil, err
		}
		if err := s.saveSession(ctx, session); err != nil {
			return nil, err
		}
	}

	s.logger.Info("wizard submit",
		zap.String("session_id", sessionID),
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// CreatePOs creates purchase orders straight from supplier assignments,
// without a wizard session. Validation and per-group transaction semantics
// are the same as a wizard submit.
func (s *ProcurementService) CreatePOs(ctx context.Context, userID string, assignments []reconcile.SupplierAssignment) (*SubmitResult, error) {
	if err := s.resolveSuppliers(ctx, assignments); err != nil {
		return nil, err
	}

	bomLines, orderLines, _, byID, err := s.pendingInputs(ctx)
	if err != nil {
		return nil, err
	}
	pending := s.calc.Compute(bomLines, orderLines)
	drafts, err := reconcile.BuildDrafts(pending, byID, assignments)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{}
	for _, draft := range drafts {
		po, err := s.createFromDraft(ctx, userID, draft)
		if err != nil {
			s.logger.Warn("po creation failed",
				zap.String("supplier_id", draft.SupplierID),
				zap.Error(err))
			result.Failed = append(result.Failed, SupplierResult{
				SupplierID:   draft.SupplierID,
				SupplierName: draft.SupplierName,
				Error:        err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, SupplierResult{
			SupplierID:   draft.SupplierID,
			SupplierName: draft.SupplierName,
			POID:         po.ID,
			PONumber:     po.PONumber,
		})
	}
	return result, nil
}

// createFromDraft creates one supplier's PO. The remaining-quantity check
// is repeated inside the transaction against the lines visible there, so
// an order placed after review but before submit fails this group instead
// of over-ordering.
func (s *ProcurementService) createFromDraft(ctx context.Context, userID string, draft reconcile.Draft) (*entity.PurchaseOrder, error) {
	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String()[:32],
		SupplierID: draft.SupplierID,
		Status:     entity.POStatusDraft,
		Currency:   "INR",
		OrderDate:  &now,
		CreatedBy:  userID,
	}
	for i, line := range draft.Lines {
		bomID := line.BomID
		bomItemID := line.BomItemID
		itemType := entity.ItemTypeItem
		if line.Category == reconcile.Fabric {
			itemType = entity.ItemTypeFabric
		}
		qty := line.Quantity
		item := entity.POItem{
			ID:          uuid.New().String()[:32],
			POID:        po.ID,
			BomID:       &bomID,
			BomItemID:   &bomItemID,
			ItemType:    itemType,
			ItemName:    line.ItemName,
			FabricName:  line.FabricName,
			FabricColor: line.FabricColor,
			FabricGsm:   line.FabricGsm,
			Quantity:    &qty,
			Unit:        line.Unit,
			Status:      entity.POItemStatusPending,
			Remarks:     line.Remarks,
			SortOrder:   i + 1,
		}
		if line.ItemID != "" {
			itemID := line.ItemID
			item.ItemID = &itemID
		}
		po.Items = append(po.Items, item)
	}

	err := s.poRepo.CreateGuarded(ctx, po, func(txRepo *repository.PORepository) error {
		number, err := txRepo.GenerateNumber(ctx)
		if err != nil {
			return fmt.Errorf("generate po number: %w", err)
		}
		po.PONumber = number

		return s.recheckRemaining(ctx, txRepo, draft)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// recheckRemaining recomputes each draft line's remaining quantity from the
// order lines visible inside the transaction.
func (s *ProcurementService) recheckRemaining(ctx context.Context, txRepo *repository.PORepository, draft reconcile.Draft) error {
	boms, err := s.bomRepo.FindActiveWithItems(ctx)
	if err != nil {
		return fmt.Errorf("load boms: %w", err)
	}
	poItems, err := txRepo.FindOpenOrderLines(ctx)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
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
	remaining := make(map[string]float64, len(pending))
	for _, req := range pending {
		remaining[req.BomItemID] = req.RemainingQuantity
	}

	for _, line := range draft.Lines {
		rem, ok := remaining[line.BomItemID]
		if !ok || line.Quantity > rem+reconcile.Epsilon {
			return fmt.Errorf("%s: remaining quantity changed, only %.4f still pending", line.ItemName, rem)
		}
	}
	return nil
}

// ==================== session storage ====================

func (s *ProcurementService) saveSession(ctx context.Context, session *reconcile.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, wizardKeyPrefix+session.ID, data, wizardTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *ProcurementService) loadSession(ctx context.Context, id string) (*reconcile.WizardSession, error) {
	data, err := s.rdb.Get(ctx, wizardKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session reconcile.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// ==================== purchase orders ====================

// ListPOs lists purchase orders
func (s *ProcurementService) ListPOs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.poRepo.FindAll(ctx, page, pageSize, filters)
}

// GetPO loads one purchase order
func (s *ProcurementService) GetPO(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.poRepo.FindByID(ctx, id)
}

// ApprovePO approves a draft purchase order
func (s *ProcurementService) ApprovePO(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, fmt.Errorf("only draft POs can be approved")
	}

	now := time.Now()
	po.Status = entity.POStatusApproved
	po.ApprovedBy = &userID
	po.ApprovedAt = &now
	po.Items = nil
	po.Supplier = nil

	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("approve po: %w", err)
	}
	return s.poRepo.FindByID(ctx, id)
}

// CancelPO cancels a purchase order. Cancelled orders stop offsetting
// pending requirements, so the quantities they covered reappear.
func (s *ProcurementService) CancelPO(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusReceived {
		return nil, fmt.Errorf("received POs cannot be cancelled")
	}
	if po.Status == entity.POStatusCancelled {
		return nil, fmt.Errorf("PO already cancelled")
	}

	po.Status = entity.POStatusCancelled
	po.Items = nil
	po.Supplier = nil

	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("cancel po: %w", err)
	}
	return s.poRepo.FindByID(ctx, id)
}

// ==================== goods receipt ====================

// ReceiveItemInput one received line in a GRN request
type ReceiveItemInput struct {
	POItemID string  `json:"po_item_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Remarks  string  `json:"remarks"`
}

// ReceiveGoodsRequest create GRN request
type ReceiveGoodsRequest struct {
	ReceivedDate *string            `json:"received_date"` // YYYY-MM-DD, default today
	Notes        string             `json:"notes"`
	Items        []ReceiveItemInput `json:"items" binding:"required,min=1,dive"`
}

// ReceiveGoods records a GRN against a PO and rolls up line statuses
func (s *ProcurementService) ReceiveGoods(ctx context.Context, poID, userID string, req *ReceiveGoodsRequest) (*entity.GoodsReceipt, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusDraft || po.Status == entity.POStatusCancelled {
		return nil, fmt.Errorf("PO is %s, not receivable", po.Status)
	}

	poItemIDs := make(map[string]bool, len(po.Items))
	for _, item := range po.Items {
		poItemIDs[item.ID] = true
	}
	quantities := make(map[string]float64, len(req.Items))
	for _, in := range req.Items {
		if !poItemIDs[in.POItemID] {
			return nil, fmt.Errorf("line %s does not belong to this PO", in.POItemID)
		}
		quantities[in.POItemID] += in.Quantity
	}

	receivedDate := time.Now()
	if req.ReceivedDate != nil {
		d, err := parseDate(*req.ReceivedDate)
		if err != nil {
			return nil, err
		}
		receivedDate = *d
	}

	number, err := s.grnRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate grn number: %w", err)
	}

	grn := &entity.GoodsReceipt{
		ID:           uuid.New().String()[:32],
		GRNNumber:    number,
		POID:         poID,
		ReceivedDate: receivedDate,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	for _, in := range req.Items {
		grn.Items = append(grn.Items, entity.GoodsReceiptItem{
			ID:       uuid.New().String()[:32],
			GRNID:    grn.ID,
			POItemID: in.POItemID,
			Quantity: in.Quantity,
			Remarks:  in.Remarks,
		})
	}

	if err := s.grnRepo.Create(ctx, grn); err != nil {
		return nil, fmt.Errorf("create grn: %w", err)
	}
	if err := s.poRepo.ReceiveItems(ctx, poID, quantities); err != nil {
		return nil, fmt.Errorf("apply received quantities: %w", err)
	}
	return grn, nil
}

// ListGRNs lists GRNs of a purchase order
func (s *ProcurementService) ListGRNs(ctx context.Context, poID string) ([]entity.GoodsReceipt, error) {
	return s.grnRepo.FindByPO(ctx, poID)
}
