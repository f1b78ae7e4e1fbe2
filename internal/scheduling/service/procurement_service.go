package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"gorm.io/gorm"
)

// requisitionBook 一次重排期间的采购申请句柄：草稿头只取/建一次，
// 之后所有缺口行都挂在同一个头上，避免反复按副作用查"当前草稿"
type requisitionBook struct {
	repos        *repository.Repositories
	weekStart    time.Time
	pr           *entity.ProcurementRequisition
	linesCreated int
	linesRaised  int
}

func newRequisitionBook(repos *repository.Repositories, weekStart time.Time) *requisitionBook {
	return &requisitionBook{repos: repos, weekStart: weekStart}
}

func (b *requisitionBook) header() (*entity.ProcurementRequisition, error) {
	if b.pr != nil {
		return b.pr, nil
	}
	pr, err := b.repos.Procurement.GetDraftRequisition()
	if err == nil {
		b.pr = pr
		return pr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	now := time.Now()
	pr = &entity.ProcurementRequisition{
		ID:        uuid.New().String(),
		PRCode:    fmt.Sprintf("PR-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		Status:    entity.PRStatusDraft,
		Notes:     fmt.Sprintf("Auto-generated for week %s", b.weekStart.Format("2006-01-02")),
		CreatedAt: now,
	}
	if err := b.repos.Procurement.CreateRequisition(pr); err != nil {
		return nil, err
	}
	b.pr = pr
	return pr, nil
}

// ensureLine 缺口行去重键 (pr, item, required_by, schedule_day)。
// 已有行数量只增不减，按新算出的缺口抬高
func (b *requisitionBook) ensureLine(day *entity.ProductionScheduleDay, campaign *entity.ProductionCampaign, shortage shortageDetail) error {
	pr, err := b.header()
	if err != nil {
		return err
	}

	existing, err := b.repos.Procurement.FindRequisitionLine(pr.ID, shortage.ItemID, day.ScheduleDate, day.ID)
	if err == nil {
		if existing.Qty < shortage.Shortage {
			existing.Qty = shortage.Shortage
			if err := b.repos.Procurement.UpdateRequisitionLine(existing); err != nil {
				return err
			}
			b.linesRaised++
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	uom := "KG"
	if item, err := b.repos.Inventory.GetItemByID(shortage.ItemID); err == nil {
		uom = item.UOM
	}
	line := &entity.ProcurementRequisitionLine{
		ID:            uuid.New().String(),
		PRID:          pr.ID,
		ItemID:        shortage.ItemID,
		ItemType:      shortage.ItemType,
		Qty:           shortage.Shortage,
		UOM:           uom,
		RequiredBy:    day.ScheduleDate,
		CampaignID:    campaign.ID,
		ScheduleDayID: day.ID,
		Reason:        fmt.Sprintf("%s shortage for %s", shortage.ItemType, day.ScheduleDate.Format("2006-01-02")),
		CreatedAt:     time.Now(),
	}
	if err := b.repos.Procurement.CreateRequisitionLine(line); err != nil {
		return err
	}
	b.linesCreated++
	return nil
}

// ProcurementService 采购申请/采购订单操作入口（排产之外的采购工作流）
type ProcurementService struct {
	repos *repository.Repositories
}

func NewProcurementService(repos *repository.Repositories) *ProcurementService {
	return &ProcurementService{repos: repos}
}

func (s *ProcurementService) ListRequisitions(status string, page, size int) ([]entity.ProcurementRequisition, int64, error) {
	return s.repos.Procurement.ListRequisitions(status, page, size)
}

func (s *ProcurementService) GetRequisition(id string) (*entity.ProcurementRequisition, error) {
	return s.repos.Procurement.GetRequisitionByID(id)
}

type CreateSupplierRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *ProcurementService) CreateSupplier(req CreateSupplierRequest) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := s.repos.Procurement.CreateSupplier(supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *ProcurementService) ListSuppliers(page, size int) ([]entity.Supplier, int64, error) {
	return s.repos.Procurement.ListSuppliers(page, size)
}

type CreatePORequest struct {
	SupplierID    string `json:"supplier_id" binding:"required"`
	RequisitionID string `json:"requisition_id" binding:"required"`
	PromisedDate  string `json:"promised_delivery_date"` // YYYY-MM-DD，应用到全部行
	Notes         string `json:"notes"`
}

// CreatePOFromRequisition 把草稿采购申请的行转成采购订单，申请置为 PO_CREATED
func (s *ProcurementService) CreatePOFromRequisition(req CreatePORequest) (*entity.PurchaseOrder, error) {
	if _, err := s.repos.Procurement.GetSupplierByID(req.SupplierID); err != nil {
		return nil, fmt.Errorf("供应商不存在: %w", err)
	}
	pr, err := s.repos.Procurement.GetRequisitionByID(req.RequisitionID)
	if err != nil {
		return nil, fmt.Errorf("采购申请不存在: %w", err)
	}
	if pr.Status != entity.PRStatusDraft && pr.Status != entity.PRStatusApproved {
		return nil, fmt.Errorf("采购申请状态不允许下单: %s", pr.Status)
	}
	if len(pr.Lines) == 0 {
		return nil, fmt.Errorf("采购申请没有明细行")
	}

	var promised *time.Time
	if req.PromisedDate != "" {
		t, err := time.Parse("2006-01-02", req.PromisedDate)
		if err != nil {
			return nil, fmt.Errorf("承诺交期格式错误: %w", err)
		}
		promised = &t
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		POCode:     fmt.Sprintf("PO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		SupplierID: req.SupplierID,
		Status:     entity.POStatusDraft,
		Notes:      req.Notes,
		CreatedAt:  now,
	}
	for _, prLine := range pr.Lines {
		requiredBy := prLine.RequiredBy
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{
			ID:                   uuid.New().String(),
			POID:                 po.ID,
			ItemID:               prLine.ItemID,
			ItemType:             prLine.ItemType,
			Qty:                  prLine.Qty,
			UOM:                  prLine.UOM,
			RequiredBy:           &requiredBy,
			PromisedDeliveryDate: promised,
		})
	}
	if err := s.repos.Procurement.CreatePO(po); err != nil {
		return nil, fmt.Errorf("failed to create PO: %w", err)
	}

	pr.Status = entity.PRStatusPOCreated
	if err := s.repos.Procurement.UpdateRequisition(pr); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *ProcurementService) GetPO(id string) (*entity.PurchaseOrder, error) {
	return s.repos.Procurement.GetPOByID(id)
}

func (s *ProcurementService) ListPOs(status string, page, size int) ([]entity.PurchaseOrder, int64, error) {
	return s.repos.Procurement.ListPOs(status, page, size)
}

// SendPO 发出后订单行的在途量才参与可用量计算
func (s *ProcurementService) SendPO(id string) (*entity.PurchaseOrder, error) {
	po, err := s.repos.Procurement.GetPOByID(id)
	if err != nil {
		return nil, fmt.Errorf("PO not found: %w", err)
	}
	if po.Status != entity.POStatusDraft && po.Status != entity.POStatusApproved {
		return nil, fmt.Errorf("PO状态不允许发送: %s", po.Status)
	}
	now := time.Now()
	po.Status = entity.POStatusSent
	po.SentAt = &now
	if err := s.repos.Procurement.UpdatePO(po); err != nil {
		return nil, err
	}
	return po, nil
}

type ReceivePOLineRequest struct {
	LineID      string  `json:"line_id" binding:"required"`
	ReceivedQty float64 `json:"received_qty" binding:"required,gt=0"`
	WarehouseID string  `json:"warehouse_id"`
}

// ReceivePO 登记收货：抬高行收货量并过账库存余额，
// 全部行收齐置 RECEIVED，否则 PARTIAL
func (s *ProcurementService) ReceivePO(id string, items []ReceivePOLineRequest) (*entity.PurchaseOrder, error) {
	po, err := s.repos.Procurement.GetPOByID(id)
	if err != nil {
		return nil, fmt.Errorf("PO not found: %w", err)
	}
	if po.Status != entity.POStatusSent && po.Status != entity.POStatusPartial {
		return nil, fmt.Errorf("PO状态不允许收货: %s", po.Status)
	}

	for _, receive := range items {
		for i := range po.Lines {
			if po.Lines[i].ID != receive.LineID {
				continue
			}
			po.Lines[i].ReceivedQty += receive.ReceivedQty
			if err := s.repos.Procurement.UpdatePOLine(&po.Lines[i]); err != nil {
				return nil, err
			}
			if err := s.repos.Inventory.AdjustBalance(po.Lines[i].ItemID, receive.WarehouseID, receive.ReceivedQty); err != nil {
				return nil, fmt.Errorf("收货过账失败: %w", err)
			}
			break
		}
	}

	allReceived := true
	for _, line := range po.Lines {
		if line.ReceivedQty < line.Qty {
			allReceived = false
			break
		}
	}
	if allReceived {
		po.Status = entity.POStatusReceived
	} else {
		po.Status = entity.POStatusPartial
	}
	if err := s.repos.Procurement.UpdatePO(po); err != nil {
		return nil, err
	}
	return po, nil
}
