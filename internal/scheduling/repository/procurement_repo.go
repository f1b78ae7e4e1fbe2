package repository

import (
	"time"

	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"gorm.io/gorm"
)

type ProcurementRepository struct {
	db *gorm.DB
}

func NewProcurementRepository(db *gorm.DB) *ProcurementRepository {
	return &ProcurementRepository{db: db}
}

// --- Supplier ---

func (r *ProcurementRepository) CreateSupplier(s *entity.Supplier) error {
	return r.db.Create(s).Error
}

func (r *ProcurementRepository) ListSuppliers(page, size int) ([]entity.Supplier, int64, error) {
	var total int64
	r.db.Model(&entity.Supplier{}).Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var suppliers []entity.Supplier
	err := r.db.Order("created_at DESC").Offset((page-1)*size).Limit(size).Find(&suppliers).Error
	return suppliers, total, err
}

func (r *ProcurementRepository) GetSupplierByID(id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.db.Where("id = ?", id).First(&s).Error
	return &s, err
}

// --- Requisition ---

func (r *ProcurementRepository) CreateRequisition(pr *entity.ProcurementRequisition) error {
	return r.db.Create(pr).Error
}

func (r *ProcurementRepository) UpdateRequisition(pr *entity.ProcurementRequisition) error {
	return r.db.Save(pr).Error
}

func (r *ProcurementRepository) GetRequisitionByID(id string) (*entity.ProcurementRequisition, error) {
	var pr entity.ProcurementRequisition
	err := r.db.Preload("Lines").Where("id = ?", id).First(&pr).Error
	return &pr, err
}

// GetDraftRequisition 当前唯一的草稿采购申请
func (r *ProcurementRepository) GetDraftRequisition() (*entity.ProcurementRequisition, error) {
	var pr entity.ProcurementRequisition
	err := r.db.Where("status = ?", entity.PRStatusDraft).
		Order("created_at").First(&pr).Error
	return &pr, err
}

func (r *ProcurementRepository) ListRequisitions(status string, page, size int) ([]entity.ProcurementRequisition, int64, error) {
	query := r.db.Model(&entity.ProcurementRequisition{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	query.Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var prs []entity.ProcurementRequisition
	err := query.Preload("Lines").Order("created_at DESC").
		Offset((page-1)*size).Limit(size).Find(&prs).Error
	return prs, total, err
}

// --- Requisition Lines ---

func (r *ProcurementRepository) CreateRequisitionLine(line *entity.ProcurementRequisitionLine) error {
	return r.db.Create(line).Error
}

func (r *ProcurementRepository) UpdateRequisitionLine(line *entity.ProcurementRequisitionLine) error {
	return r.db.Save(line).Error
}

// FindRequisitionLine 按去重键 (pr, item, required_by, schedule_day) 查行
func (r *ProcurementRepository) FindRequisitionLine(prID, itemID string, requiredBy time.Time, scheduleDayID string) (*entity.ProcurementRequisitionLine, error) {
	var line entity.ProcurementRequisitionLine
	err := r.db.Where(
		"pr_id = ? AND item_id = ? AND required_by = ? AND schedule_day_id = ?",
		prID, itemID, requiredBy, scheduleDayID,
	).First(&line).Error
	return &line, err
}

func (r *ProcurementRepository) ListRequisitionLines(prID string) ([]entity.ProcurementRequisitionLine, error) {
	var lines []entity.ProcurementRequisitionLine
	err := r.db.Where("pr_id = ?", prID).Order("required_by, item_id").Find(&lines).Error
	return lines, err
}

// --- Purchase Orders ---

func (r *ProcurementRepository) CreatePO(po *entity.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *ProcurementRepository) GetPOByID(id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Lines").Where("id = ?", id).First(&po).Error
	return &po, err
}

func (r *ProcurementRepository) UpdatePO(po *entity.PurchaseOrder) error {
	return r.db.Save(po).Error
}

func (r *ProcurementRepository) UpdatePOLine(line *entity.PurchaseOrderLine) error {
	return r.db.Save(line).Error
}

func (r *ProcurementRepository) ListPOs(status string, page, size int) ([]entity.PurchaseOrder, int64, error) {
	query := r.db.Model(&entity.PurchaseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	query.Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var pos []entity.PurchaseOrder
	err := query.Preload("Supplier").Order("created_at DESC").
		Offset((page-1)*size).Limit(size).Find(&pos).Error
	return pos, total, err
}

// GetOpenInboundQty 全部在途量（不限交期），库存快照展示用
func (r *ProcurementRepository) GetOpenInboundQty(itemID string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(CASE WHEN l.qty - l.received_qty > 0 THEN l.qty - l.received_qty ELSE 0 END), 0) as total
		FROM erp_purchase_order_lines l
		JOIN erp_purchase_orders po ON po.id = l.po_id
		WHERE l.item_id = ?
		AND po.status IN ('SENT', 'PARTIAL')
	`, itemID).Scan(&result).Error
	return result.Total, err
}

// GetInboundQty 截止某日的在途量：已发出/部分收货PO中承诺交期不晚于该日的未收余量
// 每行只计正余量，负余量（超收）不冲减
func (r *ProcurementRepository) GetInboundQty(itemID string, asOf time.Time) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(CASE WHEN l.qty - l.received_qty > 0 THEN l.qty - l.received_qty ELSE 0 END), 0) as total
		FROM erp_purchase_order_lines l
		JOIN erp_purchase_orders po ON po.id = l.po_id
		WHERE l.item_id = ?
		AND l.promised_delivery_date IS NOT NULL
		AND l.promised_delivery_date <= ?
		AND po.status IN ('SENT', 'PARTIAL')
	`, itemID, asOf).Scan(&result).Error
	return result.Total, err
}
