package entity

import "time"

// ProcurementRequisitionStatus 采购申请状态
const (
	PRStatusDraft     = "DRAFT"
	PRStatusApproved  = "APPROVED"
	PRStatusPOCreated = "PO_CREATED"
)

// PurchaseOrderStatus 采购订单状态
const (
	POStatusDraft    = "DRAFT"
	POStatusApproved = "APPROVED"
	POStatusSent     = "SENT"
	POStatusPartial  = "PARTIAL"
	POStatusReceived = "RECEIVED"
)

// Supplier 供应商主数据
type Supplier struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Email     string    `json:"email" gorm:"size:128"`
	Phone     string    `json:"phone" gorm:"size:32"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "erp_suppliers"
}

// ProcurementRequisition 采购申请（草稿头，缺料行自动挂入）
type ProcurementRequisition struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	PRCode    string    `json:"pr_code" gorm:"size:50;not null;uniqueIndex"`
	Status    string    `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lines []ProcurementRequisitionLine `json:"lines,omitempty" gorm:"foreignKey:PRID"`
}

func (ProcurementRequisition) TableName() string {
	return "erp_procurement_requisitions"
}

// ProcurementRequisitionLine 采购申请行
// 唯一键 (pr, item, required_by, schedule_day)，同一缺口不会重复挂行
type ProcurementRequisitionLine struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	PRID          string    `json:"pr_id" gorm:"size:36;not null;index"`
	ItemID        string    `json:"item_id" gorm:"size:36;not null;index"`
	ItemType      string    `json:"item_type" gorm:"size:10;not null"`
	Qty           float64   `json:"qty" gorm:"type:decimal(12,4);not null"`
	UOM           string    `json:"uom" gorm:"size:10;not null;default:KG"`
	RequiredBy    time.Time `json:"required_by" gorm:"type:date;not null"`
	CampaignID    string    `json:"campaign_id" gorm:"size:36"`
	ScheduleDayID string    `json:"schedule_day_id" gorm:"size:36;index"`
	Reason        string    `json:"reason" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ProcurementRequisitionLine) TableName() string {
	return "erp_procurement_requisition_lines"
}

// PurchaseOrder 采购订单
type PurchaseOrder struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	POCode     string     `json:"po_code" gorm:"size:50;not null;uniqueIndex"`
	SupplierID string     `json:"supplier_id" gorm:"size:36;not null;index"`
	Status     string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Notes      string     `json:"notes" gorm:"type:text"`
	SentAt     *time.Time `json:"sent_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Supplier *Supplier           `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Lines    []PurchaseOrderLine `json:"lines,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "erp_purchase_orders"
}

// PurchaseOrderLine 采购订单行，promised_delivery_date 参与可用量计算
type PurchaseOrderLine struct {
	ID                   string     `json:"id" gorm:"primaryKey;size:36"`
	POID                 string     `json:"po_id" gorm:"size:36;not null;index"`
	ItemID               string     `json:"item_id" gorm:"size:36;not null;index"`
	ItemType             string     `json:"item_type" gorm:"size:10;not null"`
	Qty                  float64    `json:"qty" gorm:"type:decimal(12,4);not null"`
	UOM                  string     `json:"uom" gorm:"size:10;not null;default:KG"`
	RequiredBy           *time.Time `json:"required_by" gorm:"type:date"`
	PromisedDeliveryDate *time.Time `json:"promised_delivery_date" gorm:"type:date"`
	ReceivedQty          float64    `json:"received_qty" gorm:"type:decimal(12,4);not null;default:0"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (PurchaseOrderLine) TableName() string {
	return "erp_purchase_order_lines"
}
