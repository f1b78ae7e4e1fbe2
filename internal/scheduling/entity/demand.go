package entity

import "time"

// DemandLineStatus 订单需求行状态，排产读取 pending / in_production 两种
const (
	DemandStatusPending      = "pending"
	DemandStatusInProduction = "in_production"
	DemandStatusDone         = "done"
	DemandStatusCancelled    = "cancelled"
)

// DemandLine 开放订单需求行（上游订单子系统生成，排产只读）
type DemandLine struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	OrderNo     string     `json:"order_no" gorm:"size:50;index"`
	ProductID   string     `json:"product_id" gorm:"size:36;not null;index"`
	PackagingID string     `json:"packaging_id" gorm:"size:36;not null"`
	SpecID      string     `json:"spec_id" gorm:"size:36"`    // 可选规格
	BOMVersion  *int       `json:"bom_version"`               // 可选配方版本锁定
	QtyUnits    int        `json:"qty_units" gorm:"not null"` // 包装单位数量
	DueDate     *time.Time `json:"due_date" gorm:"type:date"`
	Status      string     `json:"status" gorm:"size:20;not null;default:pending"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (DemandLine) TableName() string {
	return "erp_demand_lines"
}
