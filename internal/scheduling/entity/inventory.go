package entity

import "time"

// InventoryItemType 库存物料类型
const (
	ItemTypeRaw  = "RAW"  // 原料
	ItemTypePack = "PACK" // 包材
)

// DefaultWarehouse 默认仓库
const DefaultWarehouse = "MAIN"

// 预占引用类型
const (
	ReservationRefScheduleDay = "SCHEDULE_DAY"
	ReservationRefJobOrder    = "JOB_ORDER"
)

// InventoryItem 库存物料主数据
type InventoryItem struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	SKU       string    `json:"sku" gorm:"size:64;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	ItemType  string    `json:"item_type" gorm:"size:10;not null"` // RAW 或 PACK
	UOM       string    `json:"uom" gorm:"size:10;not null;default:KG"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "erp_inventory_items"
}

// InventoryBalance 库存余额（按仓库），由收货/领用等外部流程维护
type InventoryBalance struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	ItemID      string    `json:"item_id" gorm:"size:36;not null;index:idx_balance_item_warehouse,unique"`
	WarehouseID string    `json:"warehouse_id" gorm:"size:36;not null;default:MAIN;index:idx_balance_item_warehouse,unique"`
	OnHand      float64   `json:"on_hand" gorm:"type:decimal(12,4);not null;default:0"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (InventoryBalance) TableName() string {
	return "erp_inventory_balances"
}

// InventoryReservation 库存预占，可用量计算中作为扣减项
type InventoryReservation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ItemID    string    `json:"item_id" gorm:"size:36;not null;index"`
	RefType   string    `json:"ref_type" gorm:"size:20;not null"` // SCHEDULE_DAY, JOB_ORDER
	RefID     string    `json:"ref_id" gorm:"size:36;not null;index"`
	Qty       float64   `json:"qty" gorm:"type:decimal(12,4);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (InventoryReservation) TableName() string {
	return "erp_inventory_reservations"
}
