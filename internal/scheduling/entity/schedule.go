package entity

import (
	"time"

	"gorm.io/datatypes"
)

// 排产日状态机：DRAFT → {READY, BLOCKED} → IN_PROGRESS → DONE
// 重排只删除并重建 DRAFT 行，之后的状态由车间操作流转
const (
	ScheduleStatusDraft      = "DRAFT"
	ScheduleStatusReady      = "READY"
	ScheduleStatusBlocked    = "BLOCKED"
	ScheduleStatusInProgress = "IN_PROGRESS"
	ScheduleStatusDone       = "DONE"
)

// 阻塞原因
const (
	BlockingNone              = "NONE"
	BlockingConversionMissing = "CONVERSION_MISSING"
	BlockingBOMMissing        = "BOM_MISSING"
	BlockingRawShortage       = "RAW_SHORTAGE"
	BlockingPackShortage      = "PACK_SHORTAGE"
	BlockingRawPackShortage   = "RAW_PACK_SHORTAGE"
)

// DefaultDailyCapacity 单条产线默认日产能（包装单位）
const DefaultDailyCapacity = 600

// CapacityConfig 产线日产能配置
type CapacityConfig struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	LineType      string    `json:"line_type" gorm:"size:20;not null;uniqueIndex;default:DRUM"`
	DailyCapacity int       `json:"daily_capacity" gorm:"not null;default:600"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (CapacityConfig) TableName() string {
	return "erp_capacity_configs"
}

// ProductionCampaign 生产战役：同产品+包装+规格+配方版本的需求合并
type ProductionCampaign struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	WeekStart       time.Time  `json:"week_start" gorm:"type:date;not null;index"`
	ProductID       string     `json:"product_id" gorm:"size:36;not null;index"`
	PackagingID     string     `json:"packaging_id" gorm:"size:36;not null"`
	SpecID          string     `json:"spec_id" gorm:"size:36"`
	BOMID           string     `json:"bom_id" gorm:"size:36;not null"`
	BOMVersion      int        `json:"bom_version" gorm:"not null"`
	TotalUnits      int        `json:"total_units" gorm:"not null"`
	EarliestDueDate *time.Time `json:"earliest_due_date" gorm:"type:date"`
	Status          string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	CreatedAt       time.Time  `json:"created_at"`

	Links []CampaignDemandLink `json:"links,omitempty" gorm:"foreignKey:CampaignID"`
}

func (ProductionCampaign) TableName() string {
	return "erp_production_campaigns"
}

// CampaignDemandLink 战役与来源需求行的追溯关系
type CampaignDemandLink struct {
	ID             string `json:"id" gorm:"primaryKey;size:36"`
	CampaignID     string `json:"campaign_id" gorm:"size:36;not null;index"`
	DemandLineID   string `json:"demand_line_id" gorm:"size:36;not null"`
	UnitsAllocated int    `json:"units_allocated" gorm:"not null"`
}

func (CampaignDemandLink) TableName() string {
	return "erp_campaign_demand_links"
}

// ProductionScheduleDay 某战役在某日历日的排产量
type ProductionScheduleDay struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36"`
	WeekStart       time.Time      `json:"week_start" gorm:"type:date;not null;index"`
	ScheduleDate    time.Time      `json:"schedule_date" gorm:"type:date;not null;index"`
	CampaignID      string         `json:"campaign_id" gorm:"size:36;not null;index"`
	PlannedUnits    int            `json:"planned_units" gorm:"not null"`
	Status          string         `json:"status" gorm:"size:20;not null;default:DRAFT"`
	BlockingReason  string         `json:"blocking_reason" gorm:"size:30;not null;default:NONE"`
	BlockingDetails datatypes.JSON `json:"blocking_details"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (ProductionScheduleDay) TableName() string {
	return "erp_production_schedule_days"
}

// ProductionDayRequirement 排产日物料需求快照，有无缺口都记录
type ProductionDayRequirement struct {
	ID            string  `json:"id" gorm:"primaryKey;size:36"`
	ScheduleDayID string  `json:"schedule_day_id" gorm:"size:36;not null;index"`
	ItemID        string  `json:"item_id" gorm:"size:36;not null;index"`
	ItemType      string  `json:"item_type" gorm:"size:10;not null"` // RAW 或 PACK
	RequiredQty   float64 `json:"required_qty" gorm:"type:decimal(12,4);not null"`
	AvailableQty  float64 `json:"available_qty" gorm:"type:decimal(12,4);not null"`
	ShortageQty   float64 `json:"shortage_qty" gorm:"type:decimal(12,4);not null"`
}

func (ProductionDayRequirement) TableName() string {
	return "erp_production_day_requirements"
}
