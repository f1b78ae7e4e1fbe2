package entity

import "time"

// Packaging 包装主数据（桶、瓶、袋等）
type Packaging struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:36"`
	Name               string    `json:"name" gorm:"size:128;not null"`
	Category           string    `json:"category" gorm:"size:20;not null;default:DRUM"` // DRUM, BOTTLE, BAG
	MaterialType       string    `json:"material_type" gorm:"size:20"`                  // STEEL, HDPE, RECON
	CapacityLiters     float64   `json:"capacity_liters" gorm:"type:decimal(12,4)"`
	TareWeightKg       *float64  `json:"tare_weight_kg" gorm:"type:decimal(12,4)"`
	DefaultNetWeightKg *float64  `json:"default_net_weight_kg" gorm:"type:decimal(12,4)"`
	IsActive           bool      `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Packaging) TableName() string {
	return "erp_packaging"
}

// ProductPackagingSpec 产品-包装净重规格（单桶成品净重）
type ProductPackagingSpec struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID   string    `json:"product_id" gorm:"size:36;not null;index:idx_spec_product_packaging,unique"`
	PackagingID string    `json:"packaging_id" gorm:"size:36;not null;index:idx_spec_product_packaging,unique"`
	NetWeightKg float64   `json:"net_weight_kg" gorm:"type:decimal(12,4);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProductPackagingSpec) TableName() string {
	return "erp_product_packaging_specs"
}

// PackagingBOM 包装物料清单（每单位包装的耗用），每个包装同时只有一个生效版本
type PackagingBOM struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	PackagingID string    `json:"packaging_id" gorm:"size:36;not null;index"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []PackagingBOMItem `json:"items,omitempty" gorm:"foreignKey:PackagingBOMID"`
}

func (PackagingBOM) TableName() string {
	return "erp_packaging_boms"
}

// PackagingBOMItem 包装BOM明细
type PackagingBOMItem struct {
	ID             string  `json:"id" gorm:"primaryKey;size:36"`
	PackagingBOMID string  `json:"packaging_bom_id" gorm:"size:36;not null;index"`
	PackItemID     string  `json:"pack_item_id" gorm:"size:36;not null"`
	QtyPerUnit     float64 `json:"qty_per_unit" gorm:"type:decimal(12,4);not null"`
	UOM            string  `json:"uom" gorm:"size:10;not null;default:EA"` // EA 或 KG
}

func (PackagingBOMItem) TableName() string {
	return "erp_packaging_bom_items"
}
