package entity

import "time"

// ProductBOM 产品配方版本，一个产品同时只有一个生效版本
type ProductBOM struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID string    `json:"product_id" gorm:"size:36;not null;index"`
	Version   int       `json:"version" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []ProductBOMItem `json:"items,omitempty" gorm:"foreignKey:BOMID"`
}

func (ProductBOM) TableName() string {
	return "erp_product_boms"
}

// ProductBOMItem 配方明细：每公斤成品耗用的原料公斤数
type ProductBOMItem struct {
	ID               string  `json:"id" gorm:"primaryKey;size:36"`
	BOMID            string  `json:"bom_id" gorm:"size:36;not null;index"`
	MaterialItemID   string  `json:"material_item_id" gorm:"size:36;not null"`
	QtyKgPerKgFinished float64 `json:"qty_kg_per_kg_finished" gorm:"type:decimal(12,6);not null"`
}

func (ProductBOMItem) TableName() string {
	return "erp_product_bom_items"
}
