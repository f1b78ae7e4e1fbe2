package entity

import "time"

// ProductType 产品类型
const (
	ProductTypeManufactured = "MANUFACTURED"
	ProductTypeTraded       = "TRADED"
)

// Product 产品主数据
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Code          string    `json:"code" gorm:"size:64;uniqueIndex"`
	Name          string    `json:"name" gorm:"size:128;not null"`
	ProductType   string    `json:"product_type" gorm:"size:20;not null;default:MANUFACTURED"`
	DensityKgPerL *float64  `json:"density_kg_per_l" gorm:"type:decimal(12,4)"` // 密度，用于净重换算兜底
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "erp_products"
}
