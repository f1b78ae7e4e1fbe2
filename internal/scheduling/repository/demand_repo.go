package repository

import (
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"gorm.io/gorm"
)

type DemandRepository struct {
	db *gorm.DB
}

func NewDemandRepository(db *gorm.DB) *DemandRepository {
	return &DemandRepository{db: db}
}

func (r *DemandRepository) Create(line *entity.DemandLine) error {
	return r.db.Create(line).Error
}

func (r *DemandRepository) GetByID(id string) (*entity.DemandLine, error) {
	var line entity.DemandLine
	err := r.db.Where("id = ?", id).First(&line).Error
	return &line, err
}

func (r *DemandRepository) List(status string, page, size int) ([]entity.DemandLine, int64, error) {
	query := r.db.Model(&entity.DemandLine{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	query.Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var lines []entity.DemandLine
	err := query.Order("created_at DESC").Offset((page-1)*size).Limit(size).Find(&lines).Error
	return lines, total, err
}

// ListOpenForScheduling 排产输入：开放需求行，限定自产产品与指定包装类别
// 按创建顺序返回，保证合并顺序可复现
func (r *DemandRepository) ListOpenForScheduling(packagingCategory string) ([]entity.DemandLine, error) {
	var lines []entity.DemandLine
	err := r.db.Raw(`
		SELECT dl.*
		FROM erp_demand_lines dl
		JOIN erp_products p ON p.id = dl.product_id
		JOIN erp_packaging pk ON pk.id = dl.packaging_id
		WHERE dl.status IN ('pending', 'in_production')
		AND p.product_type = 'MANUFACTURED'
		AND pk.category = ?
		ORDER BY dl.created_at, dl.id
	`, packagingCategory).Scan(&lines).Error
	return lines, err
}
