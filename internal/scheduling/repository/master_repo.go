package repository

import (
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MasterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

// --- Product ---

func (r *MasterRepository) CreateProduct(p *entity.Product) error {
	return r.db.Create(p).Error
}

func (r *MasterRepository) GetProductByID(id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *MasterRepository) ListProducts(page, size int) ([]entity.Product, int64, error) {
	var total int64
	r.db.Model(&entity.Product{}).Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var products []entity.Product
	err := r.db.Order("created_at DESC").Offset((page-1)*size).Limit(size).Find(&products).Error
	return products, total, err
}

// --- Packaging ---

func (r *MasterRepository) CreatePackaging(p *entity.Packaging) error {
	return r.db.Create(p).Error
}

func (r *MasterRepository) GetPackagingByID(id string) (*entity.Packaging, error) {
	var p entity.Packaging
	err := r.db.Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *MasterRepository) ListPackaging(category string, page, size int) ([]entity.Packaging, int64, error) {
	query := r.db.Model(&entity.Packaging{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var total int64
	query.Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var items []entity.Packaging
	err := query.Order("created_at DESC").Offset((page-1)*size).Limit(size).Find(&items).Error
	return items, total, err
}

// --- Product-Packaging Spec ---

// UpsertSpec 按 (product, packaging) 覆盖净重规格
func (r *MasterRepository) UpsertSpec(spec *entity.ProductPackagingSpec) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "packaging_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"net_weight_kg", "updated_at"}),
	}).Create(spec).Error
}

func (r *MasterRepository) GetSpec(productID, packagingID string) (*entity.ProductPackagingSpec, error) {
	var spec entity.ProductPackagingSpec
	err := r.db.Where("product_id = ? AND packaging_id = ?", productID, packagingID).First(&spec).Error
	return &spec, err
}

// --- Capacity ---

func (r *MasterRepository) GetCapacityByLineType(lineType string) (*entity.CapacityConfig, error) {
	var cfg entity.CapacityConfig
	err := r.db.Where("line_type = ?", lineType).First(&cfg).Error
	return &cfg, err
}

func (r *MasterRepository) UpsertCapacity(cfg *entity.CapacityConfig) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "line_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"daily_capacity", "updated_at"}),
	}).Create(cfg).Error
}
