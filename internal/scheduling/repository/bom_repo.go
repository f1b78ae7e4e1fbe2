package repository

import (
	"fmt"

	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"gorm.io/gorm"
)

type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

// --- Product BOM（配方） ---

func (r *BOMRepository) CreateProductBOM(bom *entity.ProductBOM) error {
	return r.db.Create(bom).Error
}

func (r *BOMRepository) GetProductBOMByID(id string) (*entity.ProductBOM, error) {
	var bom entity.ProductBOM
	err := r.db.Preload("Items").Where("id = ?", id).First(&bom).Error
	return &bom, err
}

// GetActiveProductBOM 产品当前生效配方，同一产品至多一个
func (r *BOMRepository) GetActiveProductBOM(productID string) (*entity.ProductBOM, error) {
	var bom entity.ProductBOM
	err := r.db.Where("product_id = ? AND is_active = ?", productID, true).First(&bom).Error
	return &bom, err
}

func (r *BOMRepository) GetProductBOMByVersion(productID string, version int) (*entity.ProductBOM, error) {
	var bom entity.ProductBOM
	err := r.db.Where("product_id = ? AND version = ?", productID, version).First(&bom).Error
	return &bom, err
}

func (r *BOMRepository) GetProductBOMItems(bomID string) ([]entity.ProductBOMItem, error) {
	var items []entity.ProductBOMItem
	err := r.db.Where("bom_id = ?", bomID).Order("id").Find(&items).Error
	return items, err
}

func (r *BOMRepository) ListProductBOMs(productID string) ([]entity.ProductBOM, error) {
	var boms []entity.ProductBOM
	err := r.db.Where("product_id = ?", productID).Order("version DESC").Find(&boms).Error
	return boms, err
}

// SetProductBOMActive 切换生效版本：同事务内先停用兄弟版本再启用目标版本
func (r *BOMRepository) SetProductBOMActive(bomID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bom entity.ProductBOM
		if err := tx.Where("id = ?", bomID).First(&bom).Error; err != nil {
			return fmt.Errorf("配方不存在: %w", err)
		}
		if err := tx.Model(&entity.ProductBOM{}).
			Where("product_id = ? AND id != ?", bom.ProductID, bomID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.ProductBOM{}).Where("id = ?", bomID).
			Update("is_active", true).Error
	})
}

// --- Packaging BOM（包装物料清单） ---

func (r *BOMRepository) CreatePackagingBOM(bom *entity.PackagingBOM) error {
	return r.db.Create(bom).Error
}

// GetActivePackagingBOM 包装当前生效BOM，可能不存在（包装无BOM本身不算阻塞）
func (r *BOMRepository) GetActivePackagingBOM(packagingID string) (*entity.PackagingBOM, error) {
	var bom entity.PackagingBOM
	err := r.db.Where("packaging_id = ? AND is_active = ?", packagingID, true).First(&bom).Error
	return &bom, err
}

func (r *BOMRepository) GetPackagingBOMItems(packagingBOMID string) ([]entity.PackagingBOMItem, error) {
	var items []entity.PackagingBOMItem
	err := r.db.Where("packaging_bom_id = ?", packagingBOMID).Order("id").Find(&items).Error
	return items, err
}

// SetPackagingBOMActive 切换包装BOM生效版本，事务语义同配方
func (r *BOMRepository) SetPackagingBOMActive(bomID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bom entity.PackagingBOM
		if err := tx.Where("id = ?", bomID).First(&bom).Error; err != nil {
			return fmt.Errorf("包装BOM不存在: %w", err)
		}
		if err := tx.Model(&entity.PackagingBOM{}).
			Where("packaging_id = ? AND id != ?", bom.PackagingID, bomID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.PackagingBOM{}).Where("id = ?", bomID).
			Update("is_active", true).Error
	})
}
