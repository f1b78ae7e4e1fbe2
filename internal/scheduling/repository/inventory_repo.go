package repository

import (
	"time"

	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// --- Items ---

func (r *InventoryRepository) CreateItem(item *entity.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) GetItemByID(id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.Where("id = ?", id).First(&item).Error
	return &item, err
}

func (r *InventoryRepository) ListItems(itemType string, page, size int) ([]entity.InventoryItem, int64, error) {
	query := r.db.Model(&entity.InventoryItem{})
	if itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}
	var total int64
	query.Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var items []entity.InventoryItem
	err := query.Order("sku").Offset((page-1)*size).Limit(size).Find(&items).Error
	return items, total, err
}

// --- Balances ---

// GetOnHand 物料现有量（全部仓库合计）
func (r *InventoryRepository) GetOnHand(itemID string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(on_hand), 0) as total
		FROM erp_inventory_balances
		WHERE item_id = ?
	`, itemID).Scan(&result).Error
	return result.Total, err
}

// AdjustBalance 余额增量调整（收货/领用等外部过账入口）
func (r *InventoryRepository) AdjustBalance(itemID, warehouseID string, delta float64) error {
	if warehouseID == "" {
		warehouseID = entity.DefaultWarehouse
	}
	bal := &entity.InventoryBalance{
		ID:          newID(),
		ItemID:      itemID,
		WarehouseID: warehouseID,
		OnHand:      delta,
		UpdatedAt:   time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}, {Name: "warehouse_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"on_hand":    gorm.Expr("on_hand + ?", delta),
			"updated_at": time.Now(),
		}),
	}).Create(bal).Error
}

func (r *InventoryRepository) ListBalances(page, size int) ([]entity.InventoryBalance, int64, error) {
	var total int64
	r.db.Model(&entity.InventoryBalance{}).Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var balances []entity.InventoryBalance
	err := r.db.Order("updated_at DESC").Offset((page-1)*size).Limit(size).Find(&balances).Error
	return balances, total, err
}

// --- Reservations ---

func (r *InventoryRepository) CreateReservation(res *entity.InventoryReservation) error {
	return r.db.Create(res).Error
}

// GetReservedQty 物料预占合计（不按日期过滤）
func (r *InventoryRepository) GetReservedQty(itemID string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(qty), 0) as total
		FROM erp_inventory_reservations
		WHERE item_id = ?
	`, itemID).Scan(&result).Error
	return result.Total, err
}

func (r *InventoryRepository) ListReservationsByRef(refType, refID string) ([]entity.InventoryReservation, error) {
	var reservations []entity.InventoryReservation
	err := r.db.Where("ref_type = ? AND ref_id = ?", refType, refID).Find(&reservations).Error
	return reservations, err
}

func (r *InventoryRepository) CountReservationsByRef(refType, refID string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.InventoryReservation{}).
		Where("ref_type = ? AND ref_id = ?", refType, refID).Count(&count).Error
	return count, err
}

func (r *InventoryRepository) ListReservations(itemID string, page, size int) ([]entity.InventoryReservation, int64, error) {
	query := r.db.Model(&entity.InventoryReservation{})
	if itemID != "" {
		query = query.Where("item_id = ?", itemID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 { page = 1 }
	if size <= 0 { size = 20 }
	var reservations []entity.InventoryReservation
	err := query.Order("created_at DESC").Offset((page-1)*size).Limit(size).Find(&reservations).Error
	return reservations, total, err
}
