package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory database and migrates all tables.
// Each test gets its own database, cleaned up on test completion.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// Date builds a UTC midnight date for fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeedProduct creates a product with an optional density.
func SeedProduct(t *testing.T, db *gorm.DB, code, name string, density *float64) *entity.Product {
	t.Helper()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          name,
		ProductType:   entity.ProductTypeManufactured,
		DensityKgPerL: density,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

// SeedPackaging creates a drum packaging record.
func SeedPackaging(t *testing.T, db *gorm.DB, name string, capacityLiters float64, defaultNetKg *float64) *entity.Packaging {
	t.Helper()
	packaging := &entity.Packaging{
		ID:                 uuid.New().String(),
		Name:               name,
		Category:           "DRUM",
		MaterialType:       "STEEL",
		CapacityLiters:     capacityLiters,
		DefaultNetWeightKg: defaultNetKg,
		IsActive:           true,
	}
	if err := db.Create(packaging).Error; err != nil {
		t.Fatalf("Failed to seed packaging: %v", err)
	}
	return packaging
}

// SeedItem creates an inventory item.
func SeedItem(t *testing.T, db *gorm.DB, sku, name, itemType, uom string) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		ID:       uuid.New().String(),
		SKU:      sku,
		Name:     name,
		ItemType: itemType,
		UOM:      uom,
		IsActive: true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	return item
}

// SeedBalance sets an on-hand balance in the default warehouse.
func SeedBalance(t *testing.T, db *gorm.DB, itemID string, onHand float64) {
	t.Helper()
	bal := &entity.InventoryBalance{
		ID:          uuid.New().String(),
		ItemID:      itemID,
		WarehouseID: entity.DefaultWarehouse,
		OnHand:      onHand,
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(bal).Error; err != nil {
		t.Fatalf("Failed to seed balance: %v", err)
	}
}

// SeedProductBOM creates an active single-version formulation.
func SeedProductBOM(t *testing.T, db *gorm.DB, productID string, items map[string]float64) *entity.ProductBOM {
	t.Helper()
	bom := &entity.ProductBOM{
		ID:        uuid.New().String(),
		ProductID: productID,
		Version:   1,
		IsActive:  true,
	}
	for itemID, qtyPerKg := range items {
		bom.Items = append(bom.Items, entity.ProductBOMItem{
			ID:                 uuid.New().String(),
			BOMID:              bom.ID,
			MaterialItemID:     itemID,
			QtyKgPerKgFinished: qtyPerKg,
		})
	}
	if err := db.Create(bom).Error; err != nil {
		t.Fatalf("Failed to seed product BOM: %v", err)
	}
	return bom
}

// SeedPackagingBOM creates an active packaging BOM.
func SeedPackagingBOM(t *testing.T, db *gorm.DB, packagingID string, items map[string]float64) *entity.PackagingBOM {
	t.Helper()
	bom := &entity.PackagingBOM{
		ID:          uuid.New().String(),
		PackagingID: packagingID,
		IsActive:    true,
	}
	for itemID, qtyPerUnit := range items {
		bom.Items = append(bom.Items, entity.PackagingBOMItem{
			ID:             uuid.New().String(),
			PackagingBOMID: bom.ID,
			PackItemID:     itemID,
			QtyPerUnit:     qtyPerUnit,
			UOM:            "EA",
		})
	}
	if err := db.Create(bom).Error; err != nil {
		t.Fatalf("Failed to seed packaging BOM: %v", err)
	}
	return bom
}

// SeedDemandLine creates a pending demand line.
func SeedDemandLine(t *testing.T, db *gorm.DB, productID, packagingID string, qtyUnits int, dueDate *time.Time) *entity.DemandLine {
	t.Helper()
	line := &entity.DemandLine{
		ID:          uuid.New().String(),
		OrderNo:     fmt.Sprintf("SO-%d", time.Now().UnixNano()%100000),
		ProductID:   productID,
		PackagingID: packagingID,
		QtyUnits:    qtyUnits,
		DueDate:     dueDate,
		Status:      entity.DemandStatusPending,
	}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("Failed to seed demand line: %v", err)
	}
	return line
}
