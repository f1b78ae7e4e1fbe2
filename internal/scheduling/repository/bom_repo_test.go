package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/testutil"
)

func seedBOMVersion(t *testing.T, repo *BOMRepository, productID string, version int, active bool) *entity.ProductBOM {
	t.Helper()
	bom := &entity.ProductBOM{
		ID:        uuid.New().String(),
		ProductID: productID,
		Version:   version,
		IsActive:  active,
	}
	if err := repo.CreateProductBOM(bom); err != nil {
		t.Fatalf("CreateProductBOM: %v", err)
	}
	return bom
}

func TestSetProductBOMActiveKeepsSingleActiveVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewBOMRepository(db)
	productID := uuid.New().String()

	v1 := seedBOMVersion(t, repo, productID, 1, true)
	v2 := seedBOMVersion(t, repo, productID, 2, false)
	v3 := seedBOMVersion(t, repo, productID, 3, false)

	if err := repo.SetProductBOMActive(v3.ID); err != nil {
		t.Fatalf("SetProductBOMActive: %v", err)
	}

	active, err := repo.GetActiveProductBOM(productID)
	if err != nil {
		t.Fatalf("GetActiveProductBOM: %v", err)
	}
	if active.ID != v3.ID {
		t.Fatalf("active = v%d, want v3", active.Version)
	}

	var activeCount int64
	db.Model(&entity.ProductBOM{}).
		Where("product_id = ? AND is_active = ?", productID, true).Count(&activeCount)
	if activeCount != 1 {
		t.Fatalf("active versions = %d, want 1", activeCount)
	}

	// 切回 v1 同样只留一个生效版本
	if err := repo.SetProductBOMActive(v1.ID); err != nil {
		t.Fatalf("SetProductBOMActive v1: %v", err)
	}
	active, _ = repo.GetActiveProductBOM(productID)
	if active.ID != v1.ID {
		t.Fatalf("active = v%d, want v1", active.Version)
	}
	_ = v2
}

func TestSetProductBOMActiveDoesNotTouchOtherProducts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewBOMRepository(db)

	productA := uuid.New().String()
	productB := uuid.New().String()
	seedBOMVersion(t, repo, productA, 1, true)
	a2 := seedBOMVersion(t, repo, productA, 2, false)
	b1 := seedBOMVersion(t, repo, productB, 1, true)

	if err := repo.SetProductBOMActive(a2.ID); err != nil {
		t.Fatalf("SetProductBOMActive: %v", err)
	}

	activeB, err := repo.GetActiveProductBOM(productB)
	if err != nil {
		t.Fatalf("product B lost its active version: %v", err)
	}
	if activeB.ID != b1.ID {
		t.Fatalf("product B active = %s", activeB.ID)
	}
}

func TestSetPackagingBOMActiveKeepsSingleActiveVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewBOMRepository(db)
	packagingID := uuid.New().String()

	first := &entity.PackagingBOM{ID: uuid.New().String(), PackagingID: packagingID, IsActive: true}
	second := &entity.PackagingBOM{ID: uuid.New().String(), PackagingID: packagingID, IsActive: false}
	if err := repo.CreatePackagingBOM(first); err != nil {
		t.Fatalf("CreatePackagingBOM: %v", err)
	}
	if err := repo.CreatePackagingBOM(second); err != nil {
		t.Fatalf("CreatePackagingBOM: %v", err)
	}

	if err := repo.SetPackagingBOMActive(second.ID); err != nil {
		t.Fatalf("SetPackagingBOMActive: %v", err)
	}

	active, err := repo.GetActivePackagingBOM(packagingID)
	if err != nil {
		t.Fatalf("GetActivePackagingBOM: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("active = %s, want %s", active.ID, second.ID)
	}

	var activeCount int64
	db.Model(&entity.PackagingBOM{}).
		Where("packaging_id = ? AND is_active = ?", packagingID, true).Count(&activeCount)
	if activeCount != 1 {
		t.Fatalf("active packaging BOMs = %d, want 1", activeCount)
	}
}
