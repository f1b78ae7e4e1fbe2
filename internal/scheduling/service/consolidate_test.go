package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"github.com/tejas303525/ERPemergent/internal/scheduling/testutil"
)

func TestConsolidateDemandSplitsByBOMVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	product := testutil.SeedProduct(t, db, "P-300", "Hydraulic Oil 32", nil)
	packaging := testutil.SeedPackaging(t, db, "200L Steel Drum", 200, nil)
	raw := testutil.SeedItem(t, db, "RM-300", "Base Oil", entity.ItemTypeRaw, "KG")

	// v1 已停用，v2 生效
	v1 := &entity.ProductBOM{
		ID: uuid.New().String(), ProductID: product.ID, Version: 1, IsActive: false,
		Items: []entity.ProductBOMItem{{ID: uuid.New().String(), MaterialItemID: raw.ID, QtyKgPerKgFinished: 1}},
	}
	v1.Items[0].BOMID = v1.ID
	if err := db.Create(v1).Error; err != nil {
		t.Fatalf("seed v1: %v", err)
	}
	v2 := &entity.ProductBOM{
		ID: uuid.New().String(), ProductID: product.ID, Version: 2, IsActive: true,
		Items: []entity.ProductBOMItem{{ID: uuid.New().String(), MaterialItemID: raw.ID, QtyKgPerKgFinished: 0.98}},
	}
	v2.Items[0].BOMID = v2.ID
	if err := db.Create(v2).Error; err != nil {
		t.Fatalf("seed v2: %v", err)
	}

	pinned := 1
	lines := []entity.DemandLine{
		{ID: uuid.New().String(), ProductID: product.ID, PackagingID: packaging.ID, QtyUnits: 10},
		{ID: uuid.New().String(), ProductID: product.ID, PackagingID: packaging.ID, QtyUnits: 20},
		{ID: uuid.New().String(), ProductID: product.ID, PackagingID: packaging.ID, QtyUnits: 5, BOMVersion: &pinned},
	}

	drafts, unschedulable, err := consolidateDemand(repos, lines)
	if err != nil {
		t.Fatalf("consolidateDemand: %v", err)
	}
	if unschedulable != 0 {
		t.Fatalf("unschedulable = %d", unschedulable)
	}
	// 锁定 v1 的行单独成战役
	if len(drafts) != 2 {
		t.Fatalf("drafts = %d, want 2", len(drafts))
	}

	byBOM := map[string]*CampaignDraft{}
	for _, d := range drafts {
		byBOM[d.BOMID] = d
	}
	if d := byBOM[v2.ID]; d == nil || d.TotalUnits != 30 || d.BOMVersion != 2 {
		t.Fatalf("active-version draft = %+v", d)
	}
	if d := byBOM[v1.ID]; d == nil || d.TotalUnits != 5 || d.BOMVersion != 1 {
		t.Fatalf("pinned-version draft = %+v", d)
	}
}

func TestConsolidateDemandOrdersByEarliestDue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	packaging := testutil.SeedPackaging(t, db, "200L Steel Drum", 200, nil)
	raw := testutil.SeedItem(t, db, "RM-301", "Base Oil", entity.ItemTypeRaw, "KG")

	late := testutil.SeedProduct(t, db, "P-301", "Gear Oil", nil)
	early := testutil.SeedProduct(t, db, "P-302", "Engine Oil", nil)
	open := testutil.SeedProduct(t, db, "P-303", "Compressor Oil", nil)
	for _, p := range []*entity.Product{late, early, open} {
		testutil.SeedProductBOM(t, db, p.ID, map[string]float64{raw.ID: 1})
	}

	lateDue := testutil.Date(2026, 1, 20)
	earlyDue := testutil.Date(2026, 1, 6)
	lines := []entity.DemandLine{
		{ID: uuid.New().String(), ProductID: late.ID, PackagingID: packaging.ID, QtyUnits: 10, DueDate: &lateDue},
		{ID: uuid.New().String(), ProductID: open.ID, PackagingID: packaging.ID, QtyUnits: 10},
		{ID: uuid.New().String(), ProductID: early.ID, PackagingID: packaging.ID, QtyUnits: 10, DueDate: &earlyDue},
	}

	drafts, _, err := consolidateDemand(repos, lines)
	if err != nil {
		t.Fatalf("consolidateDemand: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("drafts = %d, want 3", len(drafts))
	}
	// 最早交期优先，无交期排最后
	if drafts[0].ProductID != early.ID || drafts[1].ProductID != late.ID || drafts[2].ProductID != open.ID {
		t.Fatalf("order = [%s %s %s]", drafts[0].ProductID, drafts[1].ProductID, drafts[2].ProductID)
	}
}
