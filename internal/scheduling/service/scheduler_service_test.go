package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"github.com/tejas303525/ERPemergent/internal/scheduling/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestScheduler(db *gorm.DB) *SchedulerService {
	return NewSchedulerService(db, zap.NewNop(), nil, "")
}

// 固定场景：200L桶装油品，净重规格 170kg/桶，配方单一原料 1kg/kg
type schedFixture struct {
	db        *gorm.DB
	repos     *repository.Repositories
	product   *entity.Product
	packaging *entity.Packaging
	rawItem   *entity.InventoryItem
	weekStart time.Time
}

func setupSchedFixture(t *testing.T, withSpec bool) *schedFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := &schedFixture{
		db:        db,
		repos:     repository.NewRepositories(db),
		weekStart: testutil.Date(2026, 1, 5),
	}
	f.product = testutil.SeedProduct(t, db, "P-200", "Hydraulic Oil 46", nil)
	f.packaging = testutil.SeedPackaging(t, db, "200L Steel Drum", 200, nil)
	f.rawItem = testutil.SeedItem(t, db, "RM-100", "Base Oil SN500", entity.ItemTypeRaw, "KG")
	testutil.SeedProductBOM(t, db, f.product.ID, map[string]float64{f.rawItem.ID: 1.0})

	if withSpec {
		spec := &entity.ProductPackagingSpec{
			ID:          uuid.New().String(),
			ProductID:   f.product.ID,
			PackagingID: f.packaging.ID,
			NetWeightKg: 170,
			UpdatedAt:   time.Now(),
		}
		if err := db.Create(spec).Error; err != nil {
			t.Fatalf("seed spec: %v", err)
		}
	}
	return f
}

func TestRegenerateScheduleHappyPath(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 100000)

	due := testutil.Date(2026, 1, 9)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 60, &due)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 30, nil)

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	// 同产品同包装合并为一个战役，90桶一天排完
	if summary.CampaignsCreated != 1 {
		t.Fatalf("campaigns = %d, want 1", summary.CampaignsCreated)
	}
	if summary.ScheduleDaysCreated != 1 {
		t.Fatalf("schedule days = %d, want 1", summary.ScheduleDaysCreated)
	}
	if summary.UnschedulableLines != 0 {
		t.Fatalf("unschedulable = %d, want 0", summary.UnschedulableLines)
	}
	if summary.RequisitionLinesCreated != 0 {
		t.Fatalf("requisition lines = %d, want 0", summary.RequisitionLinesCreated)
	}

	day := summary.Days[0]
	if day.PlannedUnits != 90 || day.Status != entity.ScheduleStatusReady || day.BlockingReason != entity.BlockingNone {
		t.Fatalf("day = %+v", day)
	}
	if !day.ScheduleDate.Equal(f.weekStart) {
		t.Fatalf("schedule date = %v, want %v", day.ScheduleDate, f.weekStart)
	}

	campaigns, err := f.repos.Schedule.ListCampaignsByWeek(f.weekStart)
	if err != nil {
		t.Fatalf("ListCampaignsByWeek: %v", err)
	}
	if len(campaigns) != 1 || campaigns[0].TotalUnits != 90 {
		t.Fatalf("campaigns = %+v", campaigns)
	}
	if campaigns[0].EarliestDueDate == nil || !campaigns[0].EarliestDueDate.Equal(due) {
		t.Fatalf("earliest due = %v, want %v", campaigns[0].EarliestDueDate, due)
	}
	if len(campaigns[0].Links) != 2 {
		t.Fatalf("demand links = %d, want 2", len(campaigns[0].Links))
	}

	// 需求快照：90桶 × 170kg × 1.0 = 15300kg，足量
	reqs, err := f.repos.Schedule.ListRequirementsByDay(day.ScheduleDayID)
	if err != nil {
		t.Fatalf("ListRequirementsByDay: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("requirements = %d, want 1", len(reqs))
	}
	if reqs[0].RequiredQty != 15300 || reqs[0].ShortageQty != 0 {
		t.Fatalf("requirement = %+v", reqs[0])
	}
}

func TestRegenerateScheduleConversionMissing(t *testing.T) {
	f := setupSchedFixture(t, false)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 100000)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 50, nil)

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	day := summary.Days[0]
	if day.Status != entity.ScheduleStatusBlocked || day.BlockingReason != entity.BlockingConversionMissing {
		t.Fatalf("day = %+v", day)
	}

	// 换算缺失时不落需求快照，也不生成采购申请
	reqs, _ := f.repos.Schedule.ListRequirementsByDay(day.ScheduleDayID)
	if len(reqs) != 0 {
		t.Fatalf("requirements = %d, want 0", len(reqs))
	}
	if summary.RequisitionLinesCreated != 0 {
		t.Fatalf("requisition lines = %d, want 0", summary.RequisitionLinesCreated)
	}
}

func TestRegenerateScheduleRawShortageCreatesRequisition(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 10000)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 90, nil)

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	day := summary.Days[0]
	if day.Status != entity.ScheduleStatusBlocked || day.BlockingReason != entity.BlockingRawShortage {
		t.Fatalf("day = %+v", day)
	}

	// 需求 15300 − 现有 10000 = 缺口 5300
	reqs, _ := f.repos.Schedule.ListRequirementsByDay(day.ScheduleDayID)
	if len(reqs) != 1 || reqs[0].ShortageQty != 5300 {
		t.Fatalf("requirements = %+v", reqs)
	}

	if summary.RequisitionLinesCreated != 1 {
		t.Fatalf("requisition lines = %d, want 1", summary.RequisitionLinesCreated)
	}
	pr, err := f.repos.Procurement.GetDraftRequisition()
	if err != nil {
		t.Fatalf("GetDraftRequisition: %v", err)
	}
	lines, err := f.repos.Procurement.ListRequisitionLines(pr.ID)
	if err != nil {
		t.Fatalf("ListRequisitionLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	line := lines[0]
	if line.ItemID != f.rawItem.ID || line.Qty != 5300 || line.ItemType != entity.ItemTypeRaw {
		t.Fatalf("line = %+v", line)
	}
	if !line.RequiredBy.Equal(f.weekStart) || line.ScheduleDayID != day.ScheduleDayID {
		t.Fatalf("line linkage = %+v", line)
	}
}

func TestRegenerateScheduleInboundReducesShortage(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 10000)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 90, nil)

	supplier := &entity.Supplier{ID: uuid.New().String(), Name: "ChemCo", IsActive: true}
	if err := f.db.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	promised := testutil.Date(2026, 1, 4)
	po := &entity.PurchaseOrder{
		ID: uuid.New().String(), POCode: "PO-TEST-0100", SupplierID: supplier.ID, Status: entity.POStatusSent,
		Lines: []entity.PurchaseOrderLine{
			{ID: uuid.New().String(), ItemID: f.rawItem.ID, ItemType: entity.ItemTypeRaw, Qty: 2000, UOM: "KG", PromisedDeliveryDate: &promised},
		},
	}
	po.Lines[0].POID = po.ID
	if err := f.db.Create(po).Error; err != nil {
		t.Fatalf("seed PO: %v", err)
	}

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	// 在途 2000 抵减后缺口 3300
	day := summary.Days[0]
	reqs, _ := f.repos.Schedule.ListRequirementsByDay(day.ScheduleDayID)
	if len(reqs) != 1 || reqs[0].AvailableQty != 12000 || reqs[0].ShortageQty != 3300 {
		t.Fatalf("requirements = %+v", reqs)
	}
}

func TestRegenerateSchedulePackShortageClassification(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 100000)

	drumShell := testutil.SeedItem(t, f.db, "PK-100", "Steel Drum Shell", entity.ItemTypePack, "EA")
	testutil.SeedPackagingBOM(t, f.db, f.packaging.ID, map[string]float64{drumShell.ID: 1})
	// 桶壳零库存，50桶需要50只

	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 50, nil)

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	day := summary.Days[0]
	if day.Status != entity.ScheduleStatusBlocked || day.BlockingReason != entity.BlockingPackShortage {
		t.Fatalf("day = %+v", day)
	}

	reqs, _ := f.repos.Schedule.ListRequirementsByDay(day.ScheduleDayID)
	if len(reqs) != 2 {
		t.Fatalf("requirements = %d, want 2 (raw + pack)", len(reqs))
	}
	var packReq *entity.ProductionDayRequirement
	for i := range reqs {
		if reqs[i].ItemType == entity.ItemTypePack {
			packReq = &reqs[i]
		}
	}
	if packReq == nil || packReq.RequiredQty != 50 || packReq.ShortageQty != 50 {
		t.Fatalf("pack requirement = %+v", packReq)
	}
}

func TestRegenerateScheduleBOMWithoutItemsBlocks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	weekStart := testutil.Date(2026, 1, 5)

	netKg := 180.0
	product := testutil.SeedProduct(t, db, "P-210", "Transformer Oil", nil)
	packaging := testutil.SeedPackaging(t, db, "200L Steel Drum", 200, &netKg)
	// 配方头存在但没有任何明细行
	testutil.SeedProductBOM(t, db, product.ID, nil)
	testutil.SeedDemandLine(t, db, product.ID, packaging.ID, 40, nil)

	svc := newTestScheduler(db)
	summary, err := svc.RegenerateSchedule(context.Background(), weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	// 空配方可以合并成战役，但排产日阻塞且不落需求快照
	if summary.UnschedulableLines != 0 {
		t.Fatalf("unschedulable = %d, want 0", summary.UnschedulableLines)
	}
	day := summary.Days[0]
	if day.Status != entity.ScheduleStatusBlocked || day.BlockingReason != entity.BlockingBOMMissing {
		t.Fatalf("day = %+v", day)
	}
	reqs, _ := repos.Schedule.ListRequirementsByDay(day.ScheduleDayID)
	if len(reqs) != 0 {
		t.Fatalf("requirements = %d, want 0", len(reqs))
	}
	if summary.RequisitionLinesCreated != 0 {
		t.Fatalf("requisition lines = %d, want 0", summary.RequisitionLinesCreated)
	}
}

func TestRegenerateScheduleRawAndPackShortageClassification(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 10000)

	// 原料缺 5300，桶壳零库存缺 90 只，两类同时缺
	drumShell := testutil.SeedItem(t, f.db, "PK-101", "Steel Drum Shell", entity.ItemTypePack, "EA")
	testutil.SeedPackagingBOM(t, f.db, f.packaging.ID, map[string]float64{drumShell.ID: 1})
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 90, nil)

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	day := summary.Days[0]
	if day.Status != entity.ScheduleStatusBlocked || day.BlockingReason != entity.BlockingRawPackShortage {
		t.Fatalf("day = %+v", day)
	}

	if summary.RequisitionLinesCreated != 2 {
		t.Fatalf("requisition lines = %d, want 2", summary.RequisitionLinesCreated)
	}
	pr, err := f.repos.Procurement.GetDraftRequisition()
	if err != nil {
		t.Fatalf("GetDraftRequisition: %v", err)
	}
	lines, err := f.repos.Procurement.ListRequisitionLines(pr.ID)
	if err != nil {
		t.Fatalf("ListRequisitionLines: %v", err)
	}
	qtyByItem := map[string]float64{}
	for _, line := range lines {
		qtyByItem[line.ItemID] = line.Qty
	}
	if qtyByItem[f.rawItem.ID] != 5300 {
		t.Fatalf("raw requisition qty = %v, want 5300", qtyByItem[f.rawItem.ID])
	}
	if qtyByItem[drumShell.ID] != 90 {
		t.Fatalf("pack requisition qty = %v, want 90", qtyByItem[drumShell.ID])
	}
}

func TestRegenerateScheduleSkipsLinesWithoutBOM(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 100000)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 40, nil)

	// 第二个产品没有任何配方
	orphan := testutil.SeedProduct(t, f.db, "P-201", "Unformulated Blend", nil)
	testutil.SeedDemandLine(t, f.db, orphan.ID, f.packaging.ID, 25, nil)

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}

	if summary.UnschedulableLines != 1 {
		t.Fatalf("unschedulable = %d, want 1", summary.UnschedulableLines)
	}
	if summary.CampaignsCreated != 1 {
		t.Fatalf("campaigns = %d, want 1", summary.CampaignsCreated)
	}
}

func TestRegenerateScheduleIsRepeatable(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 100000)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 90, nil)

	svc := newTestScheduler(f.db)
	ctx := context.Background()
	first, err := svc.RegenerateSchedule(ctx, f.weekStart)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstReqs, err := f.repos.Schedule.ListRequirementsByDay(first.Days[0].ScheduleDayID)
	if err != nil {
		t.Fatalf("first run requirements: %v", err)
	}

	summary, err := svc.RegenerateSchedule(ctx, f.weekStart)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	// 重排后战役和排产日都只有一套
	campaigns, _ := f.repos.Schedule.ListCampaignsByWeek(f.weekStart)
	if len(campaigns) != 1 {
		t.Fatalf("campaigns after rerun = %d, want 1", len(campaigns))
	}
	days, _ := f.repos.Schedule.ListDaysByWeek(f.weekStart)
	if len(days) != 1 {
		t.Fatalf("days after rerun = %d, want 1", len(days))
	}
	if summary.CampaignsCreated != 1 || summary.ScheduleDaysCreated != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	// 两次重排结论逐项一致
	if summary.Days[0].Status != first.Days[0].Status ||
		summary.Days[0].PlannedUnits != first.Days[0].PlannedUnits ||
		summary.Days[0].BlockingReason != first.Days[0].BlockingReason {
		t.Fatalf("rerun day = %+v, first = %+v", summary.Days[0], first.Days[0])
	}
	secondReqs, err := f.repos.Schedule.ListRequirementsByDay(summary.Days[0].ScheduleDayID)
	if err != nil {
		t.Fatalf("second run requirements: %v", err)
	}
	if len(secondReqs) != len(firstReqs) {
		t.Fatalf("requirements after rerun = %d, want %d", len(secondReqs), len(firstReqs))
	}
	for i := range secondReqs {
		if secondReqs[i].RequiredQty != firstReqs[i].RequiredQty ||
			secondReqs[i].AvailableQty != firstReqs[i].AvailableQty ||
			secondReqs[i].ShortageQty != firstReqs[i].ShortageQty {
			t.Fatalf("requirement[%d] = %+v, first = %+v", i, secondReqs[i], firstReqs[i])
		}
	}
}

func TestRegenerateSchedulePreservesPromotedDays(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 100000)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 90, nil)

	svc := newTestScheduler(f.db)
	ctx := context.Background()
	first, err := svc.RegenerateSchedule(ctx, f.weekStart)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	promotedID := first.Days[0].ScheduleDayID
	if err := f.repos.Schedule.UpdateDayStatus(promotedID, entity.ScheduleStatusInProgress); err != nil {
		t.Fatalf("promote day: %v", err)
	}

	if _, err := svc.RegenerateSchedule(ctx, f.weekStart); err != nil {
		t.Fatalf("second run: %v", err)
	}

	// 已流转的日保留，新 DRAFT 日并存
	promoted, err := f.repos.Schedule.GetDayByID(promotedID)
	if err != nil {
		t.Fatalf("promoted day deleted: %v", err)
	}
	if promoted.Status != entity.ScheduleStatusInProgress {
		t.Fatalf("promoted status = %s", promoted.Status)
	}
	days, _ := f.repos.Schedule.ListDaysByWeek(f.weekStart)
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2 (promoted + new draft)", len(days))
	}
}

func TestRegenerateScheduleNoOpenDemand(t *testing.T) {
	f := setupSchedFixture(t, true)

	svc := newTestScheduler(f.db)
	summary, err := svc.RegenerateSchedule(context.Background(), f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}
	if summary.CampaignsCreated != 0 || summary.ScheduleDaysCreated != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Message == "" {
		t.Fatal("expected explanatory message for empty run")
	}
}

func TestApproveScheduleCreatesReservationsOnce(t *testing.T) {
	f := setupSchedFixture(t, true)
	testutil.SeedBalance(t, f.db, f.rawItem.ID, 100000)
	testutil.SeedDemandLine(t, f.db, f.product.ID, f.packaging.ID, 90, nil)

	svc := newTestScheduler(f.db)
	ctx := context.Background()
	regen, err := svc.RegenerateSchedule(ctx, f.weekStart)
	if err != nil {
		t.Fatalf("RegenerateSchedule: %v", err)
	}
	dayID := regen.Days[0].ScheduleDayID

	approve, err := svc.ApproveSchedule(ctx, f.weekStart)
	if err != nil {
		t.Fatalf("ApproveSchedule: %v", err)
	}
	if approve.DaysApproved != 1 || approve.ReservationsCreated != 1 {
		t.Fatalf("approve = %+v", approve)
	}

	reservations, err := f.repos.Inventory.ListReservationsByRef(entity.ReservationRefScheduleDay, dayID)
	if err != nil {
		t.Fatalf("ListReservationsByRef: %v", err)
	}
	if len(reservations) != 1 || reservations[0].Qty != 15300 {
		t.Fatalf("reservations = %+v", reservations)
	}

	// 重复审批不产生新的预占
	again, err := svc.ApproveSchedule(ctx, f.weekStart)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if again.ReservationsCreated != 0 {
		t.Fatalf("second approve created %d reservations", again.ReservationsCreated)
	}
	reservations, _ = f.repos.Inventory.ListReservationsByRef(entity.ReservationRefScheduleDay, dayID)
	if len(reservations) != 1 {
		t.Fatalf("reservations after second approve = %d", len(reservations))
	}
}
