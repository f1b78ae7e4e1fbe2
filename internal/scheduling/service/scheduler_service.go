package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchedulerService 周排产编排：需求合并 → 产能分配 → 物料可用性评估 → 缺料采购申请
type SchedulerService struct {
	db       *gorm.DB
	logger   *zap.Logger
	rdb      *redis.Client // 可为空，为空时不做跨实例互斥
	lineType string
}

func NewSchedulerService(db *gorm.DB, logger *zap.Logger, rdb *redis.Client, lineType string) *SchedulerService {
	if lineType == "" {
		lineType = "DRUM"
	}
	return &SchedulerService{db: db, logger: logger, rdb: rdb, lineType: lineType}
}

// DaySummary 单个排产日的结果摘要
type DaySummary struct {
	ScheduleDayID  string    `json:"schedule_day_id"`
	ScheduleDate   time.Time `json:"schedule_date"`
	CampaignID     string    `json:"campaign_id"`
	PlannedUnits   int       `json:"planned_units"`
	Status         string    `json:"status"`
	BlockingReason string    `json:"blocking_reason"`
}

// RegenerateSummary 一次重排的完整结果，要么全部成功要么整体失败，不返回半截结果
type RegenerateSummary struct {
	WeekStart               time.Time    `json:"week_start"`
	CampaignsCreated        int          `json:"campaigns_created"`
	ScheduleDaysCreated     int          `json:"schedule_days_created"`
	UnschedulableLines      int          `json:"unschedulable_lines"`
	RequisitionLinesCreated int          `json:"requisition_lines_created"`
	RequisitionLinesRaised  int          `json:"requisition_lines_raised"`
	Days                    []DaySummary `json:"days"`
	Message                 string       `json:"message,omitempty"`
}

// ApproveSummary 排产审批结果
type ApproveSummary struct {
	WeekStart           time.Time `json:"week_start"`
	DaysApproved        int       `json:"days_approved"`
	ReservationsCreated int       `json:"reservations_created"`
}

// shortageDetail 缺口明细，同时写入阻塞详情和驱动采购申请行
type shortageDetail struct {
	ItemID    string  `json:"item_id"`
	ItemName  string  `json:"item_name"`
	ItemType  string  `json:"item_type"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Shortage  float64 `json:"shortage"`
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RegenerateSchedule 重建某周的排产。删除并重建的只有 DRAFT 行，
// 整个过程在单事务内完成，失败整体回滚
func (s *SchedulerService) RegenerateSchedule(ctx context.Context, weekStart time.Time) (*RegenerateSummary, error) {
	weekStart = normalizeDate(weekStart)

	unlock, err := s.lockWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	defer unlock()

	summary := &RegenerateSummary{WeekStart: weekStart}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)
		capacity := s.dailyCapacity(repos)

		lines, err := repos.Demand.ListOpenForScheduling(s.lineType)
		if err != nil {
			return fmt.Errorf("读取开放需求失败: %w", err)
		}

		drafts, unschedulable, err := consolidateDemand(repos, lines)
		if err != nil {
			return err
		}
		summary.UnschedulableLines = unschedulable

		if err := repos.Schedule.DeleteDraftRowsForWeek(weekStart); err != nil {
			return fmt.Errorf("清理本周DRAFT排产失败: %w", err)
		}
		if err := repos.Schedule.DeleteOrphanCampaignsForWeek(weekStart); err != nil {
			return fmt.Errorf("清理本周战役失败: %w", err)
		}

		if len(drafts) == 0 {
			summary.Message = "no open demand to schedule"
			return nil
		}

		allocations := AllocateCampaigns(drafts, capacity, PlanningDays)

		campaignByDraft := make(map[*CampaignDraft]*entity.ProductionCampaign, len(drafts))
		now := time.Now()
		for _, draft := range drafts {
			campaign := &entity.ProductionCampaign{
				ID:              uuid.New().String(),
				WeekStart:       weekStart,
				ProductID:       draft.ProductID,
				PackagingID:     draft.PackagingID,
				SpecID:          draft.SpecID,
				BOMID:           draft.BOMID,
				BOMVersion:      draft.BOMVersion,
				TotalUnits:      draft.TotalUnits,
				EarliestDueDate: draft.EarliestDueDate,
				Status:          entity.ScheduleStatusDraft,
				CreatedAt:       now,
			}
			if err := repos.Schedule.CreateCampaign(campaign); err != nil {
				return fmt.Errorf("创建战役失败: %w", err)
			}
			links := make([]entity.CampaignDemandLink, 0, len(draft.Links))
			for _, l := range draft.Links {
				links = append(links, entity.CampaignDemandLink{
					ID:             uuid.New().String(),
					CampaignID:     campaign.ID,
					DemandLineID:   l.DemandLineID,
					UnitsAllocated: l.Units,
				})
			}
			if err := repos.Schedule.BatchCreateLinks(links); err != nil {
				return fmt.Errorf("创建战役需求追溯失败: %w", err)
			}
			campaignByDraft[draft] = campaign
			summary.CampaignsCreated++
		}

		book := newRequisitionBook(repos, weekStart)
		for offset := 0; offset < PlanningDays; offset++ {
			scheduleDate := weekStart.AddDate(0, 0, offset)
			for _, alloc := range allocations[offset] {
				campaign := campaignByDraft[alloc.Campaign]
				day := &entity.ProductionScheduleDay{
					ID:             uuid.New().String(),
					WeekStart:      weekStart,
					ScheduleDate:   scheduleDate,
					CampaignID:     campaign.ID,
					PlannedUnits:   alloc.Units,
					Status:         entity.ScheduleStatusDraft,
					BlockingReason: entity.BlockingNone,
					CreatedAt:      time.Now(),
				}
				if err := s.evaluateDay(repos, book, day, campaign); err != nil {
					return err
				}
				if err := repos.Schedule.CreateDay(day); err != nil {
					return fmt.Errorf("创建排产日失败: %w", err)
				}
				summary.ScheduleDaysCreated++
				summary.Days = append(summary.Days, DaySummary{
					ScheduleDayID:  day.ID,
					ScheduleDate:   day.ScheduleDate,
					CampaignID:     day.CampaignID,
					PlannedUnits:   day.PlannedUnits,
					Status:         day.Status,
					BlockingReason: day.BlockingReason,
				})
			}
		}
		summary.RequisitionLinesCreated = book.linesCreated
		summary.RequisitionLinesRaised = book.linesRaised
		return nil
	})
	if err != nil {
		return nil, err
	}

	if summary.UnschedulableLines > 0 {
		s.logger.Warn("demand lines without resolvable formulation were excluded",
			zap.Time("week_start", weekStart),
			zap.Int("lines", summary.UnschedulableLines),
		)
	}
	s.logger.Info("schedule regenerated",
		zap.Time("week_start", weekStart),
		zap.Int("campaigns", summary.CampaignsCreated),
		zap.Int("schedule_days", summary.ScheduleDaysCreated),
		zap.Int("unschedulable_lines", summary.UnschedulableLines),
	)
	return summary, nil
}

// evaluateDay 评估单个排产日的物料可用性，填状态与阻塞信息，落需求快照行。
// 配置缺失和缺料都是数据结果不是错误，只有存储层故障才返回 error
func (s *SchedulerService) evaluateDay(repos *repository.Repositories, book *requisitionBook, day *entity.ProductionScheduleDay, campaign *entity.ProductionCampaign) error {
	netKg, ok, err := resolveNetWeightKg(repos, campaign.ProductID, campaign.PackagingID)
	if err != nil {
		return fmt.Errorf("净重换算查询失败: %w", err)
	}
	if !ok {
		day.Status = entity.ScheduleStatusBlocked
		day.BlockingReason = entity.BlockingConversionMissing
		day.BlockingDetails, _ = json.Marshal(map[string]string{
			"message": "net weight kg per unit not configured",
		})
		return nil
	}

	finishedKg := float64(day.PlannedUnits) * netKg

	bomItems, err := repos.BOM.GetProductBOMItems(campaign.BOMID)
	if err != nil {
		return fmt.Errorf("读取配方明细失败: %w", err)
	}
	if len(bomItems) == 0 {
		day.Status = entity.ScheduleStatusBlocked
		day.BlockingReason = entity.BlockingBOMMissing
		day.BlockingDetails, _ = json.Marshal(map[string]string{
			"message": "no BOM items configured for this product",
		})
		return nil
	}

	var (
		requirements []entity.ProductionDayRequirement
		shortages    []shortageDetail
	)

	for _, bomItem := range bomItems {
		requiredKg := finishedKg * bomItem.QtyKgPerKgFinished
		available, err := availableQty(repos, bomItem.MaterialItemID, day.ScheduleDate)
		if err != nil {
			return fmt.Errorf("原料可用量查询失败: %w", err)
		}
		shortage := requiredKg - available
		if shortage < 0 {
			shortage = 0
		}
		requirements = append(requirements, entity.ProductionDayRequirement{
			ID:            uuid.New().String(),
			ScheduleDayID: day.ID,
			ItemID:        bomItem.MaterialItemID,
			ItemType:      entity.ItemTypeRaw,
			RequiredQty:   requiredKg,
			AvailableQty:  available,
			ShortageQty:   shortage,
		})
		if shortage > 0 {
			shortages = append(shortages, shortageDetail{
				ItemID:    bomItem.MaterialItemID,
				ItemName:  s.itemName(repos, bomItem.MaterialItemID),
				ItemType:  entity.ItemTypeRaw,
				Required:  requiredKg,
				Available: available,
				Shortage:  shortage,
			})
		}
	}

	// 包装BOM可以不存在，不存在不算阻塞
	packBOM, err := repos.BOM.GetActivePackagingBOM(campaign.PackagingID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("读取包装BOM失败: %w", err)
	}
	if err == nil {
		packItems, err := repos.BOM.GetPackagingBOMItems(packBOM.ID)
		if err != nil {
			return fmt.Errorf("读取包装BOM明细失败: %w", err)
		}
		for _, packItem := range packItems {
			requiredQty := float64(day.PlannedUnits) * packItem.QtyPerUnit
			available, err := availableQty(repos, packItem.PackItemID, day.ScheduleDate)
			if err != nil {
				return fmt.Errorf("包材可用量查询失败: %w", err)
			}
			shortage := requiredQty - available
			if shortage < 0 {
				shortage = 0
			}
			requirements = append(requirements, entity.ProductionDayRequirement{
				ID:            uuid.New().String(),
				ScheduleDayID: day.ID,
				ItemID:        packItem.PackItemID,
				ItemType:      entity.ItemTypePack,
				RequiredQty:   requiredQty,
				AvailableQty:  available,
				ShortageQty:   shortage,
			})
			if shortage > 0 {
				shortages = append(shortages, shortageDetail{
					ItemID:    packItem.PackItemID,
					ItemName:  s.itemName(repos, packItem.PackItemID),
					ItemType:  entity.ItemTypePack,
					Required:  requiredQty,
					Available: available,
					Shortage:  shortage,
				})
			}
		}
	}

	if err := repos.Schedule.BatchCreateRequirements(requirements); err != nil {
		return fmt.Errorf("写入排产日需求失败: %w", err)
	}

	if len(shortages) == 0 {
		day.Status = entity.ScheduleStatusReady
		day.BlockingReason = entity.BlockingNone
		return nil
	}

	day.Status = entity.ScheduleStatusBlocked
	day.BlockingReason = classifyShortages(shortages)
	day.BlockingDetails, _ = json.Marshal(map[string]interface{}{"shortages": shortages})

	for _, shortage := range shortages {
		if err := book.ensureLine(day, campaign, shortage); err != nil {
			return fmt.Errorf("生成采购申请行失败: %w", err)
		}
	}
	return nil
}

func classifyShortages(shortages []shortageDetail) string {
	var hasRaw, hasPack bool
	for _, s := range shortages {
		switch s.ItemType {
		case entity.ItemTypeRaw:
			hasRaw = true
		case entity.ItemTypePack:
			hasPack = true
		}
	}
	switch {
	case hasRaw && hasPack:
		return entity.BlockingRawPackShortage
	case hasRaw:
		return entity.BlockingRawShortage
	default:
		return entity.BlockingPackShortage
	}
}

func (s *SchedulerService) itemName(repos *repository.Repositories, itemID string) string {
	item, err := repos.Inventory.GetItemByID(itemID)
	if err != nil {
		return "Unknown"
	}
	return item.Name
}

func (s *SchedulerService) dailyCapacity(repos *repository.Repositories) int {
	cfg, err := repos.Master.GetCapacityByLineType(s.lineType)
	if err != nil || cfg.DailyCapacity <= 0 {
		return entity.DefaultDailyCapacity
	}
	return cfg.DailyCapacity
}

// ApproveSchedule 审批某周排产：为每个 READY 日按需求快照落库存预占。
// 已有预占的日跳过，重复调用幂等。这是排产引擎唯一写共享库存状态的入口
func (s *SchedulerService) ApproveSchedule(ctx context.Context, weekStart time.Time) (*ApproveSummary, error) {
	weekStart = normalizeDate(weekStart)
	summary := &ApproveSummary{WeekStart: weekStart}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)
		days, err := repos.Schedule.ListDaysByWeekAndStatus(weekStart, entity.ScheduleStatusReady)
		if err != nil {
			return fmt.Errorf("读取READY排产日失败: %w", err)
		}
		for _, day := range days {
			existing, err := repos.Inventory.CountReservationsByRef(entity.ReservationRefScheduleDay, day.ID)
			if err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			reqs, err := repos.Schedule.ListRequirementsByDay(day.ID)
			if err != nil {
				return err
			}
			for _, req := range reqs {
				reservation := &entity.InventoryReservation{
					ID:        uuid.New().String(),
					ItemID:    req.ItemID,
					RefType:   entity.ReservationRefScheduleDay,
					RefID:     day.ID,
					Qty:       req.RequiredQty,
					CreatedAt: time.Now(),
				}
				if err := repos.Inventory.CreateReservation(reservation); err != nil {
					return fmt.Errorf("创建库存预占失败: %w", err)
				}
				summary.ReservationsCreated++
			}
			summary.DaysApproved++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule approved",
		zap.Time("week_start", weekStart),
		zap.Int("days_approved", summary.DaysApproved),
		zap.Int("reservations_created", summary.ReservationsCreated),
	)
	return summary, nil
}

// lockWeek 同一周的重排必须串行，用 redis SetNX 做跨实例互斥。
// redis 未配置时退化为无锁，由调用方保证串行
func (s *SchedulerService) lockWeek(ctx context.Context, weekStart time.Time) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}
	key := fmt.Sprintf("sched:regen:%s", weekStart.Format("2006-01-02"))
	ok, err := s.rdb.SetNX(ctx, key, "1", 10*time.Minute).Result()
	if err != nil {
		s.logger.Warn("regen lock unavailable, proceeding without lock", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, fmt.Errorf("week %s 已有重排任务在执行", weekStart.Format("2006-01-02"))
	}
	return func() {
		s.rdb.Del(context.Background(), key)
	}, nil
}
