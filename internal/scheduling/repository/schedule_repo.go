package repository

import (
	"time"

	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// --- Campaigns ---

func (r *ScheduleRepository) CreateCampaign(c *entity.ProductionCampaign) error {
	return r.db.Create(c).Error
}

func (r *ScheduleRepository) BatchCreateLinks(links []entity.CampaignDemandLink) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Create(&links).Error
}

func (r *ScheduleRepository) ListCampaignsByWeek(weekStart time.Time) ([]entity.ProductionCampaign, error) {
	var campaigns []entity.ProductionCampaign
	err := r.db.Preload("Links").Where("week_start = ?", weekStart).
		Order("created_at, id").Find(&campaigns).Error
	return campaigns, err
}

// --- Schedule Days ---

func (r *ScheduleRepository) CreateDay(day *entity.ProductionScheduleDay) error {
	return r.db.Create(day).Error
}

func (r *ScheduleRepository) GetDayByID(id string) (*entity.ProductionScheduleDay, error) {
	var day entity.ProductionScheduleDay
	err := r.db.Where("id = ?", id).First(&day).Error
	return &day, err
}

func (r *ScheduleRepository) ListDaysByWeek(weekStart time.Time) ([]entity.ProductionScheduleDay, error) {
	var days []entity.ProductionScheduleDay
	err := r.db.Where("week_start = ?", weekStart).
		Order("schedule_date, created_at, id").Find(&days).Error
	return days, err
}

func (r *ScheduleRepository) ListDaysByWeekAndStatus(weekStart time.Time, status string) ([]entity.ProductionScheduleDay, error) {
	var days []entity.ProductionScheduleDay
	err := r.db.Where("week_start = ? AND status = ?", weekStart, status).
		Order("schedule_date, created_at, id").Find(&days).Error
	return days, err
}

func (r *ScheduleRepository) UpdateDayStatus(id, status string) error {
	return r.db.Model(&entity.ProductionScheduleDay{}).Where("id = ?", id).
		Update("status", status).Error
}

// DeleteDraftRowsForWeek 删除本周 DRAFT 排产日及其需求快照
// 已流转状态（READY/IN_PROGRESS/DONE 等）的行不动
func (r *ScheduleRepository) DeleteDraftRowsForWeek(weekStart time.Time) error {
	var dayIDs []string
	if err := r.db.Model(&entity.ProductionScheduleDay{}).
		Where("week_start = ? AND status = ?", weekStart, entity.ScheduleStatusDraft).
		Pluck("id", &dayIDs).Error; err != nil {
		return err
	}
	if len(dayIDs) == 0 {
		return nil
	}
	if err := r.db.Where("schedule_day_id IN ?", dayIDs).
		Delete(&entity.ProductionDayRequirement{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", dayIDs).
		Delete(&entity.ProductionScheduleDay{}).Error
}

// DeleteOrphanCampaignsForWeek 删除本周已无任何排产日引用的战役及其需求追溯
func (r *ScheduleRepository) DeleteOrphanCampaignsForWeek(weekStart time.Time) error {
	var campaignIDs []string
	if err := r.db.Raw(`
		SELECT c.id FROM erp_production_campaigns c
		WHERE c.week_start = ?
		AND NOT EXISTS (
			SELECT 1 FROM erp_production_schedule_days d WHERE d.campaign_id = c.id
		)
	`, weekStart).Scan(&campaignIDs).Error; err != nil {
		return err
	}
	if len(campaignIDs) == 0 {
		return nil
	}
	if err := r.db.Where("campaign_id IN ?", campaignIDs).
		Delete(&entity.CampaignDemandLink{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", campaignIDs).
		Delete(&entity.ProductionCampaign{}).Error
}

// --- Requirements ---

func (r *ScheduleRepository) BatchCreateRequirements(reqs []entity.ProductionDayRequirement) error {
	if len(reqs) == 0 {
		return nil
	}
	return r.db.Create(&reqs).Error
}

func (r *ScheduleRepository) ListRequirementsByDay(scheduleDayID string) ([]entity.ProductionDayRequirement, error) {
	var reqs []entity.ProductionDayRequirement
	err := r.db.Where("schedule_day_id = ?", scheduleDayID).Order("item_type, item_id").Find(&reqs).Error
	return reqs, err
}

// TotalPlannedUnits 某日历日全部排产量合计（产能校验用）
func (r *ScheduleRepository) TotalPlannedUnits(scheduleDate time.Time) (int, error) {
	var result struct{ Total int }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(planned_units), 0) as total
		FROM erp_production_schedule_days
		WHERE schedule_date = ?
	`, scheduleDate).Scan(&result).Error
	return result.Total, err
}
