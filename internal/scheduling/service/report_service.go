package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"github.com/tejas303525/ERPemergent/internal/shared/objstore"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportService 排产周视图与导出
type ReportService struct {
	repos  *repository.Repositories
	store  *objstore.Store
	logger *zap.Logger
}

func NewReportService(repos *repository.Repositories, store *objstore.Store, logger *zap.Logger) *ReportService {
	return &ReportService{repos: repos, store: store, logger: logger}
}

// WeekDayView 周视图中的单个排产日
type WeekDayView struct {
	ScheduleDayID   string                            `json:"schedule_day_id"`
	ScheduleDate    time.Time                         `json:"schedule_date"`
	CampaignID      string                            `json:"campaign_id"`
	ProductName     string                            `json:"product_name"`
	PackagingName   string                            `json:"packaging_name"`
	PlannedUnits    int                               `json:"planned_units"`
	Status          string                            `json:"status"`
	BlockingReason  string                            `json:"blocking_reason"`
	BlockingDetails interface{}                       `json:"blocking_details,omitempty"`
	Requirements    []entity.ProductionDayRequirement `json:"requirements"`
}

// WeekView 某周排产完整视图
type WeekView struct {
	WeekStart     time.Time                   `json:"week_start"`
	DailyCapacity int                         `json:"daily_capacity"`
	Campaigns     []entity.ProductionCampaign `json:"campaigns"`
	Days          []WeekDayView               `json:"days"`
	UsedByDate    map[string]int              `json:"used_by_date"`
}

// GetWeekView 读取某周战役、排产日、需求快照与每日已用产能
func (s *ReportService) GetWeekView(weekStart time.Time, lineType string) (*WeekView, error) {
	if lineType == "" {
		lineType = "DRUM"
	}
	capacity := entity.DefaultDailyCapacity
	if cfg, err := s.repos.Master.GetCapacityByLineType(lineType); err == nil && cfg.DailyCapacity > 0 {
		capacity = cfg.DailyCapacity
	}

	campaigns, err := s.repos.Schedule.ListCampaignsByWeek(weekStart)
	if err != nil {
		return nil, fmt.Errorf("读取战役失败: %w", err)
	}
	days, err := s.repos.Schedule.ListDaysByWeek(weekStart)
	if err != nil {
		return nil, fmt.Errorf("读取排产日失败: %w", err)
	}

	campaignByID := make(map[string]*entity.ProductionCampaign, len(campaigns))
	for i := range campaigns {
		campaignByID[campaigns[i].ID] = &campaigns[i]
	}

	view := &WeekView{
		WeekStart:     weekStart,
		DailyCapacity: capacity,
		Campaigns:     campaigns,
		UsedByDate:    make(map[string]int),
	}
	for i := range days {
		day := &days[i]
		reqs, err := s.repos.Schedule.ListRequirementsByDay(day.ID)
		if err != nil {
			return nil, fmt.Errorf("读取排产日需求失败: %w", err)
		}
		dayView := WeekDayView{
			ScheduleDayID:  day.ID,
			ScheduleDate:   day.ScheduleDate,
			CampaignID:     day.CampaignID,
			PlannedUnits:   day.PlannedUnits,
			Status:         day.Status,
			BlockingReason: day.BlockingReason,
			Requirements:   reqs,
		}
		if len(day.BlockingDetails) > 0 {
			dayView.BlockingDetails = day.BlockingDetails
		}
		if campaign, ok := campaignByID[day.CampaignID]; ok {
			if product, err := s.repos.Master.GetProductByID(campaign.ProductID); err == nil {
				dayView.ProductName = product.Name
			}
			if packaging, err := s.repos.Master.GetPackagingByID(campaign.PackagingID); err == nil {
				dayView.PackagingName = packaging.Name
			}
		}
		view.Days = append(view.Days, dayView)
		view.UsedByDate[day.ScheduleDate.Format("2006-01-02")] += day.PlannedUnits
	}
	return view, nil
}

var weekExportHeaders = []string{
	"日期", "产品", "包装", "排产量(单位)", "状态", "阻塞原因",
}

// ExportWeek 导出某周排产为 Excel
func (s *ReportService) ExportWeek(weekStart time.Time, lineType string) (*excelize.File, string, error) {
	view, err := s.GetWeekView(weekStart, lineType)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Schedule"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range weekExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, day := range view.Days {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), day.ScheduleDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), day.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), day.PackagingName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), day.PlannedUnits)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), day.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), day.BlockingReason)
	}

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "C", 24)
	f.SetColWidth(sheet, "D", "F", 16)

	filename := fmt.Sprintf("schedule_%s.xlsx", weekStart.Format("2006-01-02"))
	return f, filename, nil
}

// ArchiveWeek 导出并归档到对象存储，未配置对象存储时跳过
func (s *ReportService) ArchiveWeek(ctx context.Context, weekStart time.Time, lineType string) (string, error) {
	if !s.store.Enabled() {
		return "", nil
	}
	f, filename, err := s.ExportWeek(weekStart, lineType)
	if err != nil {
		return "", err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("生成Excel失败: %w", err)
	}
	objectName := fmt.Sprintf("schedules/%s/%s", weekStart.Format("2006"), filename)
	if err := s.store.Put(ctx, objectName, buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		return "", err
	}
	s.logger.Info("week schedule archived", zap.String("object", objectName))
	return objectName, nil
}
