package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tejas303525/ERPemergent/internal/scheduling/service"
)

type ScheduleHandler struct {
	svc    *service.SchedulerService
	report *service.ReportService
}

func NewScheduleHandler(svc *service.SchedulerService, report *service.ReportService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, report: report}
}

type weekRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
}

func parseWeekStart(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// Regenerate POST /schedule/regenerate
func (h *ScheduleHandler) Regenerate(c *gin.Context) {
	var req weekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "week_start 格式应为 YYYY-MM-DD"})
		return
	}
	summary, err := h.svc.RegenerateSchedule(c.Request.Context(), weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": summary})
}

// Approve POST /schedule/approve
func (h *ScheduleHandler) Approve(c *gin.Context) {
	var req weekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "week_start 格式应为 YYYY-MM-DD"})
		return
	}
	summary, err := h.svc.ApproveSchedule(c.Request.Context(), weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": summary})
}

// GetWeek GET /schedule/week?week_start=YYYY-MM-DD
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	weekStart, err := parseWeekStart(c.Query("week_start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "week_start 格式应为 YYYY-MM-DD"})
		return
	}
	view, err := h.report.GetWeekView(weekStart, c.Query("line_type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": view})
}

// Export GET /schedule/week/export?week_start=YYYY-MM-DD
func (h *ScheduleHandler) Export(c *gin.Context) {
	weekStart, err := parseWeekStart(c.Query("week_start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "week_start 格式应为 YYYY-MM-DD"})
		return
	}
	f, filename, err := h.report.ExportWeek(weekStart, c.Query("line_type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "write excel: " + err.Error()})
	}
}

// Archive POST /schedule/week/archive
func (h *ScheduleHandler) Archive(c *gin.Context) {
	var req weekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "week_start 格式应为 YYYY-MM-DD"})
		return
	}
	objectName, err := h.report.ArchiveWeek(c.Request.Context(), weekStart, c.Query("line_type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	if objectName == "" {
		c.JSON(http.StatusOK, gin.H{"code": 0, "message": "对象存储未配置，已跳过归档"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"object": objectName}})
}
