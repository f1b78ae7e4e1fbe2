package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"github.com/tejas303525/ERPemergent/internal/shared/objstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Scheduler   *SchedulerService
	Master      *MasterService
	Inventory   *InventoryService
	Procurement *ProcurementService
	Report      *ReportService
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, store *objstore.Store, logger *zap.Logger, lineType string) *Services {
	return &Services{
		Scheduler:   NewSchedulerService(db, logger, rdb, lineType),
		Master:      NewMasterService(repos),
		Inventory:   NewInventoryService(repos),
		Procurement: NewProcurementService(repos),
		Report:      NewReportService(repos, store, logger),
	}
}
