package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repositories 排产模块仓库集合
type Repositories struct {
	Master      *MasterRepository
	Inventory   *InventoryRepository
	BOM         *BOMRepository
	Demand      *DemandRepository
	Schedule    *ScheduleRepository
	Procurement *ProcurementRepository
}

func newID() string {
	return uuid.New().String()
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Master:      NewMasterRepository(db),
		Inventory:   NewInventoryRepository(db),
		BOM:         NewBOMRepository(db),
		Demand:      NewDemandRepository(db),
		Schedule:    NewScheduleRepository(db),
		Procurement: NewProcurementRepository(db),
	}
}
