package handler

import "github.com/tejas303525/ERPemergent/internal/scheduling/service"

// Handlers 排产HTTP处理器集合
type Handlers struct {
	Schedule    *ScheduleHandler
	Master      *MasterHandler
	Inventory   *InventoryHandler
	Procurement *ProcurementHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Schedule:    NewScheduleHandler(services.Scheduler, services.Report),
		Master:      NewMasterHandler(services.Master),
		Inventory:   NewInventoryHandler(services.Inventory),
		Procurement: NewProcurementHandler(services.Procurement),
	}
}
