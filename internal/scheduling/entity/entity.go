package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有排产相关表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Product{},
		&Packaging{},
		&ProductPackagingSpec{},
		&CapacityConfig{},
		&Supplier{},

		// 库存
		&InventoryItem{},
		&InventoryBalance{},
		&InventoryReservation{},

		// 配方与包装BOM
		&ProductBOM{},
		&ProductBOMItem{},
		&PackagingBOM{},
		&PackagingBOMItem{},

		// 需求
		&DemandLine{},

		// 排产
		&ProductionCampaign{},
		&CampaignDemandLink{},
		&ProductionScheduleDay{},
		&ProductionDayRequirement{},

		// 采购
		&ProcurementRequisition{},
		&ProcurementRequisitionLine{},
		&PurchaseOrder{},
		&PurchaseOrderLine{},
	)
}
