package service

import (
	"time"

	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
)

// availableQty 某物料在某排产日的可用量：
//
//	available = on_hand − Σ预占 + Σ在途（承诺交期 ≤ 该日，PO 状态 SENT/PARTIAL）
//
// 预占不按日期过滤，在途按日期截断
func availableQty(repos *repository.Repositories, itemID string, asOf time.Time) (float64, error) {
	onHand, err := repos.Inventory.GetOnHand(itemID)
	if err != nil {
		return 0, err
	}
	reserved, err := repos.Inventory.GetReservedQty(itemID)
	if err != nil {
		return 0, err
	}
	inbound, err := repos.Procurement.GetInboundQty(itemID, asOf)
	if err != nil {
		return 0, err
	}
	return onHand - reserved + inbound, nil
}
