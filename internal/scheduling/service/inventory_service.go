package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
)

// InventoryService 库存物料主数据与可用性快照
type InventoryService struct {
	repos *repository.Repositories
}

func NewInventoryService(repos *repository.Repositories) *InventoryService {
	return &InventoryService{repos: repos}
}

type CreateItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Name     string `json:"name" binding:"required"`
	ItemType string `json:"item_type" binding:"required,oneof=RAW PACK"`
	UOM      string `json:"uom"`
}

func (s *InventoryService) CreateItem(req CreateItemRequest) (*entity.InventoryItem, error) {
	uom := req.UOM
	if uom == "" {
		uom = "KG"
	}
	item := &entity.InventoryItem{
		ID:       uuid.New().String(),
		SKU:      req.SKU,
		Name:     req.Name,
		ItemType: req.ItemType,
		UOM:      uom,
		IsActive: true,
	}
	if err := s.repos.Inventory.CreateItem(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) ListItems(itemType string, page, size int) ([]entity.InventoryItem, int64, error) {
	return s.repos.Inventory.ListItems(itemType, page, size)
}

type AdjustBalanceRequest struct {
	ItemID      string  `json:"item_id" binding:"required"`
	WarehouseID string  `json:"warehouse_id"`
	Delta       float64 `json:"delta" binding:"required"`
}

func (s *InventoryService) AdjustBalance(req AdjustBalanceRequest) error {
	if _, err := s.repos.Inventory.GetItemByID(req.ItemID); err != nil {
		return fmt.Errorf("物料不存在: %w", err)
	}
	return s.repos.Inventory.AdjustBalance(req.ItemID, req.WarehouseID, req.Delta)
}

// ItemSnapshot 单物料可用性快照
type ItemSnapshot struct {
	ItemID    string  `json:"item_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	ItemType  string  `json:"item_type"`
	UOM       string  `json:"uom"`
	OnHand    float64 `json:"on_hand"`
	Reserved  float64 `json:"reserved"`
	Inbound   float64 `json:"inbound"`
	Available float64 `json:"available"`
	Status    string  `json:"status"` // IN_STOCK, INBOUND, OUT_OF_STOCK
}

// GetSnapshot 物料可用性快照。快照里的 available 不含在途，
// 在途单列，状态据此区分缺货与在途补货
func (s *InventoryService) GetSnapshot(itemID string) (*ItemSnapshot, error) {
	item, err := s.repos.Inventory.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("物料不存在: %w", err)
	}
	return s.snapshot(item)
}

// ListSnapshots 分页物料快照列表
func (s *InventoryService) ListSnapshots(itemType string, page, size int) ([]ItemSnapshot, int64, error) {
	items, total, err := s.repos.Inventory.ListItems(itemType, page, size)
	if err != nil {
		return nil, 0, err
	}
	snapshots := make([]ItemSnapshot, 0, len(items))
	for i := range items {
		snap, err := s.snapshot(&items[i])
		if err != nil {
			return nil, 0, err
		}
		snapshots = append(snapshots, *snap)
	}
	return snapshots, total, nil
}

func (s *InventoryService) snapshot(item *entity.InventoryItem) (*ItemSnapshot, error) {
	onHand, err := s.repos.Inventory.GetOnHand(item.ID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.repos.Inventory.GetReservedQty(item.ID)
	if err != nil {
		return nil, err
	}
	inbound, err := s.repos.Procurement.GetOpenInboundQty(item.ID)
	if err != nil {
		return nil, err
	}
	available := onHand - reserved

	status := "OUT_OF_STOCK"
	switch {
	case available > 0:
		status = "IN_STOCK"
	case inbound > 0:
		status = "INBOUND"
	}

	return &ItemSnapshot{
		ItemID:    item.ID,
		SKU:       item.SKU,
		Name:      item.Name,
		ItemType:  item.ItemType,
		UOM:       item.UOM,
		OnHand:    onHand,
		Reserved:  reserved,
		Inbound:   inbound,
		Available: available,
		Status:    status,
	}, nil
}

func (s *InventoryService) ListReservations(itemID string, page, size int) ([]entity.InventoryReservation, int64, error) {
	return s.repos.Inventory.ListReservations(itemID, page, size)
}
