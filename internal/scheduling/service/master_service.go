package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
)

// MasterService 主数据维护：产品、包装、净重规格、产能、配方
type MasterService struct {
	repos *repository.Repositories
}

func NewMasterService(repos *repository.Repositories) *MasterService {
	return &MasterService{repos: repos}
}

// --- Product ---

type CreateProductRequest struct {
	Code          string   `json:"code" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	ProductType   string   `json:"product_type"`
	DensityKgPerL *float64 `json:"density_kg_per_l"`
}

func (s *MasterService) CreateProduct(req CreateProductRequest) (*entity.Product, error) {
	productType := req.ProductType
	if productType == "" {
		productType = entity.ProductTypeManufactured
	}
	if productType != entity.ProductTypeManufactured && productType != entity.ProductTypeTraded {
		return nil, fmt.Errorf("无效的产品类型: %s", productType)
	}
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          req.Code,
		Name:          req.Name,
		ProductType:   productType,
		DensityKgPerL: req.DensityKgPerL,
		IsActive:      true,
	}
	if err := s.repos.Master.CreateProduct(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *MasterService) GetProduct(id string) (*entity.Product, error) {
	return s.repos.Master.GetProductByID(id)
}

func (s *MasterService) ListProducts(page, size int) ([]entity.Product, int64, error) {
	return s.repos.Master.ListProducts(page, size)
}

// --- Packaging ---

type CreatePackagingRequest struct {
	Name               string   `json:"name" binding:"required"`
	Category           string   `json:"category"`
	MaterialType       string   `json:"material_type"`
	CapacityLiters     float64  `json:"capacity_liters"`
	TareWeightKg       *float64 `json:"tare_weight_kg"`
	DefaultNetWeightKg *float64 `json:"default_net_weight_kg"`
}

func (s *MasterService) CreatePackaging(req CreatePackagingRequest) (*entity.Packaging, error) {
	category := req.Category
	if category == "" {
		category = "DRUM"
	}
	packaging := &entity.Packaging{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Category:           category,
		MaterialType:       req.MaterialType,
		CapacityLiters:     req.CapacityLiters,
		TareWeightKg:       req.TareWeightKg,
		DefaultNetWeightKg: req.DefaultNetWeightKg,
		IsActive:           true,
	}
	if err := s.repos.Master.CreatePackaging(packaging); err != nil {
		return nil, fmt.Errorf("failed to create packaging: %w", err)
	}
	return packaging, nil
}

func (s *MasterService) ListPackaging(category string, page, size int) ([]entity.Packaging, int64, error) {
	return s.repos.Master.ListPackaging(category, page, size)
}

// --- Product-Packaging Spec ---

type UpsertSpecRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	PackagingID string  `json:"packaging_id" binding:"required"`
	NetWeightKg float64 `json:"net_weight_kg" binding:"required,gt=0"`
}

func (s *MasterService) UpsertSpec(req UpsertSpecRequest) (*entity.ProductPackagingSpec, error) {
	if _, err := s.repos.Master.GetProductByID(req.ProductID); err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}
	if _, err := s.repos.Master.GetPackagingByID(req.PackagingID); err != nil {
		return nil, fmt.Errorf("包装不存在: %w", err)
	}
	spec := &entity.ProductPackagingSpec{
		ID:          uuid.New().String(),
		ProductID:   req.ProductID,
		PackagingID: req.PackagingID,
		NetWeightKg: req.NetWeightKg,
		UpdatedAt:   time.Now(),
	}
	if err := s.repos.Master.UpsertSpec(spec); err != nil {
		return nil, fmt.Errorf("failed to upsert spec: %w", err)
	}
	return s.repos.Master.GetSpec(req.ProductID, req.PackagingID)
}

// --- Capacity ---

type UpsertCapacityRequest struct {
	LineType      string `json:"line_type"`
	DailyCapacity int    `json:"daily_capacity" binding:"required,gt=0"`
}

func (s *MasterService) UpsertCapacity(req UpsertCapacityRequest) (*entity.CapacityConfig, error) {
	lineType := req.LineType
	if lineType == "" {
		lineType = "DRUM"
	}
	cfg := &entity.CapacityConfig{
		ID:            uuid.New().String(),
		LineType:      lineType,
		DailyCapacity: req.DailyCapacity,
		UpdatedAt:     time.Now(),
	}
	if err := s.repos.Master.UpsertCapacity(cfg); err != nil {
		return nil, fmt.Errorf("failed to upsert capacity: %w", err)
	}
	return s.repos.Master.GetCapacityByLineType(lineType)
}

func (s *MasterService) GetCapacity(lineType string) (*entity.CapacityConfig, error) {
	if lineType == "" {
		lineType = "DRUM"
	}
	return s.repos.Master.GetCapacityByLineType(lineType)
}

// --- Product BOM ---

type BOMItemRequest struct {
	MaterialItemID     string  `json:"material_item_id" binding:"required"`
	QtyKgPerKgFinished float64 `json:"qty_kg_per_kg_finished" binding:"required,gt=0"`
}

type CreateProductBOMRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	Notes     string           `json:"notes"`
	Items     []BOMItemRequest `json:"items" binding:"required,min=1"`
	Activate  bool             `json:"activate"`
}

// CreateProductBOM 新建配方版本，版本号自增；activate 为真时切换生效版本
func (s *MasterService) CreateProductBOM(req CreateProductBOMRequest) (*entity.ProductBOM, error) {
	if _, err := s.repos.Master.GetProductByID(req.ProductID); err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}

	existing, err := s.repos.BOM.ListProductBOMs(req.ProductID)
	if err != nil {
		return nil, err
	}
	version := 1
	if len(existing) > 0 {
		version = existing[0].Version + 1
	}

	bom := &entity.ProductBOM{
		ID:        uuid.New().String(),
		ProductID: req.ProductID,
		Version:   version,
		IsActive:  false,
		Notes:     req.Notes,
	}
	for _, item := range req.Items {
		if _, err := s.repos.Inventory.GetItemByID(item.MaterialItemID); err != nil {
			return nil, fmt.Errorf("原料不存在 %s: %w", item.MaterialItemID, err)
		}
		bom.Items = append(bom.Items, entity.ProductBOMItem{
			ID:                 uuid.New().String(),
			BOMID:              bom.ID,
			MaterialItemID:     item.MaterialItemID,
			QtyKgPerKgFinished: item.QtyKgPerKgFinished,
		})
	}
	if err := s.repos.BOM.CreateProductBOM(bom); err != nil {
		return nil, fmt.Errorf("failed to create BOM: %w", err)
	}

	if req.Activate || len(existing) == 0 {
		if err := s.repos.BOM.SetProductBOMActive(bom.ID); err != nil {
			return nil, err
		}
		bom.IsActive = true
	}
	return bom, nil
}

func (s *MasterService) ListProductBOMs(productID string) ([]entity.ProductBOM, error) {
	return s.repos.BOM.ListProductBOMs(productID)
}

func (s *MasterService) ActivateProductBOM(bomID string) error {
	return s.repos.BOM.SetProductBOMActive(bomID)
}

// --- Packaging BOM ---

type PackagingBOMItemRequest struct {
	PackItemID string  `json:"pack_item_id" binding:"required"`
	QtyPerUnit float64 `json:"qty_per_unit" binding:"required,gt=0"`
	UOM        string  `json:"uom"`
}

type CreatePackagingBOMRequest struct {
	PackagingID string                    `json:"packaging_id" binding:"required"`
	Items       []PackagingBOMItemRequest `json:"items" binding:"required,min=1"`
}

// CreatePackagingBOM 新建包装BOM并立即设为生效版本
func (s *MasterService) CreatePackagingBOM(req CreatePackagingBOMRequest) (*entity.PackagingBOM, error) {
	if _, err := s.repos.Master.GetPackagingByID(req.PackagingID); err != nil {
		return nil, fmt.Errorf("包装不存在: %w", err)
	}
	bom := &entity.PackagingBOM{
		ID:          uuid.New().String(),
		PackagingID: req.PackagingID,
		IsActive:    false,
	}
	for _, item := range req.Items {
		uom := item.UOM
		if uom == "" {
			uom = "EA"
		}
		if _, err := s.repos.Inventory.GetItemByID(item.PackItemID); err != nil {
			return nil, fmt.Errorf("包材不存在 %s: %w", item.PackItemID, err)
		}
		bom.Items = append(bom.Items, entity.PackagingBOMItem{
			ID:             uuid.New().String(),
			PackagingBOMID: bom.ID,
			PackItemID:     item.PackItemID,
			QtyPerUnit:     item.QtyPerUnit,
			UOM:            uom,
		})
	}
	if err := s.repos.BOM.CreatePackagingBOM(bom); err != nil {
		return nil, fmt.Errorf("failed to create packaging BOM: %w", err)
	}
	if err := s.repos.BOM.SetPackagingBOMActive(bom.ID); err != nil {
		return nil, err
	}
	bom.IsActive = true
	return bom, nil
}

// --- Demand lines ---

type CreateDemandLineRequest struct {
	OrderNo     string `json:"order_no"`
	ProductID   string `json:"product_id" binding:"required"`
	PackagingID string `json:"packaging_id" binding:"required"`
	SpecID      string `json:"spec_id"`
	BOMVersion  *int   `json:"bom_version"`
	QtyUnits    int    `json:"qty_units" binding:"required,gt=0"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD
}

func (s *MasterService) CreateDemandLine(req CreateDemandLineRequest) (*entity.DemandLine, error) {
	if _, err := s.repos.Master.GetProductByID(req.ProductID); err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}
	if _, err := s.repos.Master.GetPackagingByID(req.PackagingID); err != nil {
		return nil, fmt.Errorf("包装不存在: %w", err)
	}
	var dueDate *time.Time
	if req.DueDate != "" {
		t, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("交期格式错误: %w", err)
		}
		dueDate = &t
	}
	line := &entity.DemandLine{
		ID:          uuid.New().String(),
		OrderNo:     req.OrderNo,
		ProductID:   req.ProductID,
		PackagingID: req.PackagingID,
		SpecID:      req.SpecID,
		BOMVersion:  req.BOMVersion,
		QtyUnits:    req.QtyUnits,
		DueDate:     dueDate,
		Status:      entity.DemandStatusPending,
	}
	if err := s.repos.Demand.Create(line); err != nil {
		return nil, fmt.Errorf("failed to create demand line: %w", err)
	}
	return line, nil
}

func (s *MasterService) ListDemandLines(status string, page, size int) ([]entity.DemandLine, int64, error) {
	return s.repos.Demand.List(status, page, size)
}
