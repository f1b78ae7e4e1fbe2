package service

import (
	"errors"

	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"gorm.io/gorm"
)

// resolveNetWeightKg 单包装单位的成品净重（kg），按优先级取值：
//  1. 产品-包装净重规格
//  2. 包装默认净重
//  3. 包装容积 × 产品密度
//
// 三级都取不到时返回 ok=false，由调用方按 CONVERSION_MISSING 处理，不补数值默认
func resolveNetWeightKg(repos *repository.Repositories, productID, packagingID string) (float64, bool, error) {
	spec, err := repos.Master.GetSpec(productID, packagingID)
	if err == nil && spec.NetWeightKg > 0 {
		return spec.NetWeightKg, true, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	packaging, err := repos.Master.GetPackagingByID(packagingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if packaging.DefaultNetWeightKg != nil && *packaging.DefaultNetWeightKg > 0 {
		return *packaging.DefaultNetWeightKg, true, nil
	}

	product, err := repos.Master.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if packaging.CapacityLiters > 0 && product.DensityKgPerL != nil && *product.DensityKgPerL > 0 {
		return packaging.CapacityLiters * *product.DensityKgPerL, true, nil
	}

	return 0, false, nil
}
