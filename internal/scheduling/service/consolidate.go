package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"gorm.io/gorm"
)

// consolidationKey 需求合并键：产品+包装+规格+配方版本
type consolidationKey struct {
	productID   string
	packagingID string
	specID      string
	bomID       string
}

// consolidateDemand 把开放需求行合并成战役聚合。
// 每行先解析配方：行上锁定了版本用锁定版本，否则用产品当前生效版本；
// 解析不到配方的行不进入任何战役（沿用上游行为，只计数上报）。
// 返回的战役按最早交期升序，交期为空排最后，同交期保持首次出现顺序。
func consolidateDemand(repos *repository.Repositories, lines []entity.DemandLine) ([]*CampaignDraft, int, error) {
	drafts := make(map[consolidationKey]*CampaignDraft)
	var order []consolidationKey
	unschedulable := 0

	for _, line := range lines {
		var (
			bom *entity.ProductBOM
			err error
		)
		if line.BOMVersion != nil {
			bom, err = repos.BOM.GetProductBOMByVersion(line.ProductID, *line.BOMVersion)
		} else {
			bom, err = repos.BOM.GetActiveProductBOM(line.ProductID)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				unschedulable++
				continue
			}
			return nil, 0, fmt.Errorf("解析需求行配方失败: %w", err)
		}

		key := consolidationKey{
			productID:   line.ProductID,
			packagingID: line.PackagingID,
			specID:      line.SpecID,
			bomID:       bom.ID,
		}
		draft, ok := drafts[key]
		if !ok {
			draft = &CampaignDraft{
				ProductID:   line.ProductID,
				PackagingID: line.PackagingID,
				SpecID:      line.SpecID,
				BOMID:       bom.ID,
				BOMVersion:  bom.Version,
			}
			drafts[key] = draft
			order = append(order, key)
		}

		draft.TotalUnits += line.QtyUnits
		if line.DueDate != nil {
			due := *line.DueDate
			if draft.EarliestDueDate == nil || due.Before(*draft.EarliestDueDate) {
				draft.EarliestDueDate = &due
			}
		}
		draft.Links = append(draft.Links, DemandAllocation{
			DemandLineID: line.ID,
			Units:        line.QtyUnits,
		})
	}

	result := make([]*CampaignDraft, 0, len(order))
	for _, key := range order {
		result = append(result, drafts[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].EarliestDueDate, result[j].EarliestDueDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	return result, unschedulable, nil
}
