package service

import "time"

// PlanningDays 排产窗口固定7天
const PlanningDays = 7

// CampaignDraft 需求合并产生的战役聚合，入库前的中间结构
type CampaignDraft struct {
	ProductID       string
	PackagingID     string
	SpecID          string
	BOMID           string
	BOMVersion      int
	TotalUnits      int
	EarliestDueDate *time.Time
	Links           []DemandAllocation
}

// DemandAllocation 战役对来源需求行的追溯
type DemandAllocation struct {
	DemandLineID string
	Units        int
}

// DayAllocation 某天分给某战役的量
type DayAllocation struct {
	Campaign *CampaignDraft
	Units    int
}

// AllocateCampaigns 把战役按优先级顺序装入各天，任何一天不超过日产能。
// 一个战役可以跨多天，一天也可以排多个战役；7天内放不下的余量直接放弃，
// 不跨周结转。
func AllocateCampaigns(campaigns []*CampaignDraft, dailyCapacity int, days int) [][]DayAllocation {
	allocations := make([][]DayAllocation, days)

	for _, c := range campaigns {
		remaining := c.TotalUnits
		for offset := 0; remaining > 0 && offset < days; offset++ {
			used := 0
			for _, a := range allocations[offset] {
				used += a.Units
			}
			free := dailyCapacity - used
			if free <= 0 {
				continue
			}
			units := remaining
			if units > free {
				units = free
			}
			allocations[offset] = append(allocations[offset], DayAllocation{Campaign: c, Units: units})
			remaining -= units
		}
	}

	return allocations
}
