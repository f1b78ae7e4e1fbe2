package service

import "testing"

func draftWithUnits(units int) *CampaignDraft {
	return &CampaignDraft{TotalUnits: units}
}

func totalAllocated(allocations [][]DayAllocation) int {
	total := 0
	for _, day := range allocations {
		for _, a := range day {
			total += a.Units
		}
	}
	return total
}

func dayTotal(day []DayAllocation) int {
	total := 0
	for _, a := range day {
		total += a.Units
	}
	return total
}

func TestAllocateCampaignsFillsDayBeforeSpilling(t *testing.T) {
	a := draftWithUnits(400)
	b := draftWithUnits(300)
	c := draftWithUnits(1)

	allocations := AllocateCampaigns([]*CampaignDraft{a, b, c}, 600, 7)

	if got := dayTotal(allocations[0]); got != 600 {
		t.Fatalf("day 0 total = %d, want 600", got)
	}
	if got := dayTotal(allocations[1]); got != 101 {
		t.Fatalf("day 1 total = %d, want 101", got)
	}
	for offset := 2; offset < 7; offset++ {
		if len(allocations[offset]) != 0 {
			t.Fatalf("day %d should be empty, got %v", offset, allocations[offset])
		}
	}

	// 第一天：A 全量 400 + B 的 200
	if allocations[0][0].Campaign != a || allocations[0][0].Units != 400 {
		t.Fatalf("day 0 first allocation = %+v", allocations[0][0])
	}
	if allocations[0][1].Campaign != b || allocations[0][1].Units != 200 {
		t.Fatalf("day 0 second allocation = %+v", allocations[0][1])
	}
	// 第二天：B 余量 100 + C 全量 1
	if allocations[1][0].Campaign != b || allocations[1][0].Units != 100 {
		t.Fatalf("day 1 first allocation = %+v", allocations[1][0])
	}
	if allocations[1][1].Campaign != c || allocations[1][1].Units != 1 {
		t.Fatalf("day 1 second allocation = %+v", allocations[1][1])
	}
}

func TestAllocateCampaignsConservesUnitsWithinWindow(t *testing.T) {
	campaigns := []*CampaignDraft{
		draftWithUnits(550), draftWithUnits(70), draftWithUnits(1200), draftWithUnits(3),
	}
	allocations := AllocateCampaigns(campaigns, 600, 7)

	want := 550 + 70 + 1200 + 3
	if got := totalAllocated(allocations); got != want {
		t.Fatalf("total allocated = %d, want %d", got, want)
	}
	for offset, day := range allocations {
		if dayTotal(day) > 600 {
			t.Fatalf("day %d exceeds capacity: %d", offset, dayTotal(day))
		}
	}
}

func TestAllocateCampaignsTruncatesOverflow(t *testing.T) {
	// 7天×600=4200，放不下的余量直接丢弃
	allocations := AllocateCampaigns([]*CampaignDraft{draftWithUnits(5000)}, 600, 7)

	if got := totalAllocated(allocations); got != 4200 {
		t.Fatalf("total allocated = %d, want 4200", got)
	}
	for offset := 0; offset < 7; offset++ {
		if got := dayTotal(allocations[offset]); got != 600 {
			t.Fatalf("day %d total = %d, want 600", offset, got)
		}
	}
}

func TestAllocateCampaignsZeroDemand(t *testing.T) {
	allocations := AllocateCampaigns(nil, 600, 7)
	if got := totalAllocated(allocations); got != 0 {
		t.Fatalf("total allocated = %d, want 0", got)
	}
	if len(allocations) != 7 {
		t.Fatalf("allocation window = %d days, want 7", len(allocations))
	}
}
