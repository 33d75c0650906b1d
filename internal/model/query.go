package model

import "slices"

// FilterCriteria selects missions for listing and aggregation.
// An empty set accepts every value. YearMin/YearMax of 0 leave that side of
// the inclusive range open, so the zero value selects everything.
type FilterCriteria struct {
	MissionTypes []string `json:"mission_types,omitempty"`
	TargetTypes  []string `json:"target_types,omitempty"`
	Vehicles     []string `json:"vehicles,omitempty"`
	YearMin      int      `json:"year_min,omitempty"`
	YearMax      int      `json:"year_max,omitempty"`
}

// Matches reports whether m passes every predicate of c
func (c FilterCriteria) Matches(m Mission) bool {
	if len(c.MissionTypes) > 0 && !slices.Contains(c.MissionTypes, m.MissionType) {
		return false
	}
	if len(c.TargetTypes) > 0 && !slices.Contains(c.TargetTypes, m.TargetType) {
		return false
	}
	if len(c.Vehicles) > 0 && !slices.Contains(c.Vehicles, m.LaunchVehicle) {
		return false
	}
	if c.YearMin != 0 && m.LaunchYear < c.YearMin {
		return false
	}
	if c.YearMax != 0 && m.LaunchYear > c.YearMax {
		return false
	}
	return true
}

// YearCount is one point of the missions-per-year series
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CostDistance is one point of the cost vs distance scatter
type CostDistance struct {
	MissionID      string  `json:"mission_id"`
	CostBillionUSD float64 `json:"cost_billion_usd"`
	DistanceLY     float64 `json:"distance_ly"`
}

// MissionCost is one entry of the most expensive missions ranking
type MissionCost struct {
	MissionID      string  `json:"mission_id"`
	MissionName    string  `json:"mission_name"`
	CostBillionUSD float64 `json:"cost_billion_usd"`
}

// AggregateResult holds the KPIs and chart series for one FilterCriteria.
//
// AverageCost and SuccessRate are nil when no mission matched.
// GroupByTarget only carries target types present among the matched
// missions; categories with zero matches are omitted so chart series stay dense.
type AggregateResult struct {
	TotalCount                int                `json:"total_count"`
	AverageCost               *float64           `json:"average_cost"`
	SuccessRate               *float64           `json:"success_rate"`
	TopVehicle                string             `json:"top_vehicle,omitempty"`
	GroupByTarget             map[string]int     `json:"group_by_target"`
	GroupByMissionTypeSuccess map[string]float64 `json:"group_by_mission_type_success"`
	CountByYear               []YearCount        `json:"count_by_year"`
	CostDistancePairs         []CostDistance     `json:"cost_distance_pairs"`
	TopByCost                 []MissionCost      `json:"top5_by_cost"`
}

// FilterOptions describes the selectable filter domain of the stored missions
type FilterOptions struct {
	MissionTypes []string `json:"mission_types"`
	TargetTypes  []string `json:"target_types"`
	Vehicles     []string `json:"vehicles"`
	YearMin      int      `json:"year_min"`
	YearMax      int      `json:"year_max"`
}
