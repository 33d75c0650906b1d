package analytics

import (
	"cmp"
	"slices"
	"sync"

	"space-mission-pipeline/internal/model"
)

// DefaultTopN is the size of the top-by-cost list
const DefaultTopN = 5

const defaultChunkSize = 1024

// partial holds what one chunk of missions contributes to the result
type partial struct {
	count       int
	costSum     float64
	successSum  float64
	vehicles    map[string]int
	targets     map[string]int
	typeSuccess map[string]*meanAcc
	years       map[int]int
	pairs       []model.CostDistance
	top         []model.MissionCost
}

type meanAcc struct {
	sum   float64
	count int
}

// Aggregate computes the aggregate figures over missions, which must already
// be filtered and ordered by mission_id
func Aggregate(missions []model.Mission, topN int) model.AggregateResult {
	return aggregateChunks(missions, topN, 1, defaultChunkSize)
}

// aggregateChunks splits missions into contiguous chunks reduced by workers.
// Partials are merged in chunk order so the result does not depend on
// scheduling.
func aggregateChunks(missions []model.Mission, topN, workers, chunkSize int) model.AggregateResult {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if workers <= 0 {
		workers = 1
	}

	chunks := (len(missions) + chunkSize - 1) / chunkSize
	partials := make([]partial, chunks)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, max(chunks, 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				end := min((i+1)*chunkSize, len(missions))
				partials[i] = reduce(missions[i*chunkSize:end], topN)
			}
		}()
	}
	for i := 0; i < chunks; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	total := newPartial()
	for _, p := range partials {
		total.merge(p, topN)
	}
	return total.result()
}

func newPartial() partial {
	return partial{
		vehicles:    map[string]int{},
		targets:     map[string]int{},
		typeSuccess: map[string]*meanAcc{},
		years:       map[int]int{},
	}
}

func reduce(missions []model.Mission, topN int) partial {
	p := newPartial()
	for _, m := range missions {
		p.count++
		p.costSum += m.CostBillionUSD
		p.successSum += m.SuccessPct
		p.vehicles[m.LaunchVehicle]++
		p.targets[m.TargetType]++
		acc, ok := p.typeSuccess[m.MissionType]
		if !ok {
			acc = &meanAcc{}
			p.typeSuccess[m.MissionType] = acc
		}
		acc.sum += m.SuccessPct
		acc.count++
		p.years[m.LaunchYear]++
		p.pairs = append(p.pairs, model.CostDistance{
			MissionID:      m.MissionID,
			CostBillionUSD: m.CostBillionUSD,
			DistanceLY:     m.DistanceLY,
		})
		p.top = append(p.top, model.MissionCost{
			MissionID:      m.MissionID,
			MissionName:    m.MissionName,
			CostBillionUSD: m.CostBillionUSD,
		})
	}
	p.top = keepTop(p.top, topN)
	return p
}

func (p *partial) merge(o partial, topN int) {
	p.count += o.count
	p.costSum += o.costSum
	p.successSum += o.successSum
	for k, v := range o.vehicles {
		p.vehicles[k] += v
	}
	for k, v := range o.targets {
		p.targets[k] += v
	}
	for k, v := range o.typeSuccess {
		acc, ok := p.typeSuccess[k]
		if !ok {
			acc = &meanAcc{}
			p.typeSuccess[k] = acc
		}
		acc.sum += v.sum
		acc.count += v.count
	}
	for k, v := range o.years {
		p.years[k] += v
	}
	p.pairs = append(p.pairs, o.pairs...)
	p.top = keepTop(append(p.top, o.top...), topN)
}

func (p *partial) result() model.AggregateResult {
	res := model.AggregateResult{
		TotalCount:                p.count,
		TopVehicle:                topVehicle(p.vehicles),
		GroupByTarget:             p.targets,
		GroupByMissionTypeSuccess: make(map[string]float64, len(p.typeSuccess)),
		CountByYear:               make([]model.YearCount, 0, len(p.years)),
		CostDistancePairs:         p.pairs,
		TopByCost:                 p.top,
	}
	if p.count > 0 {
		avgCost := p.costSum / float64(p.count)
		successRate := p.successSum / float64(p.count)
		res.AverageCost = &avgCost
		res.SuccessRate = &successRate
	}
	for k, acc := range p.typeSuccess {
		res.GroupByMissionTypeSuccess[k] = acc.sum / float64(acc.count)
	}
	for year, n := range p.years {
		res.CountByYear = append(res.CountByYear, model.YearCount{Year: year, Count: n})
	}
	slices.SortFunc(res.CountByYear, func(a, b model.YearCount) int {
		return cmp.Compare(a.Year, b.Year)
	})
	if res.CostDistancePairs == nil {
		res.CostDistancePairs = []model.CostDistance{}
	}
	if res.TopByCost == nil {
		res.TopByCost = []model.MissionCost{}
	}
	return res
}

// keepTop orders by cost descending then mission_id ascending and truncates to n
func keepTop(items []model.MissionCost, n int) []model.MissionCost {
	slices.SortFunc(items, func(a, b model.MissionCost) int {
		if c := cmp.Compare(b.CostBillionUSD, a.CostBillionUSD); c != 0 {
			return c
		}
		return cmp.Compare(a.MissionID, b.MissionID)
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// topVehicle is the most frequent vehicle; ties go to the smallest name
func topVehicle(counts map[string]int) string {
	best, bestCount := "", 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}
