package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-mission-pipeline/internal/model"
)

type fakeReader struct {
	missions []model.Mission
	err      error
}

func (f *fakeReader) ListMissions(_ context.Context, criteria model.FilterCriteria) ([]model.Mission, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Mission
	for _, m := range f.missions {
		if criteria.Matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeReader) MissionOptions(context.Context) (model.FilterOptions, error) {
	return model.FilterOptions{YearMin: 2000, YearMax: 2050}, f.err
}

func m(id, missionType, target, vehicle string, year int, cost, success float64) model.Mission {
	return model.Mission{
		MissionID:      id,
		MissionName:    "Mission " + id,
		LaunchDate:     fmt.Sprintf("%d-01-01", year),
		LaunchYear:     year,
		TargetType:     target,
		MissionType:    missionType,
		CostBillionUSD: cost,
		SuccessPct:     success,
		DistanceLY:     cost / 10,
		LaunchVehicle:  vehicle,
	}
}

func roverDataset() []model.Mission {
	return []model.Mission{
		m("MSN-0001", "Rover", "Planet", "Atlas V", 2004, 1.0, 90),
		m("MSN-0002", "Rover", "Planet", "Atlas V", 2012, 2.0, 80),
		m("MSN-0003", "Rover", "Moon", "Falcon 9", 2021, 3.0, 70),
		m("MSN-0004", "Orbiter", "Planet", "Falcon 9", 2016, 9.0, 100),
		m("MSN-0005", "Orbiter", "Comet", "Ariane 5", 2004, 1.5, 60),
	}
}

func TestComputeAggregatesFiltered(t *testing.T) {
	svc := NewService(&fakeReader{missions: roverDataset()}, nil)

	res, err := svc.ComputeAggregates(context.Background(), model.FilterCriteria{
		MissionTypes: []string{"Rover"},
		YearMin:      2000,
		YearMax:      2025,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)
	require.NotNil(t, res.AverageCost)
	assert.InDelta(t, 2.0, *res.AverageCost, 1e-9)
	require.NotNil(t, res.SuccessRate)
	assert.InDelta(t, 80.0, *res.SuccessRate, 1e-9)
	assert.Equal(t, "Atlas V", res.TopVehicle)
	assert.Equal(t, map[string]int{"Planet": 2, "Moon": 1}, res.GroupByTarget)
	assert.Equal(t, map[string]float64{"Rover": 80}, res.GroupByMissionTypeSuccess)
	assert.Equal(t, []model.YearCount{{Year: 2004, Count: 1}, {Year: 2012, Count: 1}, {Year: 2021, Count: 1}}, res.CountByYear)
	assert.Len(t, res.CostDistancePairs, 3)
}

func TestAggregateEmpty(t *testing.T) {
	res := Aggregate(nil, 5)

	assert.Zero(t, res.TotalCount)
	assert.Nil(t, res.AverageCost)
	assert.Nil(t, res.SuccessRate)
	assert.Empty(t, res.TopVehicle)
	assert.Empty(t, res.GroupByTarget)
	assert.NotNil(t, res.CountByYear)
	assert.NotNil(t, res.CostDistancePairs)
	assert.NotNil(t, res.TopByCost)
	assert.Empty(t, res.TopByCost)
}

func TestAggregateTopByCost(t *testing.T) {
	missions := []model.Mission{
		m("A", "Rover", "Planet", "V1", 2001, 4, 50),
		m("B", "Rover", "Planet", "V1", 2001, 7, 50),
		m("C", "Rover", "Planet", "V1", 2001, 7, 50),
		m("D", "Rover", "Planet", "V1", 2001, 1, 50),
		m("E", "Rover", "Planet", "V1", 2001, 9, 50),
		m("F", "Rover", "Planet", "V1", 2001, 2, 50),
		m("G", "Rover", "Planet", "V1", 2001, 3, 50),
	}

	res := Aggregate(missions, 5)
	var ids []string
	for _, c := range res.TopByCost {
		ids = append(ids, c.MissionID)
	}
	assert.Equal(t, []string{"E", "B", "C", "A", "G"}, ids)

	// fewer missions than the limit
	res = Aggregate(missions[:2], 5)
	assert.Len(t, res.TopByCost, 2)
	assert.Equal(t, "B", res.TopByCost[0].MissionID)
}

func TestAggregateTopVehicleTieBreak(t *testing.T) {
	missions := []model.Mission{
		m("1", "Flyby", "Planet", "Titan", 1977, 1, 100),
		m("2", "Flyby", "Planet", "Atlas", 1977, 1, 100),
		m("3", "Flyby", "Planet", "Titan", 1978, 1, 100),
		m("4", "Flyby", "Planet", "Atlas", 1978, 1, 100),
		m("5", "Flyby", "Planet", "Proton", 1979, 1, 100),
	}
	assert.Equal(t, "Atlas", Aggregate(missions, 5).TopVehicle)
}

func TestAggregateCountByYearSumsToTotal(t *testing.T) {
	res := Aggregate(roverDataset(), 5)

	sum := 0
	for i, yc := range res.CountByYear {
		sum += yc.Count
		if i > 0 {
			assert.Less(t, res.CountByYear[i-1].Year, yc.Year)
		}
	}
	assert.Equal(t, res.TotalCount, sum)
	assert.Equal(t, model.YearCount{Year: 2004, Count: 2}, res.CountByYear[0])
}

func TestAggregateChunkedMatchesSequential(t *testing.T) {
	var missions []model.Mission
	vehicles := []string{"Atlas V", "Falcon 9", "Soyuz"}
	types := []string{"Rover", "Orbiter", "Flyby", "Lander"}
	for i := 0; i < 37; i++ {
		missions = append(missions, m(
			fmt.Sprintf("MSN-%04d", i+1),
			types[i%len(types)],
			"Planet",
			vehicles[(i*7)%len(vehicles)],
			2000+i%9,
			float64(i%11)*0.25,
			float64(i%5)*12.5,
		))
	}

	want := Aggregate(missions, 5)
	got := aggregateChunks(missions, 5, 3, 2)

	assert.Equal(t, want.TotalCount, got.TotalCount)
	assert.InDelta(t, *want.AverageCost, *got.AverageCost, 1e-9)
	assert.InDelta(t, *want.SuccessRate, *got.SuccessRate, 1e-9)
	assert.Equal(t, want.TopVehicle, got.TopVehicle)
	assert.Equal(t, want.GroupByTarget, got.GroupByTarget)
	assert.Equal(t, want.CountByYear, got.CountByYear)
	assert.Equal(t, want.CostDistancePairs, got.CostDistancePairs)
	assert.Equal(t, want.TopByCost, got.TopByCost)
	for k, v := range want.GroupByMissionTypeSuccess {
		assert.InDelta(t, v, got.GroupByMissionTypeSuccess[k], 1e-9)
	}
}

func TestServicePropagatesStoreErrors(t *testing.T) {
	boom := fmt.Errorf("%w: database is locked", model.ErrStorageUnavailable)
	svc := NewService(&fakeReader{err: boom}, nil, WithWorkers(4), WithTopN(3))

	_, err := svc.ComputeAggregates(context.Background(), model.FilterCriteria{})
	assert.True(t, errors.Is(err, model.ErrStorageUnavailable))

	_, err = svc.ListMissions(context.Background(), model.FilterCriteria{})
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
}

func TestServiceListMissionsNeverNil(t *testing.T) {
	svc := NewService(&fakeReader{missions: roverDataset()}, nil)

	missions, err := svc.ListMissions(context.Background(), model.FilterCriteria{Vehicles: []string{"Saturn V"}})
	require.NoError(t, err)
	assert.NotNil(t, missions)
	assert.Empty(t, missions)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, opts.YearMin)
}
