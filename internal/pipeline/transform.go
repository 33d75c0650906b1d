package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/pkg/utils"
)

// rowMission is a transformed mission tagged with the source row it came from
type rowMission struct {
	row int
	model.Mission
}

// TransformRecords converts validated rows into missions with workerCount
// workers. Missions leave in scheduling order; each keeps its source row.
// It returns once every worker is done and out has been closed.
func TransformRecords(
	ctx context.Context,
	in <-chan sourceRow,
	out chan<- rowMission,
	workerCount int,
) {
	defer close(out)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for row := range in {
				select {
				case <-ctx.Done():
					return
				case out <- rowMission{row: row.Row, Mission: applyTransformations(row)}:
				}
			}
		}()
	}
	wg.Wait()
}

// ParseMission validates and converts a single row: Ok(Mission) when the
// returned error is nil, otherwise the row is rejected.
func ParseMission(row sourceRow, rules *ValidationRules) (model.Mission, *model.RowValidationError) {
	if rejection := validateRecord(row, rules); rejection != nil {
		return model.Mission{}, rejection
	}
	return applyTransformations(row), nil
}

// applyTransformations builds the typed mission and derives computed fields.
// The row must already have passed validateRecord.
func applyTransformations(row sourceRow) model.Mission {
	m := buildMission(row)
	m = backfillMissionID(m, row.Row)
	m = deriveLaunchYear(m)
	return m
}

func buildMission(row sourceRow) model.Mission {
	v := row.Values
	num := func(col string) float64 {
		f, _ := utils.ParseFloat(v[col])
		return f
	}
	crew, _ := utils.ParseInt(v[model.ColCrewSize])

	return model.Mission{
		MissionID:           v[model.ColMissionID],
		MissionName:         v[model.ColMissionName],
		LaunchDate:          v[model.ColLaunchDate],
		TargetType:          v[model.ColTargetType],
		TargetName:          v[model.ColTargetName],
		MissionType:         v[model.ColMissionType],
		DistanceLY:          num(model.ColDistanceLY),
		DurationYears:       num(model.ColDurationYears),
		CostBillionUSD:      num(model.ColCostBillionUSD),
		ScientificYield:     num(model.ColScientificYield),
		CrewSize:            crew,
		SuccessPct:          num(model.ColSuccessPct),
		FuelConsumptionTons: num(model.ColFuelConsumptionTons),
		PayloadWeightTons:   num(model.ColPayloadWeightTons),
		LaunchVehicle:       v[model.ColLaunchVehicle],
	}
}

// backfillMissionID assigns MSN-NNNN from the data row number when the source left it blank
func backfillMissionID(m model.Mission, row int) model.Mission {
	if m.MissionID == "" {
		m.MissionID = fmt.Sprintf("MSN-%04d", row)
	}
	return m
}

func deriveLaunchYear(m model.Mission) model.Mission {
	if t, err := time.Parse(model.DateLayout, m.LaunchDate); err == nil {
		m.LaunchYear = t.Year()
	}
	return m
}
