package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-mission-pipeline/internal/config"
	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/internal/store"
)

const header = "mission_id,mission_name,launch_date,target_type,target_name,mission_type,distance_ly," +
	"duration_years,cost_billion_usd,scientific_yield,crew_size,success_pct,fuel_consumption_tons," +
	"payload_weight_tons,launch_vehicle"

func row(id, date, successPct string) string {
	return fmt.Sprintf("%s,Mission %s,%s,Planet,Mars,Rover,0.5,2.5,1.25,80,0,%s,500,12,Falcon 9", id, id, date, successPct)
}

func writeSource(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func testConfig() config.Ingest {
	cfg := config.Default().Ingest
	cfg.BatchSize = 2
	cfg.ChannelBufferSize = 4
	return cfg
}

func newTestPipeline(t *testing.T) (*Pipeline, *store.Store) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "missions.db"), 5000, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.EnsureSchema(ctx))
	return New(st, testConfig(), nil), st
}

func TestLoadMissionsAcceptsValidRejectsOutOfRange(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()
	source := writeSource(t, "missions.csv",
		header,
		row("MSN-0001", "2021-07-04", "98.5"),
		row("MSN-0002", "2022-01-01", "150"),
	)

	report, err := p.LoadMissions(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, 2, report.RowsRead)
	assert.Equal(t, 1, report.RowsLoaded)
	assert.Equal(t, 1, report.RowsRejected)
	assert.Equal(t, model.LoadStatusCompleted, report.Status)
	require.Len(t, report.Rejections, 1)
	assert.Equal(t, "MSN-0002", report.Rejections[0].MissionID)
	assert.Equal(t, model.ColSuccessPct, report.Rejections[0].Field)
	assert.Equal(t, 1, report.RejectionReasons[model.ReasonAboveMaximum])

	missions, err := st.ListMissions(ctx, model.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, "MSN-0001", missions[0].MissionID)
	assert.Equal(t, 2021, missions[0].LaunchYear)

	saved, err := st.GetLoadRun(ctx, report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.RowsLoaded, saved.RowsLoaded)
}

func TestLoadMissionsRoundTrip(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()
	source := writeSource(t, "missions.csv",
		header,
		"MSN-0007,Ares Prime,2031-11-20,Moon,Europa,Lander,4.2,6.5,12.75,91.5,4,87.25,1500.5,33.3,Starship",
	)

	_, err := p.LoadMissions(ctx, source)
	require.NoError(t, err)

	missions, err := st.ListMissions(ctx, model.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, model.Mission{
		MissionID:           "MSN-0007",
		MissionName:         "Ares Prime",
		LaunchDate:          "2031-11-20",
		LaunchYear:          2031,
		TargetType:          "Moon",
		TargetName:          "Europa",
		MissionType:         "Lander",
		DistanceLY:          4.2,
		DurationYears:       6.5,
		CostBillionUSD:      12.75,
		ScientificYield:     91.5,
		CrewSize:            4,
		SuccessPct:          87.25,
		FuelConsumptionTons: 1500.5,
		PayloadWeightTons:   33.3,
		LaunchVehicle:       "Starship",
	}, missions[0])
}

func TestLoadMissionsIsIdempotent(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()
	lines := []string{header}
	for i := 1; i <= 7; i++ {
		lines = append(lines, row(fmt.Sprintf("MSN-%04d", i), fmt.Sprintf("20%02d-05-01", 10+i), "75"))
	}
	source := writeSource(t, "missions.csv", lines...)

	first, err := p.LoadMissions(ctx, source)
	require.NoError(t, err)
	before, err := st.ListMissions(ctx, model.FilterCriteria{})
	require.NoError(t, err)

	second, err := p.LoadMissions(ctx, source)
	require.NoError(t, err)
	after, err := st.ListMissions(ctx, model.FilterCriteria{})
	require.NoError(t, err)

	assert.Equal(t, 7, first.RowsLoaded)
	assert.Equal(t, 7, second.RowsLoaded)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, before, after)
	for _, m := range after {
		assert.Equal(t, m.LaunchDate[:4], fmt.Sprint(m.LaunchYear))
	}
}

func TestLoadMissionsHumanHeadersAndBackfill(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()
	source := writeSource(t, "human.csv",
		"\ufeffLaunch Vehicle,Mission Name,Mission ID,Launch Date,Target Type,Target Name,Mission Type,"+
			"Distance from Earth (light-years),Mission Duration (years),Mission Cost (billion USD),"+
			"Scientific Yield (points),Crew Size,Mission Success (%),Fuel Consumption (tons),Payload Weight (tons),Notes",
		"SLS,Artemis,,2026-09-01,Moon,Luna,Crewed,0.0000000406,0.1,4.1,70,4,95,3000,27,first crewed",
		`Atlas V, Perseverance ,MSN-0099,2020-07-30,Planet,Mars,Rover,0.0000238,10,2.7,99,0.0,100,400,1.0,`,
	)

	report, err := p.LoadMissions(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, 2, report.RowsLoaded)

	missions, err := st.ListMissions(ctx, model.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, missions, 2)
	assert.Equal(t, "MSN-0001", missions[0].MissionID)
	assert.Equal(t, "SLS", missions[0].LaunchVehicle)
	assert.Equal(t, "MSN-0099", missions[1].MissionID)
	assert.Equal(t, 0, missions[1].CrewSize)
}

func TestLoadMissionsSchemaMismatch(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()
	source := writeSource(t, "bad.csv",
		"mission_id,mission_name,launch_date",
		"MSN-0001,Nope,2021-01-01",
	)

	report, err := p.LoadMissions(ctx, source)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), model.ColLaunchVehicle)
	assert.Equal(t, model.LoadStatusFailed, report.Status)

	n, err := st.CountMissions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadMissionsMissingSource(t *testing.T) {
	p, _ := newTestPipeline(t)

	_, err := p.LoadMissions(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
}

func TestLoadMissionsGzip(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	_, err := gz.Write([]byte(header + "\n" + row("MSN-0001", "2021-07-04", "50") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	path := filepath.Join(t.TempDir(), "missions.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	report, err := p.LoadMissions(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowsLoaded)

	n, err := st.CountMissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadMissionsMalformedRowsAreRejectedInOrder(t *testing.T) {
	p, _ := newTestPipeline(t)
	source := writeSource(t, "mixed.csv",
		header,
		row("MSN-0001", "2021-07-04", "50"),
		"MSN-0002,too,few,columns",
		row("MSN-0003", "2021-13-40", "50"),
		row("MSN-0004", "2021-07-04", "abc"),
		row("MSN-0005", "2021-07-04", "50"),
	)

	report, err := p.LoadMissions(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 5, report.RowsRead)
	assert.Equal(t, 2, report.RowsLoaded)
	require.Equal(t, 3, report.RowsRejected)

	var rows []int
	for _, r := range report.Rejections {
		rows = append(rows, r.Row)
	}
	assert.Equal(t, []int{2, 3, 4}, rows)
	assert.Equal(t, model.ReasonMalformedRow, report.Rejections[0].Reason)
	assert.Equal(t, model.ReasonInvalidDate, report.Rejections[1].Reason)
	assert.Equal(t, model.ReasonNotNumeric, report.Rejections[2].Reason)
}

func TestLoadMissionsTruncate(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	_, err := p.LoadMissions(ctx, writeSource(t, "a.csv", header, row("OLD-1", "2001-01-01", "10")))
	require.NoError(t, err)
	_, err = p.LoadMissions(ctx, writeSource(t, "b.csv", header, row("NEW-1", "2002-01-01", "10")), WithTruncate())
	require.NoError(t, err)

	missions, err := st.ListMissions(ctx, model.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, "NEW-1", missions[0].MissionID)
}

type failingStore struct {
	saved []model.LoadReport
}

func (f *failingStore) UpsertMissions(context.Context, []model.Mission) (int, error) {
	return 0, fmt.Errorf("%w: disk I/O error", model.ErrStorageUnavailable)
}

func (f *failingStore) TruncateMissions(context.Context) error { return nil }

func (f *failingStore) SaveLoadRun(_ context.Context, report model.LoadReport) error {
	f.saved = append(f.saved, report)
	return nil
}

func TestLoadMissionsStoreFailure(t *testing.T) {
	st := &failingStore{}
	cfg := testConfig()
	cfg.BatchSize = 1
	p := New(st, cfg, nil)

	lines := []string{header}
	for i := 1; i <= 20; i++ {
		lines = append(lines, row(fmt.Sprintf("MSN-%04d", i), "2021-07-04", "50"))
	}
	report, err := p.LoadMissions(context.Background(), writeSource(t, "m.csv", lines...))

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrStorageUnavailable))
	assert.Equal(t, model.LoadStatusFailed, report.Status)
	assert.Zero(t, report.RowsLoaded)
	require.Len(t, st.saved, 1)
	assert.Equal(t, model.LoadStatusFailed, st.saved[0].Status)
}

func TestLoadMissionsRepeatedIDLastRowWins(t *testing.T) {
	lines := []string{header}
	for i := 0; i < 40; i++ {
		lines = append(lines, row("MSN-0001", "2021-07-04", "10"))
	}
	lines = append(lines, row("MSN-0001", "2021-07-04", "99"))
	source := writeSource(t, "repeated.csv", lines...)

	for run := 0; run < 10; run++ {
		p, st := newTestPipeline(t)
		ctx := context.Background()

		report, err := p.LoadMissions(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, 41, report.RowsRead)
		assert.Equal(t, 1, report.RowsLoaded)
		assert.Equal(t, 40, report.RowsRejected)
		assert.Equal(t, 40, report.RejectionReasons[model.ReasonDuplicateID])
		assert.Equal(t, 1, report.Rejections[0].Row)
		assert.Equal(t, 40, report.Rejections[39].Row)

		missions, err := st.ListMissions(ctx, model.FilterCriteria{})
		require.NoError(t, err)
		require.Len(t, missions, 1)
		assert.Equal(t, 99.0, missions[0].SuccessPct, "run %d", run)
	}
}

func TestLoadMissionsBackfilledIDCollision(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()
	source := writeSource(t, "collision.csv",
		header,
		row("", "2019-01-01", "20"),
		row("MSN-0001", "2020-01-01", "30"),
		row("MSN-0003", "2020-01-01", "40"),
	)

	report, err := p.LoadMissions(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, 2, report.RowsLoaded)
	require.Len(t, report.Rejections, 1)
	assert.Equal(t, model.RowValidationError{
		Row:       1,
		MissionID: "MSN-0001",
		Field:     model.ColMissionID,
		Reason:    model.ReasonDuplicateID,
		Value:     "MSN-0001",
	}, report.Rejections[0])

	missions, err := st.ListMissions(ctx, model.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, missions, 2)
	assert.Equal(t, 2020, missions[0].LaunchYear)
}

type memoryStore struct {
	missions map[string]model.Mission
	batches  int
}

func (s *memoryStore) UpsertMissions(_ context.Context, missions []model.Mission) (int, error) {
	s.batches++
	for _, m := range missions {
		s.missions[m.MissionID] = m
	}
	return len(missions), nil
}

func (s *memoryStore) TruncateMissions(context.Context) error { return nil }

func (s *memoryStore) SaveLoadRun(context.Context, model.LoadReport) error { return nil }

func TestWriteBatchesResolvesOutOfOrderDuplicates(t *testing.T) {
	st := &memoryStore{missions: map[string]model.Mission{}}
	cfg := testConfig()
	cfg.BatchSize = 2
	p := New(st, cfg, nil)
	tracker := newRunTracker("test", time.Now())

	in := make(chan rowMission, 8)
	for _, r := range []int{5, 2, 9, 7, 1} {
		in <- rowMission{row: r, Mission: model.Mission{MissionID: "MSN-0042", CrewSize: r}}
	}
	in <- rowMission{row: 3, Mission: model.Mission{MissionID: "MSN-0043", CrewSize: 3}}
	close(in)

	require.NoError(t, p.writeBatches(context.Background(), in, tracker))

	report := tracker.snapshot()
	assert.Equal(t, 9, st.missions["MSN-0042"].CrewSize)
	assert.Equal(t, 3, st.missions["MSN-0043"].CrewSize)
	assert.Equal(t, 2, report.RowsLoaded)
	assert.Equal(t, 4, report.RowsRejected)

	var rows []int
	for _, r := range report.Rejections {
		rows = append(rows, r.Row)
	}
	assert.Equal(t, []int{1, 2, 5, 7}, rows)
}
