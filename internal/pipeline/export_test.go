package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/pkg/utils"
)

func exportFixture() []model.Mission {
	return []model.Mission{
		{MissionID: "MSN-0001", MissionName: "Pathfinder", LaunchDate: "1996-12-04", LaunchYear: 1996,
			TargetType: "Planet", TargetName: "Mars", MissionType: "Lander", CostBillionUSD: 0.265,
			SuccessPct: 100, LaunchVehicle: "Delta II"},
		{MissionID: "MSN-0002", MissionName: "Rosetta, extended", LaunchDate: "2004-03-02", LaunchYear: 2004,
			TargetType: "Comet", TargetName: "67P", MissionType: "Orbiter", CostBillionUSD: 1.4,
			CrewSize: 0, SuccessPct: 92.5, LaunchVehicle: "Ariane 5"},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" Parquet ")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)
	assert.Equal(t, "application/vnd.apache.parquet", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := ExportMissions(&buf, FormatCSV, exportFixture())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportColumns, records[0])
	assert.Equal(t, "launch_year", records[0][len(records[0])-1])
	assert.Equal(t, "Rosetta, extended", records[2][1])
	assert.Equal(t, "92.5", records[2][11])
	assert.Equal(t, "2004", records[2][15])
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	_, err := ExportMissions(&buf, FormatJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))

	buf.Reset()
	_, err = ExportMissions(&buf, FormatJSON, exportFixture())
	require.NoError(t, err)
	var decoded []model.Mission
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, exportFixture(), decoded)
}

func TestExportParquet(t *testing.T) {
	var buf bytes.Buffer
	n, err := ExportMissions(&buf, FormatParquet, exportFixture())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data := buf.Bytes()
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))

	rows, err := parquet.Read[model.Mission](bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, exportFixture(), rows)
}

func TestExportToFile(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())

	result, err := ExportToFile(om, "missions", FormatJSON, exportFixture())
	require.NoError(t, err)
	assert.Equal(t, 2, result.RecordCount)
	assert.Equal(t, FormatJSON, result.Format)
	assert.Equal(t, ".json", filepath.Ext(result.Path))

	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), result.SizeBytes)

	fileName := filepath.Base(result.Path)
	assert.Equal(t, "/api/v1/exports/missions/"+fileName, result.DownloadURL)
	resolved, ok := om.ResolveFile("missions", fileName)
	assert.True(t, ok)
	assert.Equal(t, result.Path, resolved)
}
