package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/pkg/utils"
)

// Format is an export file format
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts csv, json or parquet in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatParquet:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the HTTP media type of an export in format f
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv"
	}
}

// ExportResult describes an export written to disk
type ExportResult struct {
	Format      Format    `json:"format"`
	Path        string    `json:"path"`
	DownloadURL string    `json:"download_url"`
	RecordCount int       `json:"record_count"`
	SizeBytes   int64     `json:"size_bytes"`
	ExportedAt  time.Time `json:"exported_at"`
}

// exportColumns is the CSV header: the source columns plus the derived year
var exportColumns = append(append([]string{}, model.SourceColumns...), "launch_year")

// ExportMissions writes missions to w in the given format
func ExportMissions(w io.Writer, format Format, missions []model.Mission) (int, error) {
	switch format {
	case FormatJSON:
		return exportJSON(w, missions)
	case FormatParquet:
		return exportParquet(w, missions)
	default:
		return exportCSV(w, missions)
	}
}

// ExportToFile writes missions under the output manager's directory for name
func ExportToFile(om *utils.OutputManager, name string, format Format, missions []model.Mission) (ExportResult, error) {
	fileName := fmt.Sprintf("missions_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	path, err := om.GetOutputFilePath(name, fileName)
	if err != nil {
		return ExportResult{}, err
	}

	file, err := os.Create(path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := ExportMissions(file, format, missions)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return ExportResult{}, fmt.Errorf("export %s: %w", path, err)
	}

	size, err := om.GetFileSize(path)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{
		Format:      format,
		Path:        path,
		DownloadURL: om.GetDownloadURL(name, fileName),
		RecordCount: n,
		SizeBytes:   size,
		ExportedAt:  time.Now().UTC(),
	}, nil
}

func exportCSV(w io.Writer, missions []model.Mission) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	recordCount := 0
	for _, m := range missions {
		row := []string{
			m.MissionID, m.MissionName, m.LaunchDate, m.TargetType, m.TargetName, m.MissionType,
			num(m.DistanceLY), num(m.DurationYears), num(m.CostBillionUSD), num(m.ScientificYield),
			strconv.Itoa(m.CrewSize), num(m.SuccessPct), num(m.FuelConsumptionTons),
			num(m.PayloadWeightTons), m.LaunchVehicle, strconv.Itoa(m.LaunchYear),
		}
		if err := writer.Write(row); err != nil {
			return recordCount, fmt.Errorf("failed to write row: %w", err)
		}
		recordCount++
	}
	writer.Flush()
	return recordCount, writer.Error()
}

func exportJSON(w io.Writer, missions []model.Mission) (int, error) {
	if missions == nil {
		missions = []model.Mission{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(missions); err != nil {
		return 0, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return len(missions), nil
}

func exportParquet(w io.Writer, missions []model.Mission) (int, error) {
	writer := parquet.NewGenericWriter[model.Mission](w)
	n, err := writer.Write(missions)
	if err != nil {
		return n, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return n, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return n, nil
}
