package pipeline

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"space-mission-pipeline/internal/config"
	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/pkg/utils"
)

// ValidationRules defines what a source row must satisfy to become a Mission
type ValidationRules struct {
	RequiredFields []string            // fields that must be non-empty
	DateFields     []string            // fields that must be YYYY-MM-DD
	NumericFields  []string            // fields that must parse as finite numbers
	IntegerFields  []string            // numeric fields that must be integral
	MinValues      map[string]float64  // inclusive lower bounds
	MaxValues      map[string]float64  // inclusive upper bounds
	AllowedValues  map[string][]string // enum domains, skipped when empty
}

// DefaultRules builds the mission validation rules from the ingest config
func DefaultRules(cfg config.Ingest) *ValidationRules {
	numeric := []string{
		model.ColDistanceLY, model.ColDurationYears, model.ColCostBillionUSD,
		model.ColScientificYield, model.ColCrewSize, model.ColSuccessPct,
		model.ColFuelConsumptionTons, model.ColPayloadWeightTons,
	}
	rules := &ValidationRules{
		// mission_id is back-filled when empty
		RequiredFields: []string{
			model.ColMissionName, model.ColLaunchDate, model.ColTargetType, model.ColTargetName,
			model.ColMissionType, model.ColLaunchVehicle,
		},
		DateFields:    []string{model.ColLaunchDate},
		NumericFields: numeric,
		IntegerFields: []string{model.ColCrewSize},
		MinValues: map[string]float64{
			model.ColDistanceLY:          0,
			model.ColDurationYears:       0,
			model.ColCostBillionUSD:      0,
			model.ColCrewSize:            0,
			model.ColSuccessPct:          0,
			model.ColFuelConsumptionTons: 0,
			model.ColPayloadWeightTons:   0,
		},
		MaxValues: map[string]float64{
			model.ColSuccessPct: 100,
		},
		AllowedValues: map[string][]string{},
	}
	rules.RequiredFields = append(rules.RequiredFields, numeric...)
	if len(cfg.AllowedTargetTypes) > 0 {
		rules.AllowedValues[model.ColTargetType] = cfg.AllowedTargetTypes
	}
	if len(cfg.AllowedMissionTypes) > 0 {
		rules.AllowedValues[model.ColMissionType] = cfg.AllowedMissionTypes
	}
	return rules
}

// ValidateRecords checks rows with workerCount workers, forwarding valid rows
// to out and rejections to rejects. It returns once every worker is done and
// out has been closed.
func ValidateRecords(
	ctx context.Context,
	rules *ValidationRules,
	in <-chan sourceRow,
	out chan<- sourceRow,
	rejects chan<- model.RowValidationError,
	workerCount int,
) {
	defer close(out)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for row := range in {
				if rejection := validateRecord(row, rules); rejection != nil {
					select {
					case <-ctx.Done():
						return
					case rejects <- *rejection:
					}
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- row:
				}
			}
		}()
	}
	wg.Wait()
}

// validateRecord applies rules to a row and returns the first violation found
func validateRecord(row sourceRow, rules *ValidationRules) *model.RowValidationError {
	reject := func(field, reason, value string) *model.RowValidationError {
		return &model.RowValidationError{
			Row:       row.Row,
			MissionID: row.missionID(),
			Field:     field,
			Reason:    reason,
			Value:     value,
		}
	}

	for _, field := range rules.RequiredFields {
		if row.Values[field] == "" {
			return reject(field, model.ReasonMissingField, "")
		}
	}

	for _, field := range rules.DateFields {
		if _, err := time.Parse(model.DateLayout, row.Values[field]); err != nil {
			return reject(field, model.ReasonInvalidDate, row.Values[field])
		}
	}

	numbers := make(map[string]float64, len(rules.NumericFields))
	for _, field := range rules.NumericFields {
		v, err := utils.ParseFloat(row.Values[field])
		if err != nil {
			return reject(field, model.ReasonNotNumeric, row.Values[field])
		}
		numbers[field] = v
	}

	for _, field := range rules.IntegerFields {
		if _, err := utils.ParseInt(row.Values[field]); err != nil {
			return reject(field, model.ReasonNotInteger, row.Values[field])
		}
	}

	for _, field := range sortedKeys(rules.MinValues) {
		if v, ok := numbers[field]; ok && v < rules.MinValues[field] {
			return reject(field, model.ReasonBelowMinimum, formatNumber(v))
		}
	}
	for _, field := range sortedKeys(rules.MaxValues) {
		if v, ok := numbers[field]; ok && v > rules.MaxValues[field] {
			return reject(field, model.ReasonAboveMaximum, formatNumber(v))
		}
	}

	for _, field := range sortedKeys(rules.AllowedValues) {
		if !slices.Contains(rules.AllowedValues[field], row.Values[field]) {
			return reject(field, model.ReasonUnknownValue, row.Values[field])
		}
	}
	return nil
}

// sortedKeys keeps the reported violation stable across runs
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
