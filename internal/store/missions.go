package store

import (
	"context"
	"database/sql"
	"strings"

	"space-mission-pipeline/internal/model"
)

const missionColumns = `mission_id, mission_name, launch_date, launch_year, target_type, target_name,
	mission_type, distance_ly, duration_years, cost_billion_usd, scientific_yield, crew_size,
	success_pct, fuel_consumption_tons, payload_weight_tons, launch_vehicle`

const upsertMissionSQL = `INSERT INTO missions (` + missionColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (mission_id) DO UPDATE SET
		mission_name = excluded.mission_name,
		launch_date = excluded.launch_date,
		launch_year = excluded.launch_year,
		target_type = excluded.target_type,
		target_name = excluded.target_name,
		mission_type = excluded.mission_type,
		distance_ly = excluded.distance_ly,
		duration_years = excluded.duration_years,
		cost_billion_usd = excluded.cost_billion_usd,
		scientific_yield = excluded.scientific_yield,
		crew_size = excluded.crew_size,
		success_pct = excluded.success_pct,
		fuel_consumption_tons = excluded.fuel_consumption_tons,
		payload_weight_tons = excluded.payload_weight_tons,
		launch_vehicle = excluded.launch_vehicle`

// UpsertMissions inserts or overwrites missions keyed by mission_id inside a
// single transaction. Each row is one statement, so a row is never partially
// written.
func (s *Store) UpsertMissions(ctx context.Context, missions []model.Mission) (int, error) {
	if len(missions) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable("begin mission upsert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertMissionSQL)
	if err != nil {
		return 0, unavailable("prepare mission upsert", err)
	}
	defer stmt.Close()

	for _, m := range missions {
		_, err := stmt.ExecContext(ctx,
			m.MissionID, m.MissionName, m.LaunchDate, m.LaunchYear, m.TargetType, m.TargetName,
			m.MissionType, m.DistanceLY, m.DurationYears, m.CostBillionUSD, m.ScientificYield, m.CrewSize,
			m.SuccessPct, m.FuelConsumptionTons, m.PayloadWeightTons, m.LaunchVehicle,
		)
		if err != nil {
			return 0, unavailable("upsert mission "+m.MissionID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable("commit mission upsert", err)
	}
	return len(missions), nil
}

// ListMissions returns the missions matching criteria ordered by mission_id
func (s *Store) ListMissions(ctx context.Context, criteria model.FilterCriteria) ([]model.Mission, error) {
	where, args := buildMissionFilter(criteria)
	query := `SELECT ` + missionColumns + ` FROM missions` + where + ` ORDER BY mission_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("query missions", err)
	}
	defer rows.Close()

	missions := make([]model.Mission, 0)
	for rows.Next() {
		var m model.Mission
		if err := rows.Scan(
			&m.MissionID, &m.MissionName, &m.LaunchDate, &m.LaunchYear, &m.TargetType, &m.TargetName,
			&m.MissionType, &m.DistanceLY, &m.DurationYears, &m.CostBillionUSD, &m.ScientificYield, &m.CrewSize,
			&m.SuccessPct, &m.FuelConsumptionTons, &m.PayloadWeightTons, &m.LaunchVehicle,
		); err != nil {
			return nil, unavailable("scan mission", err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate missions", err)
	}
	return missions, nil
}

// buildMissionFilter turns criteria into a WHERE clause over the indexed columns
func buildMissionFilter(c model.FilterCriteria) (string, []any) {
	var clauses []string
	var args []any

	in := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		clauses = append(clauses, column+" IN ("+placeholders+")")
		for _, v := range values {
			args = append(args, v)
		}
	}
	in("mission_type", c.MissionTypes)
	in("target_type", c.TargetTypes)
	in("launch_vehicle", c.Vehicles)

	if c.YearMin != 0 {
		clauses = append(clauses, "launch_year >= ?")
		args = append(args, c.YearMin)
	}
	if c.YearMax != 0 {
		clauses = append(clauses, "launch_year <= ?")
		args = append(args, c.YearMax)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// CountMissions returns the number of stored missions
func (s *Store) CountMissions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM missions`).Scan(&n); err != nil {
		return 0, unavailable("count missions", err)
	}
	return n, nil
}

// TruncateMissions deletes every mission ahead of a full reload
func (s *Store) TruncateMissions(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM missions`); err != nil {
		return unavailable("truncate missions", err)
	}
	return nil
}

// MissionOptions returns the distinct filterable values and the launch year
// bounds of the stored missions. Bounds default to 2000-2050 when empty.
func (s *Store) MissionOptions(ctx context.Context) (model.FilterOptions, error) {
	opts := model.FilterOptions{YearMin: 2000, YearMax: 2050}

	var err error
	if opts.MissionTypes, err = s.distinct(ctx, "mission_type"); err != nil {
		return opts, err
	}
	if opts.TargetTypes, err = s.distinct(ctx, "target_type"); err != nil {
		return opts, err
	}
	if opts.Vehicles, err = s.distinct(ctx, "launch_vehicle"); err != nil {
		return opts, err
	}

	var minYear, maxYear sql.NullInt64
	err = s.db.QueryRowContext(ctx, `SELECT MIN(launch_year), MAX(launch_year) FROM missions`).Scan(&minYear, &maxYear)
	if err != nil {
		return opts, unavailable("query year bounds", err)
	}
	if minYear.Valid && maxYear.Valid {
		opts.YearMin, opts.YearMax = int(minYear.Int64), int(maxYear.Int64)
	}
	return opts, nil
}

// distinct is only called with the fixed column names above
func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT `+column+` FROM missions ORDER BY `+column)
	if err != nil {
		return nil, unavailable("query distinct "+column, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, unavailable("scan distinct "+column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate distinct "+column, err)
	}
	return values, nil
}
