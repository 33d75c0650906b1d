package model

// DateLayout is the calendar date format used for launch dates and feed keys
const DateLayout = "2006-01-02"

// TargetType classifies what a mission was sent to
type TargetType string

const (
	TargetPlanet   TargetType = "Planet"
	TargetMoon     TargetType = "Moon"
	TargetAsteroid TargetType = "Asteroid"
	TargetComet    TargetType = "Comet"
)

// MissionType classifies how a mission engaged its target
type MissionType string

const (
	MissionFlyby   MissionType = "Flyby"
	MissionOrbiter MissionType = "Orbiter"
	MissionLander  MissionType = "Lander"
	MissionRover   MissionType = "Rover"
	MissionCrewed  MissionType = "Crewed"
)

// DefaultTargetTypes is the accepted target type domain
var DefaultTargetTypes = []string{
	string(TargetPlanet), string(TargetMoon), string(TargetAsteroid), string(TargetComet),
}

// DefaultMissionTypes is the accepted mission type domain
var DefaultMissionTypes = []string{
	string(MissionFlyby), string(MissionOrbiter), string(MissionLander), string(MissionRover), string(MissionCrewed),
}

// Mission is one historical space mission record.
// LaunchYear always equals the year component of LaunchDate.
type Mission struct {
	MissionID           string  `json:"mission_id" parquet:"mission_id"`
	MissionName         string  `json:"mission_name" parquet:"mission_name"`
	LaunchDate          string  `json:"launch_date" parquet:"launch_date"` // YYYY-MM-DD
	LaunchYear          int     `json:"launch_year" parquet:"launch_year"`
	TargetType          string  `json:"target_type" parquet:"target_type"`
	TargetName          string  `json:"target_name" parquet:"target_name"`
	MissionType         string  `json:"mission_type" parquet:"mission_type"`
	DistanceLY          float64 `json:"distance_ly" parquet:"distance_ly"`
	DurationYears       float64 `json:"duration_years" parquet:"duration_years"`
	CostBillionUSD      float64 `json:"cost_billion_usd" parquet:"cost_billion_usd"`
	ScientificYield     float64 `json:"scientific_yield" parquet:"scientific_yield"`
	CrewSize            int     `json:"crew_size" parquet:"crew_size"`
	SuccessPct          float64 `json:"success_pct" parquet:"success_pct"`
	FuelConsumptionTons float64 `json:"fuel_consumption_tons" parquet:"fuel_consumption_tons"`
	PayloadWeightTons   float64 `json:"payload_weight_tons" parquet:"payload_weight_tons"`
	LaunchVehicle       string  `json:"launch_vehicle" parquet:"launch_vehicle"`
}

// Column names of the source dataset, in canonical order
const (
	ColMissionID           = "mission_id"
	ColMissionName         = "mission_name"
	ColLaunchDate          = "launch_date"
	ColTargetType          = "target_type"
	ColTargetName          = "target_name"
	ColMissionType         = "mission_type"
	ColDistanceLY          = "distance_ly"
	ColDurationYears       = "duration_years"
	ColCostBillionUSD      = "cost_billion_usd"
	ColScientificYield     = "scientific_yield"
	ColCrewSize            = "crew_size"
	ColSuccessPct          = "success_pct"
	ColFuelConsumptionTons = "fuel_consumption_tons"
	ColPayloadWeightTons   = "payload_weight_tons"
	ColLaunchVehicle       = "launch_vehicle"
)

// SourceColumns lists the columns every source dataset header must carry
var SourceColumns = []string{
	ColMissionID, ColMissionName, ColLaunchDate, ColTargetType, ColTargetName,
	ColMissionType, ColDistanceLY, ColDurationYears, ColCostBillionUSD,
	ColScientificYield, ColCrewSize, ColSuccessPct, ColFuelConsumptionTons,
	ColPayloadWeightTons, ColLaunchVehicle,
}

// HeaderAliases maps the human-readable headers of the published dataset
// onto canonical column names.
var HeaderAliases = map[string]string{
	"Mission ID":                        ColMissionID,
	"Mission Name":                      ColMissionName,
	"Launch Date":                       ColLaunchDate,
	"Target Type":                       ColTargetType,
	"Target Name":                       ColTargetName,
	"Mission Type":                      ColMissionType,
	"Distance from Earth (light-years)": ColDistanceLY,
	"Mission Duration (years)":          ColDurationYears,
	"Mission Cost (billion USD)":        ColCostBillionUSD,
	"Scientific Yield (points)":         ColScientificYield,
	"Crew Size":                         ColCrewSize,
	"Mission Success (%)":               ColSuccessPct,
	"Fuel Consumption (tons)":           ColFuelConsumptionTons,
	"Payload Weight (tons)":             ColPayloadWeightTons,
	"Launch Vehicle":                    ColLaunchVehicle,
}
