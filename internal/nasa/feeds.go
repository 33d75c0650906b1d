package nasa

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"space-mission-pipeline/internal/model"
)

// ------------------- APOD -------------------

type apodResponse struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	URL         string `json:"url"`
	MediaType   string `json:"media_type"`
}

// FetchDailyImage fetches the astronomy picture of the given YYYY-MM-DD date
func (c *Client) FetchDailyImage(ctx context.Context, date string) (model.DailyImage, error) {
	query := url.Values{"api_key": {c.cfg.APIKey}, "date": {date}}

	var body apodResponse
	err := c.do(ctx, model.FeedDailyImage, http.MethodGet, c.cfg.APODURL, query, func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode apod: %w", err)
		}
		if body.Date == "" {
			return fmt.Errorf("apod response for %s has no date", date)
		}
		return nil
	})
	if err != nil {
		return model.DailyImage{}, err
	}

	return model.DailyImage{
		Date:        body.Date,
		Title:       body.Title,
		Explanation: truncateRunes(body.Explanation, model.ExplanationMaxRunes),
		URL:         body.URL,
		MediaType:   body.MediaType,
		Source:      model.SourceAPOD,
	}, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ------------------- NeoWs -------------------

type neoFeedResponse struct {
	NearEarthObjects map[string][]neoObject `json:"near_earth_objects"`
}

type neoObject struct {
	Name              string `json:"name"`
	EstimatedDiameter struct {
		Kilometers struct {
			Max float64 `json:"estimated_diameter_max"`
		} `json:"kilometers"`
	} `json:"estimated_diameter"`
	Hazardous         bool `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData []struct {
		RelativeVelocity struct {
			KilometersPerSecond string `json:"kilometers_per_second"`
			KilometersPerHour   string `json:"kilometers_per_hour"`
		} `json:"relative_velocity"`
		MissDistance struct {
			Kilometers string `json:"kilometers"`
		} `json:"miss_distance"`
	} `json:"close_approach_data"`
}

// FetchNearEarthObjects fetches close approaches between start and end inclusive
func (c *Client) FetchNearEarthObjects(ctx context.Context, start, end string) ([]model.NearEarthObject, error) {
	query := url.Values{
		"api_key":    {c.cfg.APIKey},
		"start_date": {start},
		"end_date":   {end},
		"detailed":   {"false"},
	}

	var body neoFeedResponse
	err := c.do(ctx, model.FeedNearEarthObject, http.MethodGet, c.cfg.NEOURL, query, func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode neo feed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	objects := []model.NearEarthObject{}
	for date, approaches := range body.NearEarthObjects {
		for _, obj := range approaches {
			if obj.Name == "" {
				continue
			}
			neo := model.NearEarthObject{
				Name:         obj.Name,
				ApproachDate: date,
				DiameterKm:   obj.EstimatedDiameter.Kilometers.Max,
				Hazardous:    obj.Hazardous,
				Source:       model.SourceNEO,
			}
			if len(obj.CloseApproachData) > 0 {
				approach := obj.CloseApproachData[0]
				neo.VelocityKms = parseDecimal(approach.RelativeVelocity.KilometersPerSecond)
				neo.VelocityKph = parseDecimal(approach.RelativeVelocity.KilometersPerHour)
				neo.MissDistanceKm = parseDecimal(approach.MissDistance.Kilometers)
			}
			objects = append(objects, neo)
		}
	}
	slices.SortFunc(objects, func(a, b model.NearEarthObject) int {
		return cmp.Or(cmp.Compare(a.ApproachDate, b.ApproachDate), cmp.Compare(a.Name, b.Name))
	})
	return objects, nil
}

// parseDecimal reads the string-encoded numbers of the NeoWs feed, zero when unparseable
func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ------------------- Exoplanet Archive -------------------

type exoplanetRow struct {
	Name          string   `json:"pl_name"`
	PlanetCount   *int     `json:"sy_pnum"`
	RadiusEarth   *float64 `json:"pl_rade"`
	MassEarth     *float64 `json:"pl_bmasse"`
	DistancePC    *float64 `json:"sy_dist"`
	DiscoveryYear *int     `json:"disc_year"`
}

func exoplanetQuery(limit int) string {
	return fmt.Sprintf("SELECT TOP %d pl_name, sy_pnum, pl_rade, pl_bmasse, sy_dist, disc_year "+
		"FROM ps WHERE pl_name IS NOT NULL ORDER BY disc_year DESC", limit)
}

// FetchExoplanets fetches the most recently discovered planets
func (c *Client) FetchExoplanets(ctx context.Context) ([]model.Exoplanet, error) {
	limit := c.cfg.ExoplanetLimit
	if limit <= 0 {
		limit = 50
	}
	query := url.Values{"query": {exoplanetQuery(limit)}, "format": {"json"}}

	var rows []exoplanetRow
	err := c.do(ctx, model.FeedExoplanet, http.MethodGet, c.cfg.ExoplanetURL, query, func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			return fmt.Errorf("decode exoplanets: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	planets := make([]model.Exoplanet, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		// the ps table holds one row per solution; keep the first per planet
		if r.Name == "" || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		planets = append(planets, model.Exoplanet{
			Name:          r.Name,
			PlanetCount:   r.PlanetCount,
			RadiusEarth:   r.RadiusEarth,
			MassEarth:     r.MassEarth,
			DistancePC:    r.DistancePC,
			DiscoveryYear: r.DiscoveryYear,
			Source:        model.SourceExoplanet,
		})
	}
	return planets, nil
}

// ------------------- Earth imagery -------------------

// FetchEarthImagery checks that imagery exists at the coordinates and returns
// its URL without the api key
func (c *Client) FetchEarthImagery(ctx context.Context, lat, lon, dim float64) (model.EarthImage, error) {
	query := url.Values{
		"lat":     {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":     {strconv.FormatFloat(lon, 'f', -1, 64)},
		"dim":     {strconv.FormatFloat(dim, 'f', -1, 64)},
		"api_key": {c.cfg.APIKey},
	}

	var imageURL string
	err := c.do(ctx, model.FeedEarthImagery, http.MethodHead, c.cfg.EarthURL, query, func(resp *http.Response) error {
		u := *resp.Request.URL
		q := u.Query()
		q.Del("api_key")
		u.RawQuery = q.Encode()
		imageURL = u.String()
		return nil
	})
	if err != nil {
		return model.EarthImage{}, err
	}

	return model.EarthImage{
		Latitude:  lat,
		Longitude: lon,
		Dim:       dim,
		URL:       imageURL,
		Source:    model.SourceEarthImagery,
	}, nil
}
