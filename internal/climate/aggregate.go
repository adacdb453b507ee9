package climate

import (
	"math"
	"sort"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/common"
)

// Summary condenses a series into averages and extremes.
type Summary struct {
	Count          int     `json:"count"`
	AvgTemperature float64 `json:"avgTemperatureC"`
	MinTemperature float64 `json:"minTemperatureC"`
	MaxTemperature float64 `json:"maxTemperatureC"`
	AvgHumidity    float64 `json:"avgHumidityPercent"`
	MinHumidity    float64 `json:"minHumidityPercent"`
	MaxHumidity    float64 `json:"maxHumidityPercent"`
}

// Summarize averages the points of a series. Averages are rounded to one decimal.
func Summarize(points []Point) Summary {
	if len(points) == 0 {
		return Summary{}
	}

	var (
		sumTemp     float64
		sumHumidity float64
	)

	s := Summary{
		Count:          len(points),
		MinTemperature: math.Inf(1),
		MaxTemperature: math.Inf(-1),
		MinHumidity:    math.Inf(1),
		MaxHumidity:    math.Inf(-1),
	}

	for _, p := range points {
		sumTemp += p.Temperature
		sumHumidity += p.Humidity

		s.MinTemperature = math.Min(s.MinTemperature, p.Temperature)
		s.MaxTemperature = math.Max(s.MaxTemperature, p.Temperature)
		s.MinHumidity = math.Min(s.MinHumidity, p.Humidity)
		s.MaxHumidity = math.Max(s.MaxHumidity, p.Humidity)
	}

	n := float64(len(points))
	s.AvgTemperature = common.Round(sumTemp/n, 1)
	s.AvgHumidity = common.Round(sumHumidity/n, 1)

	return s
}

// GroupByZone splits readings into one series per zone. Series follow the
// order of zones; zones found in readings but not listed come last, sorted
// by name. Points within a series are ordered by timestamp.
func GroupByZone(readings []Reading, zones []Zone) []Series {
	byZone := make(map[Zone]*Series)
	for _, r := range readings {
		s, ok := byZone[r.Zone]
		if !ok {
			s = &Series{Zone: r.Zone}
			byZone[r.Zone] = s
		}
		s.Points = append(s.Points, Point{
			Timestamp:   r.Timestamp,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
		})
	}

	result := make([]Series, 0, len(byZone))
	seen := make(map[Zone]bool, len(zones))

	for _, z := range zones {
		if s, ok := byZone[z]; ok && !seen[z] {
			result = append(result, *s)
		}
		seen[z] = true
	}

	var extra []Zone
	for z := range byZone {
		if !seen[z] {
			extra = append(extra, z)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, z := range extra {
		result = append(result, *byZone[z])
	}

	for i := range result {
		points := result[i].Points
		sort.SliceStable(points, func(a, b int) bool {
			return points[a].Timestamp.Before(points[b].Timestamp)
		})
		result[i].Summary = Summarize(points)
	}

	return result
}
