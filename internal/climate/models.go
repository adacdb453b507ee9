package climate

import (
	"time"
)

// Zone is a city district readings are grouped by.
type Zone string

// DefaultZones are the Lima districts tracked when no zone file is configured.
var DefaultZones = []Zone{
	"Centro de Lima",
	"Miraflores",
	"Callao",
	"San Isidro",
	"Barranco",
}

// Range is a closed interval samples are drawn from.
type Range struct {
	Min float64 `json:"min" yaml:"min" validate:"ltfield=Max"`
	Max float64 `json:"max" yaml:"max"`
}

var (
	DefaultTemperatureRange = Range{Min: 18, Max: 25}
	DefaultHumidityRange    = Range{Min: 60, Max: 90}
)

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Reading is one simulated sample. Rows are append-only.
type Reading struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Zone        Zone      `json:"zone" gorm:"size:64;index;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"index;not null"` // always UTC
	Temperature float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
}

// TableName pins the table name regardless of gorm's naming strategy.
func (Reading) TableName() string {
	return "readings"
}

// Board is the result of one render pass: a card per zone, in zone order.
type Board struct {
	ID         string    `json:"id"`
	RenderedAt time.Time `json:"renderedAt"`
	Cards      []Reading `json:"cards"`
}

// Point is a single position on a zone's history line.
type Point struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
}

// Series is the time-ordered history of one zone.
type Series struct {
	Zone    Zone    `json:"zone"`
	Points  []Point `json:"points"`
	Summary Summary `json:"summary"`
}

// History is every reading of the last Days days grouped by zone.
type History struct {
	Days   int       `json:"days"`
	Since  time.Time `json:"since"`
	Until  time.Time `json:"until"`
	Series []Series  `json:"series"`
}

// Len returns the number of points across all series.
func (h History) Len() int {
	n := 0
	for _, s := range h.Series {
		n += len(s.Points)
	}
	return n
}

// Alert is an entry of the alerts popup.
type Alert struct {
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

// Text renders the alert the way the popup lists it.
func (a Alert) Text() string {
	return a.Icon + " " + a.Message
}
