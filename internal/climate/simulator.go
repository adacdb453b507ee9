package climate

import (
	"math/rand"
	"sync"
	"time"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/common"
)

// Simulator draws uniformly distributed temperature and humidity values,
// rounded to one decimal. It is safe for concurrent use.
type Simulator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	temperature Range
	humidity    Range
}

// NewSimulator creates a Simulator seeded with seed.
func NewSimulator(temperature, humidity Range, seed int64) *Simulator {
	return &Simulator{
		rng:         rand.New(rand.NewSource(seed)),
		temperature: temperature,
		humidity:    humidity,
	}
}

// Sample returns an unsaved reading for zone taken at the given time.
func (s *Simulator) Sample(zone Zone, at time.Time) Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Reading{
		Zone:        zone,
		Timestamp:   at.UTC(),
		Temperature: s.uniform(s.temperature),
		Humidity:    s.uniform(s.humidity),
	}
}

func (s *Simulator) uniform(r Range) float64 {
	v := common.Round(r.Min+s.rng.Float64()*(r.Max-r.Min), 1)
	// rounding may step outside bounds that carry more than one decimal
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	return v
}
