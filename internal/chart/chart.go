package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
)

// ErrNotEnoughData is returned when the history cannot span both axes:
// fewer than two distinct timestamps or a single temperature value.
var ErrNotEnoughData = errors.New("not enough readings to draw a chart")

const (
	DefaultTitle  = "Histórico de Temperatura por Zona"
	DefaultXLabel = "Fecha"
	DefaultYLabel = "Temperatura (°C)"
)

// Options controls the rendered figure.
type Options struct {
	Title  string
	Width  int
	Height int
}

// DefaultOptions matches a 10x4 inch figure at 100 dpi.
func DefaultOptions() Options {
	return Options{
		Title:  DefaultTitle,
		Width:  1000,
		Height: 400,
	}
}

// RenderSVG draws one temperature line per zone of h as SVG.
func RenderSVG(w io.Writer, h climate.History, opts Options) error {
	if err := checkSpread(h); err != nil {
		return err
	}

	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	series := make([]gochart.Series, 0, len(h.Series))
	for _, s := range h.Series {
		if len(s.Points) == 0 {
			continue
		}

		xs := make([]time.Time, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.Timestamp
			ys[i] = p.Temperature
		}

		series = append(series, gochart.TimeSeries{
			Name:    "Temp " + string(s.Zone),
			XValues: xs,
			YValues: ys,
		})
	}

	graph := gochart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           DefaultXLabel,
			ValueFormatter: gochart.TimeValueFormatterWithFormat(timeLayout(h)),
		},
		YAxis: gochart.YAxis{
			Name: DefaultYLabel,
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	if err := graph.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

func checkSpread(h climate.History) error {
	var (
		first    time.Time
		distinct bool
		minTemp  = math.Inf(1)
		maxTemp  = math.Inf(-1)
		seen     bool
	)

	for _, s := range h.Series {
		for _, p := range s.Points {
			if !seen {
				first = p.Timestamp
				seen = true
			} else if !p.Timestamp.Equal(first) {
				distinct = true
			}
			minTemp = math.Min(minTemp, p.Temperature)
			maxTemp = math.Max(maxTemp, p.Temperature)
		}
	}

	if !distinct || minTemp == maxTemp {
		return ErrNotEnoughData
	}
	return nil
}

// timeLayout picks a shorter tick label for windows of a single day.
func timeLayout(h climate.History) string {
	if h.Days <= 1 {
		return "15:04"
	}
	return "02/01 15:04"
}
