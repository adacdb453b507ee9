package httpapi

import (
	"bytes"
	"errors"
	"html/template"
	"strconv"

	"github.com/evilsocket/islazy/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/chart"
	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/store"
)

const alertsTitle = "Alertas Climáticas de Lima"

var validate = validator.New()

// RegisterRoutes wires the dashboard pages and the JSON API into the Fiber app.
// The app must be created with NewViews as its template engine.
func RegisterRoutes(app *fiber.App, service *climate.Service, title string) {
	// Every page load is a full render pass: new samples, new inserts, new chart.
	app.Get("/", func(c *fiber.Ctx) error {
		board, err := service.Refresh(c.UserContext())
		if err != nil {
			log.Warning("render %s: %v", board.ID, err)
		}

		hist, err := service.History(c.UserContext(), 0)
		if err != nil {
			log.Error("render %s: %v", board.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load reading history")
		}

		svg, msg := renderChart(hist)
		return c.Render("dashboard", fiber.Map{
			"Title":        title,
			"Board":        board,
			"Chart":        svg,
			"ChartMessage": msg,
			"HistoryDays":  service.HistoryDays(),
		})
	})

	app.Get("/alerts", func(c *fiber.Ctx) error {
		return c.Render("alerts", fiber.Map{
			"Title":  alertsTitle,
			"Alerts": service.Alerts(),
		})
	})

	app.Get("/chart.svg", func(c *fiber.Ctx) error {
		days, err := parseDays(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		hist, err := service.History(c.UserContext(), days)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load reading history")
		}

		var buf bytes.Buffer
		if err := chart.RenderSVG(&buf, hist, chart.DefaultOptions()); err != nil {
			if errors.Is(err, chart.ErrNotEnoughData) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
		}

		c.Type("svg")
		return c.Send(buf.Bytes())
	})

	v1 := app.Group("/api/v1")

	v1.Get("/zones", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"zones": service.Zones(),
		})
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		board, err := service.Refresh(c.UserContext())
		if err != nil {
			log.Error("render %s: %v", board.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store readings")
		}
		return c.Status(fiber.StatusCreated).JSON(board)
	})

	v1.Get("/readings/latest", func(c *fiber.Ctx) error {
		q := latestQuery{Zone: c.Query("zone")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		r, err := service.Latest(c.UserContext(), climate.Zone(q.Zone))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no readings for requested zone")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch latest reading")
		}
		return c.JSON(r)
	})

	v1.Get("/readings/history", func(c *fiber.Ctx) error {
		days, err := parseDays(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		hist, err := service.History(c.UserContext(), days)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch reading history")
		}
		return c.JSON(hist)
	})

	v1.Get("/alerts", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"title":  alertsTitle,
			"alerts": service.Alerts(),
		})
	})
}

// latestQuery holds query parameters for the latest reading endpoint.
type latestQuery struct {
	Zone string `validate:"required"`
}

// historyQuery holds query parameters for the history endpoints.
type historyQuery struct {
	Days int `validate:"min=1,max=30"`
}

// parseDays reads the optional days parameter. Zero means the service default.
func parseDays(c *fiber.Ctx) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return 0, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("days must be an integer")
	}

	if err := validate.Struct(historyQuery{Days: days}); err != nil {
		return 0, err
	}
	return days, nil
}

// renderChart returns the inline SVG chart, or a message to show in its place.
func renderChart(hist climate.History) (template.HTML, string) {
	var buf bytes.Buffer
	err := chart.RenderSVG(&buf, hist, chart.DefaultOptions())
	switch {
	case err == nil:
		return template.HTML(buf.String()), ""
	case errors.Is(err, chart.ErrNotEnoughData):
		return "", "Aún no hay suficientes registros para el gráfico histórico."
	default:
		log.Error("chart: %v", err)
		return "", "No se pudo generar el gráfico histórico."
	}
}
