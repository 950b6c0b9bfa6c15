// Package http exposes the trigger and read API. Report generation is
// triggered here on demand; everything else is read-only views over the
// store plus the health, readiness, and metrics endpoints.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/workflow"
)

var validate = validator.New()

// ReportGenerator triggers one report generation run.
type ReportGenerator interface {
	Generate(ctx context.Context, req workflow.Request) (workflow.Result, error)
}

// ScheduleSource reports the generation schedule.
type ScheduleSource interface {
	Info() domain.ScheduleInfo
}

// Server exposes the service's HTTP API.
type Server struct {
	app      *fiber.App
	addr     string
	reports  ReportGenerator
	store    domain.Store
	schedule ScheduleSource
	logger   *slog.Logger
	clock    clockwork.Clock
}

// NewServer wires the route table. schedule may be nil when the scheduler is
// disabled; the schedule endpoint then answers 404.
func NewServer(addr string, reports ReportGenerator, store domain.Store, schedule ScheduleSource, logger *slog.Logger) *Server {
	s := &Server{
		addr:     addr,
		reports:  reports,
		store:    store,
		schedule: schedule,
		logger:   logger,
		clock:    clockwork.NewRealClock(),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "weather-report-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute, // generation waits on the LLM call
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
	s.app.Use(recover.New())

	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/readyz", s.handleReady)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := s.app.Group("/api/v1")
	v1.Post("/reports/generate", s.handleGenerate)
	v1.Get("/reports/latest", s.handleLatestReport)
	v1.Get("/reports/:date", s.handleReportByDate)
	v1.Get("/summaries/daily", s.handleDailySummary)
	v1.Get("/trends/:location", s.handleTrends)
	v1.Get("/schedule", s.handleSchedule)

	return s
}

// SetClock swaps the time source used for default dates. Tests only.
func (s *Server) SetClock(c clockwork.Clock) {
	if c == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = c
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Test dispatches an in-memory request, for handler tests.
func (s *Server) Test(req *http.Request) (*http.Response, error) {
	return s.app.Test(req, -1)
}

// generateRequest is the trigger payload. All fields optional.
type generateRequest struct {
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Force    bool   `json:"force"`
	Location string `json:"location"`
}

// generateResponse is the trigger result envelope. Field names match the
// source system's wire format.
type generateResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Report  *domain.ReportDocument `json:"report"`
}

func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req generateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := s.reports.Generate(c.Context(), workflow.Request{
		Date:     req.Date,
		Force:    req.Force,
		Location: req.Location,
	})
	if err != nil {
		return c.Status(statusForError(err)).JSON(generateResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	message := "report generated"
	if result.Reused {
		message = "recent report already exists"
	}
	return c.JSON(generateResponse{
		Success: true,
		Message: message,
		Report:  result.Report,
	})
}

// statusForError maps the workflow's failure kinds to HTTP statuses. NoData
// is the caller asking for a window with nothing in it; the two generation
// kinds are upstream faults.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoData):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGenerationUnavailable), errors.Is(err, domain.ErrMalformedResponse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleLatestReport(c *fiber.Ctx) error {
	report, err := s.store.LatestReport(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no reports generated yet")
		}
		s.logger.Error("latest report lookup failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch report")
	}
	return c.JSON(report)
}

func (s *Server) handleReportByDate(c *fiber.Ctx) error {
	date := c.Params("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	report, err := s.store.ReportByDate(c.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no report for "+date)
		}
		s.logger.Error("report lookup failed", "date", date, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch report")
	}
	return c.JSON(report)
}

func (s *Server) handleDailySummary(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		// The rollup for a day lands after the day closes, so default to
		// yesterday rather than today.
		date = s.clock.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	summary, err := s.store.DailySummary(c.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no daily summary for "+date)
		}
		s.logger.Error("daily summary lookup failed", "date", date, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch daily summary")
	}
	return c.JSON(summary)
}

func (s *Server) handleTrends(c *fiber.Ctx) error {
	location := c.Params("location")

	snapshot, err := s.store.LatestTrendSnapshot(c.Context(), location)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no trend data for "+location)
		}
		s.logger.Error("trend lookup failed", "location", location, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch trend data")
	}
	return c.JSON(snapshot)
}

func (s *Server) handleSchedule(c *fiber.Ctx) error {
	if s.schedule == nil {
		return fiber.NewError(fiber.StatusNotFound, "scheduled generation is disabled")
	}

	info := s.schedule.Info()
	if latest, err := s.store.LatestReport(c.Context()); err == nil {
		info.LastPrediction = latest.CreatedAt.UTC().Format(time.RFC3339)
	}
	return c.JSON(info)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) handleReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
