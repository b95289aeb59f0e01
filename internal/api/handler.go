package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/nikolastas/logistis-sub000/internal/catalog"
	"github.com/nikolastas/logistis-sub000/internal/logger"
	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/parser"
	"github.com/nikolastas/logistis-sub000/internal/pipeline"
	"github.com/nikolastas/logistis-sub000/internal/writer"
)

// ProcessResponse is the JSON response from the /api/process endpoint.
type ProcessResponse struct {
	Success   bool                       `json:"success"`
	Error     string                     `json:"error,omitempty"`
	Bank      string                     `json:"bank,omitempty"`
	Adapter   string                     `json:"adapter,omitempty"`
	Movements []models.ProcessedMovement `json:"movements"`
	Count     int                        `json:"count"`
	Inserted  *int                       `json:"inserted,omitempty"`
	Linked    *int                       `json:"linked,omitempty"`
	CSV       string                     `json:"csv,omitempty"`
	Version   string                     `json:"version,omitempty"`
}

// Format describes one registered adapter.
type Format struct {
	Name string `json:"name"`
	Bank string `json:"bank"`
	Kind string `json:"kind"`
}

// Saver persists processed movements.
type Saver interface {
	Save(ctx context.Context, householdID, bank string, movements []models.ProcessedMovement) (int, error)
}

// Linker runs an own-account pairing pass.
type Linker interface {
	Link(ctx context.Context, householdID string) (int, error)
}

// Handler holds the HTTP handlers for the API. Store and Linker are
// optional; without them processing is read-only.
type Handler struct {
	Pipeline  *pipeline.Pipeline
	Registry  *parser.Registry
	Directory *catalog.Directory
	Store     Saver
	Linker    Linker
	Log       zerolog.Logger
	Version   string
}

// NewApp creates the fiber app with routes and middleware.
func NewApp(h *Handler, maxUploadMB int) *fiber.App {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	app := fiber.New(fiber.Config{
		BodyLimit:             maxUploadMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Get("/formats", h.HandleFormats)
	api.Post("/process", h.HandleProcess)
	api.Post("/households/:id/link", h.HandleLink)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
		"engine":  "fiber",
	})
}

func (h *Handler) HandleFormats(c *fiber.Ctx) error {
	adapters := h.Registry.All()
	formats := make([]Format, 0, len(adapters))
	for _, a := range adapters {
		formats = append(formats, Format{Name: a.Name(), Bank: a.Bank(), Kind: a.Kind().String()})
	}
	return c.JSON(formats)
}

func (h *Handler) HandleProcess(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", err))
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", err))
	}

	hint := c.FormValue("format")
	if hint == "" {
		hint = fh.Header.Get("Content-Type")
	}
	household := c.FormValue("household")

	var members []models.HouseholdMember
	if h.Directory != nil && household != "" {
		members = h.Directory.Members(household)
	}

	log := h.Log.With().Str("file", fh.Filename).Str("household", household).Logger()
	ctx := logger.WithContext(c.UserContext(), log)

	result, err := h.Pipeline.Process(ctx, data, hint, members)
	if errors.Is(err, parser.ErrMalformedInput) {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Unreadable statement: %v", err))
	}
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := ProcessResponse{
		Success:   true,
		Bank:      result.Bank,
		Adapter:   result.Adapter,
		Movements: result.Movements,
		Count:     len(result.Movements),
		Version:   h.Version,
	}

	if h.Store != nil && household != "" {
		inserted, err := h.Store.Save(ctx, household, result.Bank, result.Movements)
		if err != nil {
			log.Error().Err(err).Msg("saving movements failed")
			return writeError(c, fiber.StatusInternalServerError, "Failed to save movements.")
		}
		resp.Inserted = &inserted

		if h.Linker != nil {
			linked, err := h.Linker.Link(ctx, household)
			if err != nil {
				log.Error().Err(err).Msg("linking failed")
				return writeError(c, fiber.StatusInternalServerError, "Failed to link own-account transfers.")
			}
			resp.Linked = &linked
		}
	}

	if c.FormValue("csv") == "true" {
		var buf bytes.Buffer
		w := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
		if err := w.Write(&buf, result); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
		}
		resp.CSV = buf.String()
	}

	return c.JSON(resp)
}

func (h *Handler) HandleLink(c *fiber.Ctx) error {
	if h.Linker == nil {
		return writeError(c, fiber.StatusServiceUnavailable, "No database configured.")
	}
	household := c.Params("id")
	ctx := logger.WithContext(c.UserContext(), h.Log)

	linked, err := h.Linker.Link(ctx, household)
	if err != nil {
		h.Log.Error().Err(err).Str("household", household).Msg("linking failed")
		return writeError(c, fiber.StatusInternalServerError, "Failed to link own-account transfers.")
	}
	return c.JSON(fiber.Map{"household": household, "linked": linked})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ProcessResponse{
		Success: false,
		Error:   msg,
	})
}
