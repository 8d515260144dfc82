package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"resume-api/internal/usecase"
)

type Handler struct {
	exporter *usecase.Exporter
	profiles *usecase.ProfileSync
	importer *usecase.Importer
	logger   *slog.Logger
	validate *validator.Validate
}

func NewHandler(e *usecase.Exporter, p *usecase.ProfileSync, i *usecase.Importer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{exporter: e, profiles: p, importer: i, logger: logger, validate: validator.New()}
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

func (h *Handler) log(c *fiber.Ctx) *slog.Logger {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

// bind decodes the JSON body into dst and validates it.
func (h *Handler) bind(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
	}
	if err := h.validate.Struct(dst); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

func (h *Handler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Resume Management API",
		"endpoints": fiber.Map{
			"/linkedin/add-experience": "POST - Add experience to LinkedIn",
			"/simplify/add-experience": "POST - Add experience to Simplify",
			"/resume/export":           "POST - Export resume as PDF/LaTeX/JSON",
			"/resume/preview":          "GET - Preview resume data",
			"/parse-resume":            "POST - Parse a PDF or DOCX resume",
			"/parse-resume-url":        "POST - Parse a resume from a URL",
			"/metrics":                 "GET - Prometheus metrics",
			"/health":                  "GET - Health check",
		},
	})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "message": "Resume API is running"})
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	record := h.exporter.Preview(c.UserContext())
	return c.JSON(fiber.Map{"success": true, "data": record})
}

func (h *Handler) Export(c *fiber.Ctx) error {
	var req exportReq
	if err := h.bind(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	format, err := usecase.ParseFormat(req.Format)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := h.exporter.Export(c.UserContext(), usecase.ExportRequest{
		Format:        format,
		Filename:      req.Filename,
		ExperienceIDs: req.ExperienceIDs,
		ProjectIDs:    req.ProjectIDs,
		Settings:      req.Settings,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUnsupportedFormat) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		h.log(c).Error("export failed", "format", format, "error", err)
		return fail(c, fiber.StatusInternalServerError, "Error exporting resume: "+err.Error())
	}
	h.log(c).Info("resume exported", "format", res.Format, "success", res.Success, "bytes", len(res.Content))
	return c.JSON(res)
}

// AddExperience returns the handler for one profile site.
func (h *Handler) AddExperience(site, siteName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req profileReq
		if err := h.bind(c, &req); err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		res, err := h.profiles.AddExperience(c.UserContext(), site, usecase.AddExperienceRequest{
			ExperienceID:    req.ExperienceID,
			ExperienceIndex: req.ExperienceIndex,
			Action:          req.Action,
		})
		switch {
		case err == nil:
		case errors.Is(err, usecase.ErrUnsupportedAction), errors.Is(err, usecase.ErrExperienceIndexRange):
			return fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, usecase.ErrExperienceNotFound), errors.Is(err, usecase.ErrNoExperiences), errors.Is(err, usecase.ErrUnknownSite):
			return fail(c, fiber.StatusNotFound, err.Error())
		default:
			h.log(c).Error("profile update failed", "site", site, "error", err)
			return fail(c, fiber.StatusInternalServerError, fmt.Sprintf("Error adding experience to %s: %v", siteName, err))
		}
		if !res.Success {
			return c.Status(fiber.StatusBadGateway).JSON(res)
		}
		return c.JSON(res)
	}
}

func (h *Handler) ParseResume(c *fiber.Ctx) error {
	var req parseReq
	if err := h.bind(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, "No file content provided")
	}
	content, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "File content is not valid base64")
	}
	record, err := h.importer.Parse(c.UserContext(), req.FileName, req.FileType, content)
	return h.parsed(c, record, err)
}

func (h *Handler) ParseResumeURL(c *fiber.Ctx) error {
	var req parseURLReq
	if err := h.bind(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	record, err := h.importer.ParseURL(c.UserContext(), req.URL)
	return h.parsed(c, record, err)
}

func (h *Handler) parsed(c *fiber.Ctx, record interface{}, err error) error {
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true, "data": record, "message": "Resume parsed successfully"})
	case errors.Is(err, usecase.ErrUnsupportedFileType):
		return fail(c, fiber.StatusBadRequest, "Unsupported file type. Only PDF and DOCX are supported.")
	case errors.Is(err, usecase.ErrEmptyDocument):
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	h.log(c).Error("resume parse failed", "error", err)
	return fail(c, fiber.StatusInternalServerError, "Error parsing resume: "+err.Error())
}
