package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/simcheck-go-api/internal/dto"
	"github.com/noah-isme/simcheck-go-api/internal/plagiarism"
	"github.com/noah-isme/simcheck-go-api/internal/service"
	"github.com/noah-isme/simcheck-go-api/internal/utils"
	"github.com/noah-isme/simcheck-go-api/pkg/extract"
)

// CheckHandler manages plagiarism check endpoints.
type CheckHandler struct {
	service service.CheckService
	logger  zerolog.Logger
}

// NewCheckHandler builds a check handler instance.
func NewCheckHandler(service service.CheckService, logger zerolog.Logger) *CheckHandler {
	return &CheckHandler{
		service: service,
		logger:  logger.With().Str("component", "check_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CheckHandler) Register(router fiber.Router) {
	router.Post("/:id/check", h.check)
	router.Get("/:id/report", h.report)
	router.Get("/:id/reports", h.reports)
}

func (h *CheckHandler) check(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	// The body is optional; without one the full texts are compared.
	var payload dto.CheckRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	report, err := h.service.Check(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plagiarism check completed", report)
}

func (h *CheckHandler) reports(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reports, err := h.service.ListReports(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plagiarism reports retrieved", reports)
}

func (h *CheckHandler) report(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.GetLatestReport(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plagiarism report retrieved", report)
}

func (h *CheckHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound), errors.Is(err, service.ErrReportNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, plagiarism.ErrInvalidComparisonSet):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	h.logger.Error().Err(err).Msg("check request failed")

	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
