package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/storyforge/sharing-service/internal/auth"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/services"
)

type ReportingHandler struct {
	reports    *services.ReportService
	moderation *services.ModerationService
}

func NewReportingHandler(reports *services.ReportService, moderation *services.ModerationService) *ReportingHandler {
	return &ReportingHandler{reports: reports, moderation: moderation}
}

// Create accepts a report from an authenticated or anonymous caller.
// Duplicates return 409 with the existing report's ID.
func (h *ReportingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	result, err := h.reports.Create(&req, auth.OptionalUserID(c), auth.ClientIP(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.IsDuplicate {
		return c.Status(fiber.StatusConflict).JSON(dto.DuplicateReportResponse{
			IsDuplicate:      true,
			ExistingReportID: result.ExistingReportID,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateReportResponse{
		ReportID:      result.Report.ID,
		Status:        result.Report.Status,
		PriorityScore: result.Report.PriorityScore,
	})
}

// ListPending returns the moderation queue ordered by priority.
func (h *ReportingHandler) ListPending(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reports, total, err := h.reports.ListPending(page, limit)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, codeInternal, "Failed to fetch reports")
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"pagination": dto.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (h *ReportingHandler) Get(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid report ID")
	}

	report, err := h.reports.Get(reportID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportingHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reports.Stats()
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, codeInternal, "Failed to aggregate reports")
	}
	return c.JSON(stats)
}

func (h *ReportingHandler) Review(c *fiber.Ctx) error {
	reviewerID, reportID, ok := h.moderatorParams(c)
	if !ok {
		return nil
	}

	var req dto.ReviewReportRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	report, err := h.moderation.Review(reportID, reviewerID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportingHandler) Resolve(c *fiber.Ctx) error {
	reviewerID, reportID, ok := h.moderatorParams(c)
	if !ok {
		return nil
	}

	var req dto.ResolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	report, err := h.moderation.Resolve(reportID, reviewerID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportingHandler) Dismiss(c *fiber.Ctx) error {
	reviewerID, reportID, ok := h.moderatorParams(c)
	if !ok {
		return nil
	}

	var req dto.DismissReportRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	report, err := h.moderation.Dismiss(reportID, reviewerID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportingHandler) Escalate(c *fiber.Ctx) error {
	reviewerID, reportID, ok := h.moderatorParams(c)
	if !ok {
		return nil
	}

	var req dto.EscalateReportRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	report, err := h.moderation.Escalate(reportID, reviewerID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

// BulkResolve applies one resolution to many reports; partial failures are
// itemized, never aborting the batch.
func (h *ReportingHandler) BulkResolve(c *fiber.Ctx) error {
	reviewerID, err := auth.GetUserID(c)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "", "Unauthorized")
	}

	var req dto.BulkResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}
	if len(req.ReportIDs) == 0 {
		return respond(c, fiber.StatusBadRequest, codeValidation, "report_ids must not be empty")
	}

	return c.JSON(h.moderation.BulkResolve(reviewerID, &req))
}

// moderatorParams extracts the reviewer and report IDs, writing the error
// response itself when either is missing.
func (h *ReportingHandler) moderatorParams(c *fiber.Ctx) (uuid.UUID, uuid.UUID, bool) {
	reviewerID, err := auth.GetUserID(c)
	if err != nil {
		_ = respond(c, fiber.StatusUnauthorized, "", "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		_ = respond(c, fiber.StatusBadRequest, codeValidation, "Invalid report ID")
		return uuid.Nil, uuid.Nil, false
	}
	return reviewerID, reportID, true
}
