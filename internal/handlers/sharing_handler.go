package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/storyforge/sharing-service/internal/auth"
	"github.com/storyforge/sharing-service/internal/config"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/models"
	"github.com/storyforge/sharing-service/internal/services"
)

type SharingHandler struct {
	shares    *services.ShareService
	analytics *services.AnalyticsService
	cfg       *config.Config
}

func NewSharingHandler(shares *services.ShareService, analytics *services.AnalyticsService, cfg *config.Config) *SharingHandler {
	return &SharingHandler{shares: shares, analytics: analytics, cfg: cfg}
}

// Create mints a share link for a scenario the requester owns.
func (h *SharingHandler) Create(c *fiber.Ctx) error {
	ownerID, err := auth.GetUserID(c)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "", "Unauthorized")
	}

	scenarioID, err := uuid.Parse(c.Params("scenarioId"))
	if err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid scenario ID")
	}

	var req dto.CreateShareRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	link, err := h.shares.Create(ownerID, scenarioID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.shareResponse(link))
}

// GetShared serves a public share view: access policy, password gate,
// then the snapshot with a view recorded.
func (h *SharingHandler) GetShared(c *fiber.Ctx) error {
	token := c.Params("shareUrl")
	password := c.Query("password", "")

	link, err := h.shares.FetchAccessible(token, password)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := h.analytics.RecordView(link.ShareURL, services.ViewDims{
		Device:   c.Query("device", ""),
		Country:  c.Get("CF-IPCountry"),
		Referrer: c.Get("Referer"),
	}); err != nil {
		slog.Warn("view not recorded", "share_url", link.ShareURL, "error", err)
	} else {
		link.ViewCount++
	}

	return c.JSON(dto.SharedScenarioResponse{Scenario: dto.SharedScenario{
		ShareURL:     link.ShareURL,
		Title:        link.Title,
		Description:  link.Description,
		ScenarioData: []byte(link.Snapshot),
		ViewCount:    link.ViewCount,
		ShareCount:   link.ShareCount,
		CreatedAt:    link.CreatedAt,
	}})
}

// Update applies an owner's partial patch.
func (h *SharingHandler) Update(c *fiber.Ctx) error {
	ownerID, err := auth.GetUserID(c)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "", "Unauthorized")
	}

	var req dto.UpdateShareRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	link, err := h.shares.Update(c.Params("shareUrl"), ownerID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(link)
}

// Revoke deactivates a share link.
func (h *SharingHandler) Revoke(c *fiber.Ctx) error {
	ownerID, err := auth.GetUserID(c)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "", "Unauthorized")
	}

	if err := h.shares.Revoke(c.Params("shareUrl"), ownerID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Share link revoked"})
}

// RecordShare bumps the share counters for a platform.
func (h *SharingHandler) RecordShare(c *fiber.Ctx) error {
	var req dto.RecordShareRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}

	link, err := h.shares.Fetch(c.Params("shareUrl"))
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := h.analytics.RecordShare(link.ShareURL, req.Platform); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// QRCode renders the full share URL as a PNG.
func (h *SharingHandler) QRCode(c *fiber.Ctx) error {
	link, err := h.shares.Fetch(c.Params("shareUrl"))
	if err != nil {
		return respondServiceError(c, err)
	}

	png, err := qrcode.Encode(h.fullURL(link.ShareURL), qrcode.Medium, 256)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, codeInternal, "Failed to render QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// SetHidden is the moderator override: hide a link outright, or unhide one
// after review found the reports unfounded.
func (h *SharingHandler) SetHidden(c *fiber.Ctx) error {
	var req dto.SetHiddenRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Invalid request body")
	}
	if req.Hidden && req.Reason == "" {
		return respond(c, fiber.StatusBadRequest, codeValidation, "Reason is required when hiding")
	}

	if err := h.shares.SetHidden(c.Params("shareUrl"), req.Hidden, req.Reason); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "hidden": req.Hidden})
}

// ListMine returns the requester's share links, newest first.
func (h *SharingHandler) ListMine(c *fiber.Ctx) error {
	ownerID, err := auth.GetUserID(c)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "", "Unauthorized")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	links, total, err := h.shares.ListByOwner(ownerID, page, limit)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, codeInternal, "Failed to fetch share links")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"shares": links,
			"pagination": dto.Pagination{
				Page:       page,
				Limit:      limit,
				Total:      total,
				TotalPages: (total + int64(limit) - 1) / int64(limit),
			},
		},
	})
}

// Analytics returns the owner's view of a link's counters and dimensions.
func (h *SharingHandler) Analytics(c *fiber.Ctx) error {
	ownerID, err := auth.GetUserID(c)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "", "Unauthorized")
	}

	link, err := h.shares.FetchOwned(c.Params("shareUrl"), ownerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"share_url":          link.ShareURL,
		"view_count":         link.ViewCount,
		"share_count":        link.ShareCount,
		"shares_by_platform": link.SharesByPlatform,
		"views_by_device":    link.ViewsByDevice,
		"views_by_country":   link.ViewsByCountry,
		"referrers":          link.Referrers,
		"first_access_at":    link.FirstAccessAt,
		"last_access_at":     link.LastAccessAt,
		"report_count":       link.ReportCount,
	})
}

func (h *SharingHandler) shareResponse(link *models.ShareLink) dto.CreateShareResponse {
	shortURL := ""
	if link.ShortURL != nil {
		shortURL = h.cfg.ShortBaseURL + "/" + *link.ShortURL
	}
	return dto.CreateShareResponse{
		ShareURL:            link.ShareURL,
		FullURL:             h.fullURL(link.ShareURL),
		ShortURL:            shortURL,
		QRCodeURL:           h.cfg.ShareBaseURL + "/qr/" + link.ShareURL,
		ExpiresAt:           link.ExpiresAt,
		IsPasswordProtected: link.PasswordHash != nil,
	}
}

func (h *SharingHandler) fullURL(shareURL string) string {
	return h.cfg.ShareBaseURL + "/" + shareURL
}
