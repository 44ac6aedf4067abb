package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/services"
)

// Machine-readable error codes carried alongside HTTP statuses.
const (
	codeNotFound          = "NOT_FOUND"
	codeExpired           = "EXPIRED"
	codeHidden            = "HIDDEN"
	codeInactive          = "INACTIVE"
	codePasswordRequired  = "PASSWORD_REQUIRED"
	codePasswordIncorrect = "PASSWORD_INCORRECT"
	codeValidation        = "VALIDATION_ERROR"
	codeInvalidTransition = "INVALID_TRANSITION"
	codeInternal          = "INTERNAL_ERROR"
)

// respondServiceError maps the service error taxonomy onto HTTP. Expired
// reads as 404 to the caller; the distinct code keeps it separable in logs
// and clients.
func respondServiceError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return respond(c, fiber.StatusBadRequest, codeValidation, vErr.Error())
	}

	var tErr *services.InvalidTransitionError
	if errors.As(err, &tErr) {
		return respond(c, fiber.StatusBadRequest, codeInvalidTransition, tErr.Error())
	}

	switch {
	case errors.Is(err, services.ErrShareNotFound),
		errors.Is(err, services.ErrScenarioNotFound),
		errors.Is(err, services.ErrReportNotFound):
		return respond(c, fiber.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, services.ErrShareExpired):
		return respond(c, fiber.StatusNotFound, codeExpired, "share link not found")
	case errors.Is(err, services.ErrShareHidden):
		return respond(c, fiber.StatusForbidden, codeHidden, "share link is not available")
	case errors.Is(err, services.ErrShareInactive):
		return respond(c, fiber.StatusForbidden, codeInactive, "share link is not available")
	case errors.Is(err, services.ErrPasswordRequired):
		return respond(c, fiber.StatusUnauthorized, codePasswordRequired, "password required")
	case errors.Is(err, services.ErrPasswordIncorrect):
		return respond(c, fiber.StatusUnauthorized, codePasswordIncorrect, "password incorrect")
	}

	return respond(c, fiber.StatusInternalServerError, codeInternal, "Internal server error")
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Code: code, Message: message})
}
