package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/candidate-ranker/internal/services"
)

const KindValidation = "validation"

func respondError(c *fiber.Ctx, status int, kind, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"kind":  kind,
		"code":  status,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return respondError(c, fiber.StatusBadRequest, KindValidation, msg)
}

// respondServiceError renders a pipeline error with the status its kind maps to.
func respondServiceError(c *fiber.Ctx, err error) error {
	kind := services.ErrorKind(err)
	return respondError(c, StatusForKind(kind), kind, err.Error())
}

func StatusForKind(kind string) int {
	switch kind {
	case services.KindMalformedModelOutput, services.KindFetch:
		return fiber.StatusBadGateway
	case services.KindModelInvocation:
		return fiber.StatusServiceUnavailable
	case services.KindTimeout:
		return fiber.StatusGatewayTimeout
	case services.KindUnsupportedFormat, KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders errors that escape a handler, such as unknown routes
// or oversized bodies, in the same shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	kind := services.KindInternal

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			kind = KindValidation
		}
	}

	return respondError(c, code, kind, err.Error())
}
