package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"usergraph/internal/middleware"
	"usergraph/internal/models"
	"usergraph/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const requestTimeout = 5 * time.Second

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// respondError writes err with the status its code maps to. Unclassified
// failures are logged here and answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return c.Status(fiber.StatusGatewayTimeout).JSON(models.ErrorResponse{Error: "Request timeout"})
	}

	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, err)
}

// bindAndValidate parses the JSON body into dst and validates it.
// On failure it writes a 400 response and returns errResponseWritten.
func bindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidArgumentError("Invalid request body"))
		return errResponseWritten
	}
	if err := validation.Struct(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return errResponseWritten
	}
	return nil
}
