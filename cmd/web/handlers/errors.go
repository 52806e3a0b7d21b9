package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sepagateway/internal/order"
	"sepagateway/internal/payment"
	"sepagateway/kit/db"
	"sepagateway/kit/hapi"
)

const gatewayDisabledMessage = "Direct debit payments are not available at the moment."

func statusFor(err error) int {
	switch {
	case errors.Is(err, payment.ErrMandateInactive), errors.Is(err, payment.ErrAlreadyPaid):
		return fiber.StatusConflict
	case db.IsNotFound(err):
		return fiber.StatusNotFound
	case db.IsInvalid(err), errors.Is(err, order.ErrInvalidAmount), errors.Is(err, order.ErrInvalidOrder):
		return fiber.StatusUnprocessableEntity
	case db.IsUnavailable(err), errors.Is(err, hapi.ErrCircuitOpen):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

func failure(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"result":    "failure",
		"message":   payment.Classify(err),
		"retryable": payment.Retryable(err),
	})
}

func disabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"result":  "failure",
		"message": gatewayDisabledMessage,
	})
}
