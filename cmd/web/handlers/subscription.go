package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"sepagateway/cmd/web/validator"
	"sepagateway/internal/order"
	"sepagateway/internal/payment"
)

type chargeRequest struct {
	OrderID string      `json:"order_id" validate:"required,max=64"`
	Amount  order.Money `json:"amount" validate:"gte=0"`
}

// Subscription serves the billing scheduler.
type Subscription struct {
	json     *validator.JSON
	payment  RecurringServiceContract
	disabled error
}

func NewSubscription(jsonV *validator.JSON, svc RecurringServiceContract, disabledErr error) *Subscription {
	return &Subscription{json: jsonV, payment: svc, disabled: disabledErr}
}

func (h *Subscription) Charge(c *fiber.Ctx) error {
	if h.disabled != nil {
		return disabled(c)
	}
	var req chargeRequest
	if err := h.json.Decode(c, &req); err != nil {
		log.Printf("layer=handler component=subscription method=Charge err=%v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"result": "failure", "message": err.Error()})
	}

	txID, err := h.payment.ChargeRecurring(c.UserContext(), req.OrderID, req.Amount)
	if err != nil {
		log.Printf("layer=handler component=subscription method=Charge order_id=%s amount=%s err=%v", req.OrderID, req.Amount, err)
		status := statusFor(err)
		body := fiber.Map{
			"result":    "failure",
			"message":   payment.Classify(err),
			"retryable": payment.Retryable(err),
		}
		if errors.Is(err, payment.ErrMandateInactive) {
			body["reason"] = "mandate_inactive"
		}
		return c.Status(status).JSON(body)
	}
	return c.JSON(fiber.Map{"result": "success", "order_id": req.OrderID, "transaction_id": txID})
}
