package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// PaymentView serves the projected payment progress built from lifecycle events.
type PaymentView struct {
	views PaymentViewContract
}

func NewPaymentView(views PaymentViewContract) *PaymentView {
	return &PaymentView{views: views}
}

func (h *PaymentView) Order(c *fiber.Ctx) error {
	v, ok := h.views.GetPayment(c.Params("orderID"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"result": "failure", "message": "no payment activity for this order"})
	}
	return c.JSON(v)
}

func (h *PaymentView) Subscriber(c *fiber.Ctx) error {
	v, ok := h.views.GetSubscriber(c.Params("reference"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"result": "failure", "message": "no mandate recorded for this subscriber"})
	}
	return c.JSON(v)
}
