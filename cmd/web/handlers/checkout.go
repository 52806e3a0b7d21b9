package handlers

import (
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/gofiber/fiber/v2"

	"sepagateway/internal/payment"
)

const (
	NoPendingOrderMessage  = "No order using SlimPay as payment method was found. If you did make an order, your session may have timed out."
	SignatureFailedMessage = "The mandate signature was not completed."
)

type Checkout struct {
	payment     CheckoutServiceContract
	sessions    SessionContract
	disabled    error
	checkoutURL string
}

// NewCheckout builds the customer-facing handlers. A non-nil disabledErr turns
// every payment trigger into a "not available" answer.
func NewCheckout(svc CheckoutServiceContract, sessions SessionContract, disabledErr error, checkoutURL string) *Checkout {
	return &Checkout{payment: svc, sessions: sessions, disabled: disabledErr, checkoutURL: checkoutURL}
}

// Start is the place-order trigger: it either charges an active mandate or
// answers with the hosted signature page to send the customer to.
func (h *Checkout) Start(c *fiber.Ctx) error {
	if h.disabled != nil {
		return disabled(c)
	}
	orderID := c.Params("orderID")

	res, err := h.payment.Checkout(c.UserContext(), orderID)
	if err != nil {
		log.Printf("layer=handler component=checkout method=Start order_id=%s err=%v", orderID, err)
		return failure(c, err)
	}
	if err := h.sessions.SetPendingOrder(c, orderID); err != nil {
		log.Printf("layer=handler component=checkout method=Start order_id=%s err=%v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"result": "failure", "message": payment.GenericFailureMessage})
	}
	return c.JSON(res)
}

// Return is where the hosted pages send the customer back.
func (h *Checkout) Return(c *fiber.Ctx) error {
	if h.disabled != nil {
		return h.page(c, fiber.StatusServiceUnavailable, gatewayDisabledMessage, false)
	}
	orderID, err := h.sessions.PendingOrder(c)
	if err != nil {
		log.Printf("layer=handler component=checkout method=Return err=%v", err)
	}

	res, err := h.payment.ResumeFromCallback(c.UserContext(), orderID)
	if err != nil {
		log.Printf("layer=handler component=checkout method=Return order_id=%s err=%v", orderID, err)
		switch {
		case errors.Is(err, payment.ErrNoPendingOrder):
			return h.page(c, fiber.StatusOK, NoPendingOrderMessage, false)
		case errors.Is(err, payment.ErrSignatureFailed):
			return h.page(c, fiber.StatusOK, SignatureFailedMessage, true)
		default:
			return h.page(c, statusFor(err), payment.Classify(err), true)
		}
	}
	return c.Redirect(res.Redirect, fiber.StatusSeeOther)
}

func (h *Checkout) page(c *fiber.Ctx, status int, message string, retry bool) error {
	body := "<p>" + html.EscapeString(message) + "</p>"
	if retry && h.checkoutURL != "" {
		body += fmt.Sprintf(`<p><a href="%s">Back to checkout</a></p>`, html.EscapeString(h.checkoutURL))
	}
	c.Type("html", "utf-8")
	return c.Status(status).SendString(body)
}

func (h *Checkout) Confirmation(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	text, err := h.payment.Confirmation(c.UserContext(), orderID)
	if err != nil {
		log.Printf("layer=handler component=checkout method=Confirmation order_id=%s err=%v", orderID, err)
		return failure(c, err)
	}
	return c.JSON(fiber.Map{"order_id": orderID, "text": text})
}

// PaymentMethod returns the checkout description for a customer, mentioning
// their active mandate when they have one.
func (h *Checkout) PaymentMethod(c *fiber.Ctx) error {
	customerID := c.Params("customerID")
	text, err := h.payment.Description(c.UserContext(), customerID)
	if err != nil {
		log.Printf("layer=handler component=checkout method=PaymentMethod customer_id=%s err=%v", customerID, err)
		return failure(c, err)
	}
	return c.JSON(fiber.Map{"id": "slimpay", "enabled": h.disabled == nil, "description": text})
}
