package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"sepagateway/cmd/web/validator"
	"sepagateway/internal/order"
)

// Order exposes the shop-side order records the payment flow works on.
type Order struct {
	json   *validator.JSON
	orders OrderServiceContract
}

func NewOrder(jsonV *validator.JSON, orders OrderServiceContract) *Order {
	return &Order{json: jsonV, orders: orders}
}

func (h *Order) Create(c *fiber.Ctx) error {
	var req order.CreateRequest
	if err := h.json.Decode(c, &req); err != nil {
		log.Printf("layer=handler component=order method=Create err=%v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"result": "failure", "message": err.Error()})
	}
	o, err := h.orders.Create(c.UserContext(), req)
	if err != nil {
		log.Printf("layer=handler component=order method=Create order_id=%s err=%v", req.ID, err)
		return failure(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *Order) Get(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	o, err := h.orders.Get(c.UserContext(), orderID)
	if err != nil {
		log.Printf("layer=handler component=order method=Get order_id=%s err=%v", orderID, err)
		return failure(c, err)
	}
	return c.JSON(o)
}
