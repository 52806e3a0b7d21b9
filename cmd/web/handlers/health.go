package handlers

import "github.com/gofiber/fiber/v2"

type Health struct {
	svc HealthContract
}

func NewHealth(svc HealthContract) *Health { return &Health{svc: svc} }

func (h *Health) Handler(c *fiber.Ctx) error {
	res := h.svc.Check(c.UserContext())
	if !res.OK {
		return c.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return c.JSON(res)
}
