package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sepagateway/internal/metrics"
)

type Metrics struct {
	svc *metrics.Service
}

func NewMetrics(svc *metrics.Service) *Metrics {
	return &Metrics{svc: svc}
}

func (h *Metrics) Handler(c *fiber.Ctx) error {
	return c.JSON(h.svc.Snapshot())
}
