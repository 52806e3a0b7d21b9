package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"
)

const pendingOrderKey = "order_awaiting_payment"

type SessionConfig struct {
	// Driver is "memory" or "redis".
	Driver     string
	Host       string
	Port       int
	Password   string
	Database   int
	Expiration time.Duration
}

// Sessions remembers, per browser, the order waiting for the customer to come
// back from the hosted signature pages.
type Sessions struct {
	store *session.Store
}

func NewSessions(cfg SessionConfig) *Sessions {
	scfg := session.Config{
		CookieHTTPOnly: true,
		Expiration:     cfg.Expiration,
		KeyLookup:      "cookie:sepagateway_session",
	}
	if cfg.Driver == "redis" {
		scfg.Storage = redis.New(redis.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Password: cfg.Password,
			Database: cfg.Database,
			Reset:    false,
		})
	}
	return &Sessions{store: session.New(scfg)}
}

func (s *Sessions) SetPendingOrder(c *fiber.Ctx, orderID string) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	sess.Set(pendingOrderKey, orderID)
	return sess.Save()
}

// PendingOrder is empty when the session expired or checkout never started.
func (s *Sessions) PendingOrder(c *fiber.Ctx) (string, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	v, _ := sess.Get(pendingOrderKey).(string)
	return v, nil
}
