package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"sepagateway/cmd/web/handlers"
	"sepagateway/cmd/web/validator"
	"sepagateway/internal/app"
	"sepagateway/internal/metrics"
	"sepagateway/kit/config"
	"sepagateway/kit/observability"
)

func main() {
	log := observability.NewLogger()
	cfg, err := config.Load(config.DefaultLoadOptions())
	if err != nil {
		log.Error("config error", "error", err.Error())
		return
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("init error", "error", err.Error())
		return
	}
	defer func() { _ = a.Close() }()
	if a.GatewayErr != nil {
		log.Error("slimpay gateway disabled", "error", a.GatewayErr.Error())
	}

	cachePort, _ := strconv.Atoi(cfg.CachePort)
	sessions := handlers.NewSessions(handlers.SessionConfig{
		Driver:     cfg.SessionStore,
		Host:       cfg.CacheHost,
		Port:       cachePort,
		Password:   cfg.CachePassword,
		Database:   cfg.CacheDB + 1,
		Expiration: time.Hour,
	})
	jsonV := validator.NewJSON()

	checkoutH := handlers.NewCheckout(a.Payment, sessions, a.GatewayErr, cfg.PublicURL+"/checkout")
	subscriptionH := handlers.NewSubscription(jsonV, a.Payment, a.GatewayErr)
	orderH := handlers.NewOrder(jsonV, a.Orders)
	healthH := handlers.NewHealth(a.Health)
	metricsH := handlers.NewMetrics(metrics.NewService(a.Metrics))
	viewH := handlers.NewPaymentView(a.Views)

	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for range t.C {
			snap := metrics.NewService(a.Metrics).Snapshot()
			log.Info(
				"metrics snapshot",
				"signatures_started", snap["signatures_started"],
				"mandates_stored", snap["mandates_stored"],
				"direct_debits_created", snap["direct_debits_created"],
				"recurring_failures", snap["recurring_failures"],
			)
		}
	}()

	srv := fiber.New(fiber.Config{ReadTimeout: 10 * time.Second, WriteTimeout: cfg.HTTPTimeout + 5*time.Second})
	srv.Use(recover.New(), logger.New())

	srv.Get("/healthz", healthH.Handler)
	srv.Get("/metrics", metricsH.Handler)
	srv.Get("/monitor", monitor.New())

	srv.Post("/orders", orderH.Create)
	srv.Get("/orders/:orderID", orderH.Get)
	srv.Get("/orders/:orderID/confirmation", checkoutH.Confirmation)
	srv.Get("/orders/:orderID/payment", viewH.Order)
	srv.Get("/subscribers/:reference/mandate", viewH.Subscriber)
	srv.Get("/customers/:customerID/payment-method", checkoutH.PaymentMethod)
	srv.Post("/checkout/:orderID", checkoutH.Start)
	srv.Get("/slimpay/return", checkoutH.Return)

	if cfg.SchedulerAuth() {
		srv.Post("/subscriptions/charge", basicauth.New(basicauth.Config{
			Users: map[string]string{cfg.SchedulerUser: cfg.SchedulerPassword},
		}), subscriptionH.Charge)
	} else {
		log.Error("scheduler credentials missing, recurring charge endpoint disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = srv.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info("web server started", "addr", cfg.Addr(), "slimpay_enabled", a.GatewayErr == nil)
	if err := srv.Listen(cfg.Addr()); err != nil {
		log.Error("web server error", "error", err.Error())
	}
	log.Info("web server stopped")
}
