package app

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	consumerhandlers "sepagateway/cmd/consumers/handlers"
	"sepagateway/internal/audit"
	"sepagateway/internal/correlation"
	"sepagateway/internal/events"
	"sepagateway/internal/health"
	"sepagateway/internal/mandate"
	"sepagateway/internal/notification"
	"sepagateway/internal/order"
	"sepagateway/internal/payment"
	"sepagateway/internal/readmodels"
	"sepagateway/internal/recovery"
	"sepagateway/kit/broker"
	"sepagateway/kit/config"
	"sepagateway/kit/db"
	"sepagateway/kit/hapi"
	"sepagateway/kit/observability"
)

// App holds the wired services shared by the web server and the CLI.
type App struct {
	Config     *config.Config
	Logger     *observability.Logger
	Metrics    *observability.Metrics
	Bus        *broker.Bus
	Meta       db.MetaStore
	Redis      *redis.Client
	Gorm       *gorm.DB
	Orders     *order.Service
	Gateway    hapi.Gateway
	Payment    *payment.Service
	Audit      *audit.Service
	Notifier   *notification.Service
	DeadLetter *recovery.Service
	Views      *readmodels.Projector
	Health     *health.Service
	GatewayErr error

	closers []func() error
}

// New opens every store and builds the payment service. gatewayErr on the
// returned App is non-nil when the SlimPay integration must stay disabled.
func New(cfg *config.Config, logger *observability.Logger) (*App, error) {
	a := &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Bus:        broker.New(),
		Notifier:   notification.NewService(logger),
		DeadLetter: recovery.NewService(logger),
		Views:      readmodels.NewProjector(),
		GatewayErr: cfg.GatewayErr(),
	}
	a.closers = append(a.closers, func() error { a.Bus.Close(); return nil })

	if err := a.openStores(); err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.AuditPath != "" {
		if err := a.replayAudit(); err != nil {
			_ = a.Close()
			return nil, err
		}
		auditSvc, err := audit.NewServiceWithFile(logger, cfg.AuditPath)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Audit = auditSvc
		a.closers = append(a.closers, auditSvc.Close)
	} else {
		a.Audit = audit.NewService(logger)
	}

	gw, err := hapi.NewHTTPGateway(hapi.ClientConfig{
		BaseURL:      a.paymentConfig().BaseURL(),
		ClientID:     cfg.SlimPayAppID,
		ClientSecret: cfg.SlimPayAppSecret,
		Timeout:      cfg.HTTPTimeout,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Join(config.ErrInvalidConfig, err)
	}
	a.Gateway = hapi.NewCircuitBreakerGateway(gw, hapi.CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      30 * time.Second,
	})

	orderRepo, err := order.NewGormRepository(a.Gorm)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	publisher := recovery.NewPublisher(a.Bus, a.DeadLetter)
	a.Orders = order.NewService(publisher, orderRepo)
	a.Payment = payment.NewService(
		a.paymentConfig(),
		a.Gateway,
		a.Orders,
		mandate.NewRepository(a.Meta),
		correlation.NewRepository(a.Meta),
		publisher,
		a.Metrics,
	)

	consumerhandlers.Register(
		a.Bus,
		consumerhandlers.NewAuditEvent(a.Audit),
		consumerhandlers.NewMetricsEvent(a.Metrics),
		consumerhandlers.NewNotificationEvent(a.Notifier),
	)

	for _, name := range events.Names() {
		a.Bus.Subscribe(name, a.Views.Apply)
	}

	checks := map[string]health.CheckFunc{"store": health.StoreCheck(a.Meta)}
	if a.GatewayErr != nil {
		checks["config"] = health.ConfigCheck(a.GatewayErr)
	} else {
		checks["gateway"] = health.GatewayCheck(a.Gateway)
	}
	a.Health = health.NewService(10*time.Second, checks)
	return a, nil
}

func (a *App) openStores() error {
	cfg := a.Config
	if cfg.UsesRedis() {
		a.Redis = db.NewRedisClient(cfg.CacheHost, cfg.CachePort, cfg.CachePassword, cfg.CacheDB)
		a.closers = append(a.closers, a.Redis.Close)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.GormDSN())
	if err != nil {
		return err
	}
	a.Gorm = gdb
	a.closers = append(a.closers, func() error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	meta, err := db.OpenMetaStore(db.MetaStoreOptions{
		Driver:   cfg.StoreDriver,
		BoltPath: cfg.BoltPath,
		Redis:    a.Redis,
		Gorm:     a.Gorm,
	})
	if err != nil {
		return err
	}
	a.Meta = meta
	if c, ok := meta.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}
	return nil
}

// replayAudit rebuilds the payment views from an existing audit trail.
func (a *App) replayAudit() error {
	f, err := os.Open(a.Config.AuditPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := a.Views.Replay(context.Background(), f); err != nil {
		log.Printf("layer=app component=readmodels method=replayAudit path=%s err=%v", a.Config.AuditPath, err)
		return err
	}
	return nil
}

func (a *App) paymentConfig() payment.Config {
	cfg := a.Config
	return payment.Config{
		Endpoint:          cfg.SlimPayEndpoint,
		ClientID:          cfg.SlimPayAppID,
		ClientSecret:      cfg.SlimPayAppSecret,
		CreditorReference: cfg.SlimPayCreditor,
		IsProduction:      cfg.SlimPayProduction,
		Currency:          cfg.ShopCurrency,
		DebitLabel:        cfg.DebitLabel,
		Description:       cfg.Description,
		DescriptionAlt:    cfg.DescriptionAlt,
		ConfirmationText:  cfg.ConfirmationText,
		PublicURL:         cfg.PublicURL,
		Disabled:          a.GatewayErr != nil,
	}
}

// Close releases stores in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("layer=app component=app method=Close err=%v", err)
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
