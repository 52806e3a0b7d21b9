package app

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sepagateway/internal/correlation"
	"sepagateway/internal/mandate"
	"sepagateway/internal/order"
	"sepagateway/internal/payment"
	"sepagateway/internal/readmodels"
	"sepagateway/kit/config"
	"sepagateway/kit/db"
	"sepagateway/kit/observability"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		PublicURL:           "https://shop.example",
		ShopCurrency:        "EUR",
		SupportedCurrencies: []string{"EUR"},
		StoreDriver:         "bolt",
		BoltPath:            filepath.Join(dir, "meta.db"),
		DBDriver:            "sqlite",
		DBDSN:               filepath.Join(dir, "orders.sqlite"),
		SessionStore:        "memory",
		AuditPath:           filepath.Join(dir, "audit", "audit.jsonl"),
	}
}

func TestNew_DisabledWithoutCredentials(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	a, err := New(cfg, observability.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.ErrorIs(t, a.GatewayErr, config.ErrGatewayDisabled)
	res := a.Health.Check(context.Background())
	require.False(t, res.OK)
	require.Contains(t, res.Checks, "config")
	require.Equal(t, "ok", res.Checks["store"])

	text, err := a.Payment.Description(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, payment.DefaultDescription, text)
}

func TestNew_OrderEventsReachAudit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.SlimPayAppID, cfg.SlimPayAppSecret, cfg.SlimPayCreditor = "app", "secret", "shop"

	a, err := New(cfg, observability.NewLogger())
	require.NoError(t, err)
	require.NoError(t, a.GatewayErr)

	_, err = a.Orders.Create(ctx, order.CreateRequest{ID: "12", Currency: "EUR", Total: 5000})
	require.NoError(t, err)
	_, err = a.Orders.MarkPaid(ctx, "12", "dd-1")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	f, err := os.Open(cfg.AuditPath)
	require.NoError(t, err)
	defer f.Close()
	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines++
	}
	require.Equal(t, 1, lines)

	reopened, err := New(cfg, observability.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	view, ok := reopened.Views.GetPayment("12")
	require.True(t, ok)
	require.Equal(t, readmodels.StagePaid, view.Stage)
	require.Equal(t, "dd-1", view.DirectDebitID)
}

func TestNew_UnsupportedStore(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.StoreDriver = "cassandra"

	_, err := New(cfg, observability.NewLogger())
	require.ErrorIs(t, err, db.ErrInvalid)
}

func TestNew_GormStoreIsSharedBetweenProcesses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.StoreDriver = "gorm"

	server, err := New(cfg, observability.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	require.NoError(t, mandate.NewRepository(server.Meta).Put(ctx, mandate.Registered("42"), "R1"))
	require.NoError(t, correlation.NewRepository(server.Meta).Put(ctx, "12", "order_12_n1"))

	cli, err := New(cfg, observability.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })

	rum, err := mandate.NewRepository(cli.Meta).Get(ctx, mandate.Registered("42"))
	require.NoError(t, err)
	require.Equal(t, "R1", rum)
	ref, err := correlation.NewRepository(cli.Meta).Get(ctx, "12")
	require.NoError(t, err)
	require.Equal(t, "order_12_n1", ref)
}
