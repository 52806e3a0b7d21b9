package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sepagateway/kit/db"
	"sepagateway/kit/hapi"
)

func TestChecks(t *testing.T) {
	t.Parallel()

	down := hapi.NewFake()
	down.FailEntryPoint(errors.New("connection refused"))

	svc := NewService(0, map[string]CheckFunc{
		"store":   StoreCheck(db.NewInMemoryMetaStore()),
		"gateway": GatewayCheck(hapi.NewFake()),
		"config":  ConfigCheck(nil),
	})
	res := svc.Check(context.Background())
	require.True(t, res.OK)
	require.Equal(t, map[string]string{"store": "ok", "gateway": "ok", "config": "ok"}, res.Checks)

	svc = NewService(time.Minute, map[string]CheckFunc{
		"gateway": GatewayCheck(down),
		"config":  ConfigCheck(errors.New("missing credentials")),
	})
	res = svc.Check(context.Background())
	require.False(t, res.OK)
	require.Equal(t, "connection refused", res.Checks["gateway"])
	require.Equal(t, "missing credentials", res.Checks["config"])
}
