package health

import (
	"context"

	"sepagateway/kit/db"
	"sepagateway/kit/hapi"
)

func StoreCheck(store db.MetaStore) CheckFunc {
	return func(ctx context.Context) error {
		return store.Ping(ctx)
	}
}

// GatewayCheck authenticates and loads the API entry point.
func GatewayCheck(gw hapi.Gateway) CheckFunc {
	return func(ctx context.Context) error {
		_, err := gw.EntryPoint(ctx)
		return err
	}
}

// ConfigCheck reports a configuration problem that disabled the gateway.
func ConfigCheck(err error) CheckFunc {
	return func(context.Context) error {
		return err
	}
}
