package main

import (
	"fmt"
	"os"

	"sepagateway/internal/app"
	"sepagateway/kit/config"
	"sepagateway/kit/observability"
)

var Version = "dev"

func main() {
	var opts config.LoadOptions
	open := func() (*app.App, error) {
		cfg, err := config.Load(opts)
		if err != nil {
			return nil, err
		}
		return app.New(cfg, observability.NewLoggerTo(os.Stderr))
	}

	root := newRootCmd(open)
	root.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")
	root.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "dotenv files to load")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
