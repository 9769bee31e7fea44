package main

import (
	"fmt"
	"os"

	"securecheck/catalog"
	"securecheck/config"
	"securecheck/logging"
	"securecheck/services"

	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(openDashboard).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openDashboard() (*services.Dashboard, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return dashboardFor(cfg)
}

// dashboardFor builds an uncached dashboard over the configured record
// store. An unreachable store is not an error; reads come back empty.
func dashboardFor(cfg *config.Config) (*services.Dashboard, func(), error) {
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := services.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	store := services.NewRecordStore(db, log)
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		_ = log.Sync()
	}
	return services.NewDashboard(store, cat, nil, 0, log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))), closeFn, nil
}
