package main

import (
	"context"
	"os"

	_ "github.com/lib/pq"

	"github.com/certiblock/verifier-node/internal/config"
	"github.com/certiblock/verifier-node/internal/db/schema"
	"github.com/certiblock/verifier-node/internal/log"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Error(context.Background(), "cannot load config", "err", err)
		os.Exit(1)
	}

	ctx := log.NewContext(context.Background(), cfg.Log.Level, cfg.Log.Mode, os.Stdout)
	log.Debug(ctx, "database", "url", cfg.Database.URL)

	if err := schema.Migrate(cfg.Database.URL); err != nil {
		log.Error(ctx, "error migrating database", "err", err)
		os.Exit(1)
	}

	log.Info(ctx, "migration done!")
}
