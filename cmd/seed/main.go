// Command seed resets the store to two administrative accounts and a set of
// sample hostels.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/config"
	"github.com/Anittaa1111/Hostel-Management/internal/db"
	"github.com/Anittaa1111/Hostel-Management/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := db.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("db error", zap.Error(err))
	}
	defer func() { _ = store.Close(context.Background()) }()

	res, err := seed(ctx, store, time.Now)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.Int("users", res.Users),
		zap.Int("hostels", res.Hostels),
		zap.String("central_authority", adminEmail),
		zap.String("hostel_authority", ownerEmail),
	)
}
