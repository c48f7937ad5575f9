// Package db opens the configured storage backend.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Anittaa1111/Hostel-Management/internal/config"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
)

const connectTimeout = 10 * time.Second

func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

func OpenMongo(ctx context.Context, uri string, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	database := client.Database(dbName)
	if err := repository.EnsureMongoIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, database, nil
}

// OpenStore connects to the backend named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg config.Config) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, database, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return repository.NewMongoStore(client, database), nil
	case config.StoreMySQL:
		database, err := Open(cfg.DbDsn)
		if err != nil {
			return nil, err
		}
		return repository.NewGormStore(database), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
