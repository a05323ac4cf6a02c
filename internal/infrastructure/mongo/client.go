package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/personalmgr/backend/internal/config"
)

// Connect creates the shared Mongo client and verifies the connection with a
// ping. The client is created once per process and closed at shutdown.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*mongo.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	selectionTimeout := cfg.SelectionTimeout
	if selectionTimeout <= 0 {
		selectionTimeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URL()).
		SetServerSelectionTimeout(selectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, selectionTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("connected to mongodb", zap.String("host", cfg.Host), zap.String("db", cfg.Database))
	return client, nil
}
