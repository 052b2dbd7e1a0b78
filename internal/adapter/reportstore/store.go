// Package reportstore implements domain.ReportStore on SQLite, PostgreSQL,
// DynamoDB, and process memory.
package reportstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/soundscape-telemetry/internal/config"
	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

// Open returns the store selected by REPORT_STORE.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.ReportStore, error) {
	var (
		store domain.ReportStore
		err   error
	)
	switch cfg.ReportStore {
	case config.StoreMemory:
		store = NewMemoryStore()
	case config.StoreSQLite:
		store, err = OpenSQLite(ctx, cfg.SQLitePath)
	case config.StorePostgres:
		store, err = OpenPostgres(ctx, cfg.PostgresDSN)
	case config.StoreDynamoDB:
		store, err = OpenDynamoDB(ctx, cfg.DynamoDBTable)
	default:
		return nil, fmt.Errorf("unknown report store %q", cfg.ReportStore)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("report store opened", "backend", cfg.ReportStore)
	return store, nil
}
