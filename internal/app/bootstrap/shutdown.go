// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the change-stream watchers and tears down DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if runningWorkers.contractorWatch != nil {
		runningWorkers.contractorWatch.Stop()
	}
	if runningWorkers.providerWatch != nil {
		runningWorkers.providerWatch.Stop()
	}

	if deps.FixItMongoClient != nil {
		logger.Info("disconnecting FixIt MongoDB client")
		if err := deps.FixItMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
