// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers, closes the broker connection and
// disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc := deps.Services; svc != nil {
		if svc.sweeper != nil {
			svc.sweeper.Stop()
		}
		if svc.LoginLimiter != nil {
			svc.LoginLimiter.Stop()
		}
		if svc.OTP != nil {
			svc.OTP.Close()
		}
		if svc.amqp != nil {
			if err := svc.amqp.Close(); err != nil {
				logger.Warn("amqp close failed", zap.Error(err))
			}
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
