package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/yshebel/customerhub/internal/config"
	"github.com/yshebel/customerhub/internal/infra"
	"github.com/yshebel/customerhub/internal/mirror"
	"github.com/yshebel/customerhub/internal/repository"
	"github.com/yshebel/customerhub/internal/service"
	"github.com/yshebel/customerhub/pkg/db/transactor"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultShutdownTimeout = 10 * time.Second
const defaultConnectTimeout = 5 * time.Second

func main() {
	logger := logrus.New()

	cfg, err := config.Build()
	if err != nil {
		logger.Fatalf("failed to build config - %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	var (
		pgPool  *pgxpool.Pool
		mongoDB *mongo.Database
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pgPool, err = infra.Postgresql(ctx, cfg.PostgresCfg)
		if err != nil {
			logger.Fatalf("postgres is not reachable - %s", err)
		}
		defer pgPool.Close()
	case config.DriverMongo:
		mongoDB, err = infra.Mongodb(ctx, cfg.MongoCfg)
		if err != nil {
			logger.Fatalf("mongodb is not reachable - %s", err)
		}
		defer func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				logger.Errorf("failed to disconnect from mongodb - %s", err)
			}
		}()
	}

	// mirror is best-effort, absent credentials or unreachable store
	// must not prevent the primary service from starting
	var redisClient *redis.Client
	if cfg.MirrorCfg.Enabled() {
		redisClient, err = infra.Redis(ctx, cfg.MirrorCfg)
		if err != nil {
			logger.Warnf("secondary store is not reachable, mirroring is disabled - %s", err)
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Errorf("failed to close redis client - %s", err)
				}
			}()
		}
	} else {
		logger.Info("secondary store credentials are not provided, mirroring is disabled")
	}

	if err := bootstrapAdmin(ctx, cfg, pgPool, mongoDB, logger); err != nil {
		logger.Fatalf("failed to bootstrap default admin - %s", err)
	}

	app, err := infra.Router(cfg, pgPool, mongoDB, redisClient, logger)
	if err != nil {
		logger.Fatalf("failed to build application - %s", err)
	}

	start(app, cfg.Port, logger)
}

// bootstrapAdmin ensures default admin user exists when bootstrap
// credentials are provided via environment
func bootstrapAdmin(ctx context.Context, cfg config.Config, pgPool *pgxpool.Pool, mongoDB *mongo.Database, logger *logrus.Logger) error {
	if cfg.AdminCfg.Email == "" {
		return nil
	}

	var (
		userRps repository.UserRepository
		trx     transactor.Transactor
	)
	if cfg.StorageDriver == config.DriverPostgres {
		pgTrx := transactor.NewPgxTransactor(pgPool)
		trx = pgTrx
		userRps = repository.NewPostgresUserRepository(pgTrx)
	} else {
		trx = transactor.NewPassthrough()
		userRps = repository.NewMongoUserRepository(mongoDB)
	}

	userSvc := service.NewUserService(trx, userRps, mirror.NewDisabled())
	if err := userSvc.EnsureAdmin(ctx, cfg.AdminCfg.Email, cfg.AdminCfg.Password, cfg.AdminCfg.Username); err != nil {
		return err
	}

	logger.Infof("default admin user %s is present", cfg.AdminCfg.Email)
	return nil
}

func start(app *echo.Echo, port int, logger *logrus.Logger) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		logger.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logger.Fatalf("failed to stop server gracefully - %s", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("shutting down the server, unexpected error occurred - %s", err)
		}
	}
}
