package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/orbis-25/orbis-projects-backend/config"
	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/bootstrap"
	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/events"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/storage/postgres"
)

const serviceName = "orbis-projects"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.App.Environment, cfg.App.LogLevel, os.Stdout)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logrus.Fatalf("database: %v", err)
	}
	defer db.Close()

	poolDSN := cfg.Database.PoolDSN
	if poolDSN == "" {
		poolDSN = postgres.DSN(&cfg.Database)
	}
	pool, err := bootstrap.OpenPool(ctx, bootstrap.DBOptions{DSN: poolDSN, MaxConns: 10, MinConns: 2})
	if err != nil {
		logrus.Fatalf("database pool: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logrus.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	module := projects.New(projects.Deps{
		DB:              db,
		Redis:           rdb,
		Nonces:          auth.NewNonces([]byte(cfg.App.NonceSecret), cfg.App.NonceTTL),
		Locale:          form.Locale{DecimalPoint: cfg.Locale.DecimalPoint, ThousandsSep: cfg.Locale.ThousandsSep},
		PermalinkFormat: cfg.App.PermalinkFormat,
		Observers:       []events.Observer{events.LogObserver()},
	})

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Pool:           pool,
		Redis:          rdb,
		Identities:     auth.NewIdentities([]byte(cfg.App.IdentitySecret), cfg.App.IdentityTTL),
		Projects:       module,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
}
