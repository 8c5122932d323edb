package main

import (
	"context"
	"database/sql"
	"errors"
	"fleet-charging-service/internal/adapters/cache"
	"fleet-charging-service/internal/adapters/events"
	"fleet-charging-service/internal/adapters/repositories"
	"fleet-charging-service/internal/api"
	"fleet-charging-service/internal/config"
	"fleet-charging-service/internal/platform/db"
	"fleet-charging-service/internal/platform/metrics"
	"fleet-charging-service/internal/platform/obs"
	"fleet-charging-service/internal/ports"
	"fleet-charging-service/internal/services"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const routeCacheTTL = 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, Kafka) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := obs.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	metrics.RegisterDefault()

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	conn, err := db.OpenDriver(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on the first start only.
	if err := initAndSeed(conn, dialect, cfg.SeedPath); err != nil {
		return err
	}

	routeCache, closeCache, err := newRouteCache(cfg, conn, dialect)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	repo := repositories.NewSQLFleetRepository(conn, dialect)
	svc := services.NewChargingService(repo, routeCache, publisher)
	router := api.NewRouter(api.Deps{
		Service:       svc,
		Repo:          repo,
		DefaultOrigin: cfg.OriginID,
		RunLimiter:    rate.NewLimiter(rate.Limit(cfg.RunsPerSecond), cfg.RunsBurst),
	})

	// The exact tour search is exponential in the district count; the write timeout
	// leaves room for a cold solve.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":   srv.Addr,
			"driver": cfg.DBDriver,
			"cache":  cfg.RouteCacheKind,
		}).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initAndSeed(conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	seeded, err := repositories.SeedFromJSONIfEmpty(conn, dialect, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logrus.WithFields(logrus.Fields{"seed": seedPath, "applied": seeded}).Info("fleet seed checked")

	return nil
}

func noop() {}

func newRouteCache(cfg config.Config, conn *sql.DB, dialect repositories.Dialect) (ports.RouteCache, func(), error) {
	switch cfg.RouteCacheKind {
	case "redis":
		c, err := cache.NewRedisRouteCache(cfg.RedisURL, routeCacheTTL)
		if err != nil {
			return nil, noop, err
		}
		return c, closeLogged("route cache", c), nil
	case "sql":
		return cache.NewSQLRouteCache(conn, dialect), noop, nil
	}
	return nil, noop, nil
}

// newPublisher publishes to Kafka when brokers are configured, otherwise to the log.
func newPublisher(cfg config.Config) (ports.RunPublisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewLogPublisher(), noop, nil
	}

	p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, noop, err
	}
	return p, closeLogged("kafka publisher", p), nil
}

func closeLogged(name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logrus.WithError(err).Warnf("close %s", name)
		}
	}
}
