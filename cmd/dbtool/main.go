package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fleet-charging-service/internal/adapters/distance"
	"fleet-charging-service/internal/adapters/repositories"
	"fleet-charging-service/internal/config"
	"fleet-charging-service/internal/platform/db"
	"fleet-charging-service/internal/platform/obs"
	"fleet-charging-service/internal/services"
	"time"

	"github.com/sirupsen/logrus"
)

// dbtool initializes the schema, loads a fleet seed and can rebuild the edge list
// from OpenRouteService road distances.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	seedPath := flag.String("seed", cfg.SeedPath, "path to the fleet seed JSON (resets vehicles and edges)")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding")
	deriveEdges := flag.Bool("derive-edges", false, "replace edges with ORS road distances between districts")
	flag.Parse()

	if err := obs.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("setup logger")
	}

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		logrus.WithError(err).Fatal("parse driver")
	}

	conn, err := db.OpenDriver(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("open database")
	}
	defer conn.Close()

	if err := initAndSeed(conn, dialect, *seedPath, *schemaOnly); err != nil {
		logrus.WithError(err).Fatal("dbtool failed")
	}

	if *deriveEdges {
		if err := refreshEdges(cfg, conn, dialect); err != nil {
			logrus.WithError(err).Fatal("derive edges failed")
		}
	}
}

func initAndSeed(conn *sql.DB, dialect repositories.Dialect, seedPath string, schemaOnly bool) error {
	logrus.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	logrus.Info("Schema ready.")

	if schemaOnly {
		return nil
	}

	logrus.WithField("seed", seedPath).Info("Seeding database...")
	if err := repositories.SeedFromJSON(conn, dialect, seedPath); err != nil {
		return err
	}
	logrus.Info("Seeding complete.")

	return nil
}

func refreshEdges(cfg config.Config, conn *sql.DB, dialect repositories.Dialect) error {
	if cfg.ORSAPIKey == "" {
		return errors.New("ORS_API_KEY is required for -derive-edges")
	}

	opts := []distance.Option{}
	if cfg.ORSBaseURL != "" {
		opts = append(opts, distance.WithBaseURL(cfg.ORSBaseURL))
	}
	if cfg.ORSCountry != "" {
		opts = append(opts, distance.WithCountry(cfg.ORSCountry))
	}

	src, err := distance.NewORSEdgeSource(cfg.ORSAPIKey, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logrus.Info("Deriving edges from OpenRouteService...")
	repo := repositories.NewSQLFleetRepository(conn, dialect)
	edges, err := services.RefreshEdges(ctx, repo, src)
	if err != nil {
		return err
	}
	logrus.WithField("edges", len(edges)).Info("Edges replaced.")

	return nil
}
