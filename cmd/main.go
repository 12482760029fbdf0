// Command tennis-history serves the tennis statistics API and runs its
// maintenance jobs.
//
// Usage:
//
//	tennis-history serve
//	tennis-history migrate up
//	tennis-history points <event-id>
//	tennis-history integrity --publish
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dosada05/tennis-history/config"
	"github.com/Dosada05/tennis-history/db"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/services"
	"github.com/Dosada05/tennis-history/storage"
)

func main() {
	root := &cobra.Command{
		Use:           "tennis-history",
		Short:         "Tennis history statistics API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(pointsCmd())
	root.AddCommand(integrityCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// app собирает зависимости, общие для HTTP-сервера и команд CLI.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB

	playerRepo    repositories.PlayerRepository
	countryRepo   repositories.CountryRepository
	eventRepo     repositories.EventRepository
	entryRepo     repositories.EntryRepository
	integrityRepo repositories.IntegrityRepository
	reports       *storage.ReportStore
}

func newApp(ctx context.Context, requireJWT bool) (*app, error) {
	cfg, err := config.Load(requireJWT)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("database connection established")

	a := &app{
		cfg:           cfg,
		logger:        logger,
		db:            dbConn,
		playerRepo:    repositories.NewPostgresPlayerRepository(dbConn),
		countryRepo:   repositories.NewPostgresCountryRepository(dbConn),
		eventRepo:     repositories.NewPostgresEventRepository(dbConn),
		entryRepo:     repositories.NewPostgresEntryRepository(dbConn),
		integrityRepo: repositories.NewPostgresIntegrityRepository(dbConn),
	}

	// Хранилище отчётов необязательно: без него Publish отвечает 503
	if cfg.Storage.Enabled() {
		uploader, err := storage.NewR2Uploader(ctx, storage.R2Config{
			AccountID:       cfg.Storage.AccountID,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			BucketName:      cfg.Storage.Bucket,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize report storage: %w", err)
		}
		a.reports = storage.NewReportStore(uploader)
		logger.Info("report storage initialized", slog.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Info("report storage disabled")
	}

	return a, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database connection", slog.Any("error", err))
	} else {
		a.logger.Info("database connection closed")
	}
}

func (a *app) integrityService() services.IntegrityService {
	return services.NewIntegrityService(a.integrityRepo, a.playerRepo, a.reports, a.logger)
}

func (a *app) pointsService() services.PointsService {
	return services.NewPointsService(a.db, a.eventRepo, a.entryRepo, a.logger)
}

// withApp запускает команду с отменой по SIGINT/SIGTERM.
func withApp(requireJWT bool, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, requireJWT)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(true, serve)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the embedded schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(db.Up), string(db.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(false)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := newLogger(cfg.LogLevel)

			dir := db.Direction(args[0])
			if err := db.Migrate(cfg.DatabaseURL, dir); err != nil {
				return err
			}
			logger.Info("migrations applied", slog.String("direction", string(dir)))
			return nil
		},
	}
}

func pointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "points <event-id>",
		Short: "Recompute ranking points and prize money of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(false, func(ctx context.Context, a *app) error {
				report, err := a.pointsService().Recompute(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, report)
			})
		},
	}
}

func integrityCmd() *cobra.Command {
	var publish bool
	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Scan for data-integrity anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(false, func(ctx context.Context, a *app) error {
				svc := a.integrityService()
				scan := svc.Scan
				if publish {
					scan = svc.Publish
				}
				report, err := scan(ctx)
				if err != nil {
					return err
				}
				a.logger.Info("integrity scan finished", slog.Int("anomalies", len(report.Anomalies)))
				return printJSON(cmd, report)
			})
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "Upload the report to object storage")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}
