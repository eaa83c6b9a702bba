package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/cmd/cli/commands"
	"github.com/jakechorley/volunteer-roster/internal/config"
	"github.com/jakechorley/volunteer-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/volunteer-roster/pkg/core/services"
	"github.com/jakechorley/volunteer-roster/pkg/db"
	"github.com/jakechorley/volunteer-roster/pkg/metrics"
	"github.com/jakechorley/volunteer-roster/pkg/postgres"
	"github.com/jakechorley/volunteer-roster/pkg/store"
	"github.com/jakechorley/volunteer-roster/pkg/utils/logging"
)

var (
	env     string
	app     = &commands.AppContext{}
	closeDB func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Volunteer roster - manage volunteers and serve the roster API",
		Long:  `A CLI and HTTP service for keeping a roster of volunteers, their skills, roles and activity.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.SearchVolunteersCmd(app))
	rootCmd.AddCommand(commands.DeleteVolunteerCmd(app))
	rootCmd.AddCommand(commands.ImportVolunteersCmd(app))

	if err := execute(rootCmd); err != nil {
		os.Exit(1)
	}
}

// execute runs the command and releases the database pool and flushes the
// logger whether or not the command succeeded
func execute(rootCmd *cobra.Command) error {
	defer cleanup()
	return rootCmd.Execute()
}

func cleanup() {
	if closeDB != nil {
		closeDB()
		closeDB = nil
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}

// initApp loads config, sets up logging and metrics, opens the mirror and
// loads the roster into memory
func initApp() error {
	ctx := context.Background()

	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := logging.InitLogger(cfg.Logging.Dir, env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting application", zap.String("environment", env), zap.String("log_file", logFile))

	collector := metrics.New()

	mirror, err := openMirror(ctx, cfg, logger)
	if err != nil {
		return err
	}

	volunteerStore := store.New(mirror, logger, store.Options{
		WriteAttempts: cfg.Store.WriteAttempts,
		RetryDelay:    cfg.Store.RetryDelay,
		Metrics:       collector,
	})

	if err := loadStore(ctx, volunteerStore, mirror, cfg, logger); err != nil {
		return err
	}

	app.Cfg = cfg
	app.Env = env
	app.Service = services.NewVolunteerService(volunteerStore, logger)
	app.Metrics = collector
	app.Logger = logger
	app.Ctx = ctx
	app.NewVolunteerSource = func(ctx context.Context) (commands.VolunteerSource, error) {
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		return sheetsclient.NewClient(ctx, oauthCfg, env, logger)
	}

	return nil
}

// openMirror returns the durable mirror selected by store.backend
func openMirror(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.VolunteerMirror, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		logger.Info("Connecting to PostgreSQL mirror")
		database, err := postgres.NewDB(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		closeDB = database.Close
		return database, nil
	default:
		logger.Info("Using JSON file mirror", zap.String("path", cfg.Store.DataFile))
		return db.NewJSONFile(cfg.Store.DataFile), nil
	}
}

// loadStore loads the roster. A corrupt JSON file is moved aside and the
// store reseeded when store.quarantineCorrupt is set; any other load failure
// stops startup so the mirror is never overwritten with an empty roster.
func loadStore(ctx context.Context, s *store.Store, mirror db.VolunteerMirror, cfg *config.Config, logger *zap.Logger) error {
	err := s.Load(ctx)
	if err == nil {
		return nil
	}

	file, isFile := mirror.(*db.JSONFile)
	if !isFile || !errors.Is(err, db.ErrCorruptMirror) || !cfg.Store.QuarantineCorrupt {
		return fmt.Errorf("failed to load volunteers: %w", err)
	}

	moved, qErr := file.Quarantine(time.Now())
	if qErr != nil {
		return fmt.Errorf("failed to quarantine corrupt data file: %w", qErr)
	}
	logger.Warn("Data file was corrupt and has been moved aside",
		zap.String("path", file.Path()),
		zap.String("moved_to", moved),
		zap.Error(err))

	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("failed to load volunteers after quarantine: %w", err)
	}
	return nil
}
