package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sparrow-vision/access-atlas/pkg/server"
	"github.com/sparrow-vision/access-atlas/pkg/services/config"
	"github.com/sparrow-vision/access-atlas/pkg/services/provider"
	reportsvc "github.com/sparrow-vision/access-atlas/pkg/services/report"
	"github.com/sparrow-vision/access-atlas/pkg/services/sync"
	reportstore "github.com/sparrow-vision/access-atlas/pkg/store/report"
	sqlreport "github.com/sparrow-vision/access-atlas/pkg/store/sql/report"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Access Atlas report server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML settings file (env vars with the ATLAS_ prefix override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	store, err := buildStore(ctx, settings, logger)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(settings, logger)
	if err != nil {
		return err
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(settings.Server.Host, settings.Server.Port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Store:     store,
			Generator: reportsvc.NewGenerator(store, registry),
		},
	})

	return webAPI.Start()
}

func buildStore(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (reportstore.Store, error) {
	if settings.Database.DSN == "" {
		logger.Info().Msg("no database configured, using in-memory report store")
		return reportstore.NewMemoryStore(), nil
	}

	db, err := sql.Open("postgres", settings.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlreport.Init(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to initialize report schema: %w", err)
	}
	return sqlreport.NewStore(db)
}

func buildRegistry(settings *config.Settings, logger zerolog.Logger) (*provider.Registry, error) {
	registry := provider.NewRegistry()

	if settings.Sync.BaseURL != "" {
		client, err := sync.NewClient(sync.Config{
			BaseURL:    settings.Sync.BaseURL,
			APIKey:     settings.Sync.APIKey,
			OrgID:      settings.Sync.OrgID,
			PageSize:   settings.Sync.PageSize,
			Timeout:    settings.Sync.Timeout,
			MaxRetries: settings.Sync.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sync client: %w", err)
		}
		if err := registry.Register(sync.NewUserSource(client)); err != nil {
			return nil, err
		}
	} else {
		logger.Warn().Msg("no sync endpoint configured, user access records unavailable")
	}

	if settings.Sources.AuditFile != "" {
		src := &provider.FileSource{SourceKind: provider.KindAudit, Path: settings.Sources.AuditFile}
		if err := registry.Register(src); err != nil {
			return nil, err
		}
	}
	if settings.Sources.ViolationFile != "" {
		src := &provider.FileSource{SourceKind: provider.KindPolicyViolation, Path: settings.Sources.ViolationFile}
		if err := registry.Register(src); err != nil {
			return nil, err
		}
	}

	logger.Info().Int("sources", len(registry.Kinds())).Msg("record sources registered")
	return registry, nil
}
