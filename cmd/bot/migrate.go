package main

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/officehours_bot/internal/app"
	"github.com/Freeeeeet/officehours_bot/internal/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Применить миграции базы данных",
		Action: func(c *cli.Context) error {
			return withMigrator(c.Context, func(ctx context.Context, m *app.Migrator, _ *zap.Logger) error {
				return m.Run(ctx)
			})
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Показать текущую версию схемы",
		Action: func(c *cli.Context) error {
			return withMigrator(c.Context, func(ctx context.Context, m *app.Migrator, _ *zap.Logger) error {
				version, err := m.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "schema version: %d\n", version)
				return nil
			})
		},
	}
}

func withMigrator(ctx context.Context, fn func(context.Context, *app.Migrator, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	pool, err := app.OpenPool(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(ctx, migrator, logger)
}
