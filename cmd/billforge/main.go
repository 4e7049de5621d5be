package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/billforgelabs/billforge/internal/audit"
	"github.com/billforgelabs/billforge/internal/billing"
	"github.com/billforgelabs/billforge/internal/clock"
	"github.com/billforgelabs/billforge/internal/config"
	"github.com/billforgelabs/billforge/internal/credential"
	"github.com/billforgelabs/billforge/internal/metrics"
	"github.com/billforgelabs/billforge/internal/migration"
	"github.com/billforgelabs/billforge/internal/observability"
	"github.com/billforgelabs/billforge/internal/packagetier"
	"github.com/billforgelabs/billforge/internal/reconciler"
	"github.com/billforgelabs/billforge/internal/revenuerule"
	"github.com/billforgelabs/billforge/internal/server"
	"github.com/billforgelabs/billforge/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "billforge",
		Short:   "Billforge CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing engine API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.WithLogger(observability.FxLogger),
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.WithLogger(observability.FxLogger),
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		audit.Module,
		credential.Module,
		billing.Module,
		revenuerule.Module,
		packagetier.Module,
		reconciler.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
