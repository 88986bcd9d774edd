// Package cli implements placesctl, the admin command line of the places API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/places/internal/config"
	"github.com/kailas-cloud/places/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/places/internal/db/redis"
	logpkg "github.com/kailas-cloud/places/internal/logger"
	stickyrepo "github.com/kailas-cloud/places/internal/repository/sticky"
)

// StickyList maintains the pinned place ids.
type StickyList interface {
	IDs(ctx context.Context) ([]int64, error)
	Add(ctx context.Context, ids ...int64) error
	Remove(ctx context.Context, ids ...int64) error
}

// Migrations applies schema migrations.
type Migrations interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Close() error
}

// Deps opens the backends a command needs. Fields left nil use the configured stores.
type Deps struct {
	LoadConfig     func(env string) (config.Config, error)
	OpenSticky     func(ctx context.Context, cfg config.Config) (StickyList, func(), error)
	OpenMigrations func(cfg config.Config) (Migrations, error)
}

type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	deps   Deps
}

// NewRootCmd creates the root placesctl command.
func NewRootCmd(deps Deps) *cobra.Command {
	a := &app{deps: deps}
	if a.deps.LoadConfig == nil {
		a.deps.LoadConfig = config.Load
	}
	if a.deps.OpenSticky == nil {
		a.deps.OpenSticky = openRedisSticky
	}
	if a.deps.OpenMigrations == nil {
		a.deps.OpenMigrations = func(cfg config.Config) (Migrations, error) {
			return postgres.NewMigrator(cfg.Database.DSN)
		}
	}

	versionCmd := newVersionCmd()
	root := &cobra.Command{
		Use:   "placesctl",
		Short: "Administer the places API",
		Long:  "placesctl applies database migrations and maintains the sticky places list.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd == versionCmd {
				return nil
			}
			return a.load()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.env, "env", config.GetEnv(), "Config environment (local, dev, prod)")

	root.AddCommand(
		newMigrateCmd(a),
		newStickyCmd(a),
		versionCmd,
	)
	return root
}

func (a *app) load() error {
	cfg, err := a.deps.LoadConfig(a.env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(a.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func openRedisSticky(ctx context.Context, cfg config.Config) (StickyList, func(), error) {
	if len(cfg.Redis.Addrs) == 0 {
		return nil, nil, errors.New("redis.addrs is not configured")
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("redis not ready: %w", err)
	}
	return stickyrepo.New(store, cfg.Storage.KeyPrefix), store.Close, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
