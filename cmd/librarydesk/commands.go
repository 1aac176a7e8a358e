package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"library-desk/cmd/librarydesk/app"
	"library-desk/cmd/librarydesk/di"
	"library-desk/cmd/librarydesk/infrastructure"
	"library-desk/internal/adapter/db"
	"library-desk/internal/adapter/fixture"
	"library-desk/internal/config"
	"library-desk/internal/domain/library"
	"library-desk/internal/query"
	libuc "library-desk/internal/usecase/library"
	"library-desk/pkg/logger"
)

type rootOptions struct {
	configPath string
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "librarydesk",
		Short:         "Search a library's books, users and circulation records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath(), "directory holding app.env")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	cmd.AddCommand(
		newServeCmd(opts),
		newBooksCmd(opts),
		newUsersCmd(opts),
		newSearchCmd(opts),
		newActivityCmd(opts),
		newDashboardCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

// defaultConfigPath returns the configuration path
func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}

// load reads the configuration and builds the logger. One-shot commands keep
// stdout for their output, so they log warnings and errors to stderr only.
func (o *rootOptions) load(oneShot bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerCfg := logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.App.Env,
	}
	if oneShot {
		loggerCfg.Level = "warn"
		if loggerCfg.OutputPath == "stdout" {
			loggerCfg.OutputPath = "stderr"
		}
	}

	l, err := logger.NewWithConfig(loggerCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// withSession runs fn against a session over the configured fixtures.
func (o *rootOptions) withSession(ctx context.Context, fn func(libuc.Usecase) error) error {
	cfg, l, err := o.load(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync(l) }()

	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			l.Warn("failed to close container", zap.Error(err))
		}
	}()

	return fn(container.Session)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := opts.load(false)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, l)
			if err != nil {
				return err
			}
			return a.Run(ctx, nil)
		},
	}
}

func newBooksCmd(opts *rootOptions) *cobra.Command {
	var req libuc.BookSearchRequest

	cmd := &cobra.Command{
		Use:   "books [term]",
		Short: "Search the catalog by title, author, ISBN or category",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Term = strings.Join(args, " ")
			return opts.withSession(cmd.Context(), func(uc libuc.Usecase) error {
				resp, err := uc.SearchBooks(cmd.Context(), req)
				if err != nil {
					return err
				}
				return newPrinter(cmd.OutOrStdout(), opts.json).books(resp)
			})
		},
	}
	cmd.Flags().StringVar(&req.Category, "category", "", "only books in this category")
	cmd.Flags().Int64Var(&req.Page, "page", 1, "page number")
	cmd.Flags().Int64Var(&req.Limit, "limit", libuc.DefaultPageLimit, "books per page")
	return cmd
}

func newUsersCmd(opts *rootOptions) *cobra.Command {
	var req libuc.UserSearchRequest

	cmd := &cobra.Command{
		Use:   "users [term]",
		Short: "Search the directory by name, email, student ID or department",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Term = strings.Join(args, " ")
			return opts.withSession(cmd.Context(), func(uc libuc.Usecase) error {
				resp, err := uc.SearchUsers(cmd.Context(), req)
				if err != nil {
					return err
				}
				return newPrinter(cmd.OutOrStdout(), opts.json).users(resp)
			})
		},
	}
	cmd.Flags().StringVar(&req.Role, "role", "", "only users with this role (student, librarian)")
	cmd.Flags().Int64Var(&req.Page, "page", 1, "page number")
	cmd.Flags().Int64Var(&req.Limit, "limit", libuc.DefaultPageLimit, "users per page")
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search books or users; a blank term also lists recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd.Context(), func(uc libuc.Usecase) error {
				resp, err := uc.UnifiedSearch(cmd.Context(), libuc.UnifiedSearchRequest{
					Mode: mode,
					Term: strings.Join(args, " "),
				})
				if err != nil {
					return err
				}
				return newPrinter(cmd.OutOrStdout(), opts.json).search(resp)
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", libuc.ModeBooks, "what to search: books or users")
	return cmd
}

func newActivityCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "List the most recent borrows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withSession(cmd.Context(), func(uc libuc.Usecase) error {
				items, err := uc.RecentActivity(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return newPrinter(cmd.OutOrStdout(), opts.json).activity(items)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", query.ActivityFeedLimit, "how many borrows to list")
	return cmd
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show headline counts and the latest borrows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withSession(cmd.Context(), func(uc libuc.Usecase) error {
				resp, err := uc.Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				return newPrinter(cmd.OutOrStdout(), opts.json).dashboard(resp)
			})
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "seed-db",
		Short: "Write fixture data into the configured fixture database",
		Long: "Loads the embedded fixtures, or the files in --from, and replaces the\n" +
			"contents of the fixture database selected by FIXTURE_DB_DRIVER.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := opts.load(true)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync(l) }()

			var source fixture.Source = fixture.NewEmbedded()
			if from != "" {
				source = fixture.NewDir(from)
			}
			ds, err := seedDatabase(cmd.Context(), cfg, l, source)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %s database: %d books, %d users, %d transactions\n",
				cfg.Fixture.Driver, len(ds.Books), len(ds.Users), len(ds.Transactions))
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "directory of fixture files (default: embedded fixtures)")
	return cmd
}

// seedDatabase replaces the fixture database contents with source's dataset.
func seedDatabase(ctx context.Context, cfg *config.Config, l *zap.Logger, source fixture.Source) (*library.Dataset, error) {
	ds, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	if cfg.Fixture.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Fixture.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gdb, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, err
	}
	defer func() { _ = infrastructure.CloseDatabase(gdb) }()

	repo := db.NewFixtureRepo(gdb, l)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	if err := repo.Seed(ctx, ds); err != nil {
		return nil, err
	}
	return ds, nil
}
