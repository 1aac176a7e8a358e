package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-desk/cmd/librarydesk/infrastructure"
	"library-desk/internal/adapter/db"
	"library-desk/internal/adapter/fixture"
	ginhandler "library-desk/internal/adapter/gin/handler"
	"library-desk/internal/adapter/gin/middleware"
	ginrouter "library-desk/internal/adapter/gin/router"
	"library-desk/internal/config"
	libuc "library-desk/internal/usecase/library"
	redisclient "library-desk/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Session     *libuc.Session
	RedisClient *redisclient.Client
	RateLimiter *middleware.RateLimiter
	Handler     *ginhandler.Handler
}

// NewContainer loads the configured fixtures and starts a session over them.
// The HTTP layer is built separately by Router.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	source, err := c.fixtureSource()
	if err != nil {
		return nil, err
	}

	ds, err := source.Load(ctx)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	c.Session = libuc.New(ds, l)

	l.Info("session started",
		zap.String("fixture_source", cfg.Fixture.Source),
		zap.Int("books", len(ds.Books)),
		zap.Int("users", len(ds.Users)),
		zap.Int("transactions", len(ds.Transactions)),
	)

	return c, nil
}

func (c *Container) fixtureSource() (fixture.Source, error) {
	switch c.Config.Fixture.Source {
	case config.SourceFile:
		return fixture.NewDir(c.Config.Fixture.Dir), nil
	case config.SourceDatabase:
		gdb, err := infrastructure.NewDatabase(c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = gdb
		return db.NewFixtureRepo(gdb, c.Logger), nil
	default:
		return fixture.NewEmbedded(), nil
	}
}

// Router builds the REST shell over the session, connecting to Redis first
// when rate limiting is enabled.
func (c *Container) Router(ctx context.Context) (*gin.Engine, error) {
	if c.Config.RateLimit.Enabled && c.RateLimiter == nil {
		rdb, err := infrastructure.NewRedisClient(ctx, c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: c.Config.RateLimit.RequestsPerSecond,
				Burst:             c.Config.RateLimit.Burst,
			},
			c.Logger,
		)
	}

	c.Handler = ginhandler.New(c.Session, c.Logger)
	return ginrouter.SetupRouter(c.Handler, c.RateLimiter, c.Logger), nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
