package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressroom/editorial/pkg/editorial"
	memoryrepo "github.com/pressroom/editorial/pkg/editorial/repo/memory"
	postgresrepo "github.com/pressroom/editorial/pkg/editorial/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// ServerConfig represents server configuration for the editorial service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Server options
	EnableEventLogging bool
}

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       "memory",
		EnableEventLogging: true,
	}
}

// WithDatabase overrides the database backend.
func WithDatabase(dbType, dbURL string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = dbType
		c.DatabaseURL = dbURL
		return nil
	}
}

// Validate checks the configuration for internal consistency.
func (c *ServerConfig) Validate() error {
	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres database")
		}
	default:
		return fmt.Errorf("unsupported database type: %q", c.DatabaseType)
	}

	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}

// BuildRepository constructs the repository selected by DatabaseType.
func (c *ServerConfig) BuildRepository(ctx context.Context) (editorial.Repository, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		return postgresrepo.NewWithPool(pool), nil
	default:
		return memoryrepo.New(), nil
	}
}

// BuildService constructs a fully wired editorial service from the configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (editorial.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, err
	}

	options := []editorial.Option{
		editorial.WithRepository(repo),
	}
	if c.EnableEventLogging {
		options = append(options, editorial.WithEventSink(editorial.NewLoggingEventSink(slog.Default())))
	} else {
		options = append(options, editorial.WithEventSink(editorial.NewNoopEventSink()))
	}

	return editorial.New(options...)
}
