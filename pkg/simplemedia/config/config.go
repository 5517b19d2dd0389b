package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/configsync"
	fssync "github.com/tendant/simple-media/pkg/simplemedia/configsync/fs"
	memorysync "github.com/tendant/simple-media/pkg/simplemedia/configsync/memory"
	s3sync "github.com/tendant/simple-media/pkg/simplemedia/configsync/s3"
	"github.com/tendant/simple-media/pkg/simplemedia/repo/memory"
	repopg "github.com/tendant/simple-media/pkg/simplemedia/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

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
		Port:             "8080",
		Environment:      "development",
		DatabaseType:     "memory",
		DBSchema:         "media",
		SeedDefaultTypes: true,
	}
}

// ServerConfig represents server configuration for the simple-media service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL   string
	DatabaseType  string // "memory", "postgres"
	DBSchema      string // Postgres schema to use (default: media)
	RunMigrations bool   // Apply embedded migrations before connecting

	// Configuration export/import target; nil disables sync
	ConfigSync *ConfigSyncConfig

	// Create the standard media types on startup
	SeedDefaultTypes bool
}

// ConfigSyncConfig represents configuration for a config sync store
type ConfigSyncConfig struct {
	Type   string // "memory", "fs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.ConfigSync != nil {
		switch c.ConfigSync.Type {
		case "memory":
		case "fs":
			if getString(c.ConfigSync.Config, "base_dir", "") == "" {
				return errors.New("config sync base_dir is required for fs")
			}
		case "s3":
			if getString(c.ConfigSync.Config, "bucket", "") == "" {
				return errors.New("config sync bucket is required for s3")
			}
		default:
			return fmt.Errorf("unsupported config sync type: %s", c.ConfigSync.Type)
		}
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(options ...simplemedia.Option) (simplemedia.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	svc, err := simplemedia.New(append([]simplemedia.Option{simplemedia.WithRepository(repo)}, options...)...)
	if err != nil {
		return nil, err
	}

	if c.SeedDefaultTypes {
		if err := SeedDefaultMediaTypes(context.Background(), svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// SeedDefaultMediaTypes creates the standard media types that do not exist yet.
func SeedDefaultMediaTypes(ctx context.Context, svc simplemedia.Service) error {
	for _, req := range simplemedia.DefaultMediaTypes() {
		_, err := svc.CreateMediaType(ctx, req)
		if errors.Is(err, simplemedia.ErrMediaTypeExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed media type %s: %w", req.ID, err)
		}
		slog.Debug("Seeded media type", "media_type", req.ID)
	}
	return nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (simplemedia.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		if c.RunMigrations {
			if err := repopg.Migrate(c.DatabaseURL, c.DBSchema); err != nil {
				return nil, err
			}
		}
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		schema := c.DBSchema
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if schema == "" {
				return nil
			}
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", pgx.Identifier{schema}.Sanitize()))
			return err
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// PingPostgres verifies connectivity to Postgres.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// BuildConfigStore creates the config sync store. It returns nil when sync is
// not configured.
func (c *ServerConfig) BuildConfigStore() (configsync.Store, error) {
	if c.ConfigSync == nil {
		return nil, nil
	}
	cfg := c.ConfigSync.Config
	switch c.ConfigSync.Type {
	case "memory":
		return memorysync.New(), nil
	case "fs":
		return fssync.New(fssync.Config{BaseDir: getString(cfg, "base_dir", "./data/config")})
	case "s3":
		return s3sync.New(s3sync.Config{
			Region:                 getString(cfg, "region", "us-east-1"),
			Bucket:                 getString(cfg, "bucket", ""),
			Prefix:                 getString(cfg, "prefix", ""),
			AccessKeyID:            getString(cfg, "access_key_id", ""),
			SecretAccessKey:        getString(cfg, "secret_access_key", ""),
			Endpoint:               getString(cfg, "endpoint", ""),
			UsePathStyle:           getBool(cfg, "use_path_style", false),
			CreateBucketIfNotExist: getBool(cfg, "create_bucket_if_not_exist", false),
		})
	default:
		return nil, fmt.Errorf("unsupported config sync type: %s", c.ConfigSync.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		switch v := value.(type) {
		case bool:
			return v
		case string:
			return v == "true" || v == "1"
		}
	}
	return defaultValue
}
