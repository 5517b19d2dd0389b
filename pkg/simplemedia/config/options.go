package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithMigrations enables embedded migrations for Postgres
func WithMigrations(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.RunMigrations = enabled
		return nil
	}
}

// WithFilesystemConfigSync exports and imports configuration in a directory
func WithFilesystemConfigSync(baseDir string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("config sync directory cannot be empty")
		}
		c.ConfigSync = &ConfigSyncConfig{
			Type:   "fs",
			Config: map[string]interface{}{"base_dir": baseDir},
		}
		return nil
	}
}

// WithS3ConfigSync exports and imports configuration in an S3 bucket
func WithS3ConfigSync(bucket, region, prefix string) Option {
	return func(c *ServerConfig) error {
		if bucket == "" {
			return fmt.Errorf("config sync bucket cannot be empty")
		}
		if region == "" {
			region = "us-east-1"
		}
		c.ConfigSync = &ConfigSyncConfig{
			Type: "s3",
			Config: map[string]interface{}{
				"bucket": bucket,
				"region": region,
				"prefix": prefix,
			},
		}
		return nil
	}
}

// WithSeedDefaultTypes toggles creation of the standard media types
func WithSeedDefaultTypes(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.SeedDefaultTypes = enabled
		return nil
	}
}
