package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/configsync"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "media", cfg.DBSchema)
	assert.True(t, cfg.SeedDefaultTypes)
	assert.Nil(t, cfg.ConfigSync)
}

func TestValidate(t *testing.T) {
	_, err := Load(WithDatabase("postgres", ""))
	assert.Error(t, err)

	_, err = Load(func(c *ServerConfig) error {
		c.DatabaseType = "postgres"
		return nil
	})
	assert.Error(t, err)

	_, err = Load(func(c *ServerConfig) error {
		c.ConfigSync = &ConfigSyncConfig{Type: "s3", Config: map[string]interface{}{}}
		return nil
	})
	assert.Error(t, err)

	_, err = Load(func(c *ServerConfig) error {
		c.ConfigSync = &ConfigSyncConfig{Type: "ftp"}
		return nil
	})
	assert.Error(t, err)
}

func TestBuildService_SeedsDefaultTypes(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService()
	require.NoError(t, err)

	types, err := svc.ListMediaTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, len(simplemedia.DefaultMediaTypes()))

	// Seeding twice is a no-op.
	require.NoError(t, SeedDefaultMediaTypes(context.Background(), svc))
}

func TestBuildService_WithoutSeeding(t *testing.T) {
	cfg, err := Load(WithSeedDefaultTypes(false))
	require.NoError(t, err)

	svc, err := cfg.BuildService()
	require.NoError(t, err)

	types, err := svc.ListMediaTypes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestBuildConfigStore(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	store, err := cfg.BuildConfigStore()
	require.NoError(t, err)
	assert.Nil(t, store)

	dir := t.TempDir()
	cfg, err = Load(WithFilesystemConfigSync(dir))
	require.NoError(t, err)
	store, err = cfg.BuildConfigStore()
	require.NoError(t, err)
	require.NotNil(t, store)

	svc, err := cfg.BuildService()
	require.NoError(t, err)
	result, err := configsync.Export(context.Background(), svc, store)
	require.NoError(t, err)
	assert.Equal(t, len(simplemedia.DefaultMediaTypes()), result.MediaTypes)
}

func TestOptions(t *testing.T) {
	cfg, err := Load(
		WithPort("9090"),
		WithMigrations(true),
		WithDatabaseSchema("custom"),
		WithS3ConfigSync("media-config", "", "exports/"),
	)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, "custom", cfg.DBSchema)
	require.NotNil(t, cfg.ConfigSync)
	assert.Equal(t, "s3", cfg.ConfigSync.Type)
	assert.Equal(t, "media-config", cfg.ConfigSync.Config["bucket"])
	assert.Equal(t, "us-east-1", cfg.ConfigSync.Config["region"])
	assert.Equal(t, "exports/", cfg.ConfigSync.Config["prefix"])

	_, err = Load(WithPort(""))
	assert.Error(t, err)

	_, err = Load(WithS3ConfigSync("", "us-west-2", ""))
	assert.Error(t, err)
}

func TestPingPostgres_RequiresURL(t *testing.T) {
	assert.Error(t, PingPostgres(""))
}
