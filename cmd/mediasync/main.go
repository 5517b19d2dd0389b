package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/config"
	"github.com/tendant/simple-media/pkg/simplemedia/configsync"
)

func main() {
	mode := flag.String("mode", "export", "Sync mode: 'export' or 'import'")
	dir := flag.String("dir", "", "Directory to sync with (overrides CONFIG_SYNC_URL)")
	flag.Parse()

	if err := run(context.Background(), *mode, *dir); err != nil {
		slog.Error("Config sync failed", "mode", *mode, "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, mode, dir string) error {
	opts := []config.Option{config.WithEnv("")}
	if dir != "" {
		opts = append(opts, config.WithFilesystemConfigSync(dir))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	store, err := cfg.BuildConfigStore()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no sync target: set CONFIG_SYNC_URL or -dir")
	}

	svc, err := cfg.BuildService()
	if err != nil {
		return err
	}

	var result *configsync.Result
	switch mode {
	case "export":
		result, err = configsync.Export(ctx, svc, store)
	case "import":
		result, err = configsync.Import(ctx, svc, store)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return err
	}

	return printSummary(ctx, svc, result)
}

func printSummary(ctx context.Context, svc simplemedia.Service, result *configsync.Result) error {
	types, err := svc.ListMediaTypes(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("media types: %d, field configs: %d, skipped: %d\n", result.MediaTypes, result.FieldConfigs, len(result.Skipped))
	for _, t := range types {
		fmt.Printf("  %-16s %-14s %s\n", t.ID, t.Source.PluginID(), t.SourceFieldID())
	}
	return nil
}
