package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"kernel-convolver/internal/config"
	"kernel-convolver/internal/imageio"
	"kernel-convolver/internal/kernel"
	"kernel-convolver/internal/logger"
	"kernel-convolver/internal/pipeline"
	"kernel-convolver/internal/processing/filters"
	"kernel-convolver/internal/shutdown"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configPath string
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:           AppName + " [input]",
		Short:         "Apply every catalog kernel to an image and write one result per kernel",
		Version:       AppVersion,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Input = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			sm := shutdown.NewManager(cmd.Context(), log)
			sm.Listen()
			defer sm.Shutdown()

			if err := run(sm.Context(), cfg, log); err != nil {
				log.Error("Main", err, nil)
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	defaults.RegisterFlags(cmd.Flags())
	cmd.AddCommand(newListCommand())

	return cmd
}

func newLogger(cfg *config.Config, out io.Writer) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.LogFormat == "json" {
		return logger.NewZerolog(out, level), nil
	}
	return logger.NewConsoleLoggerTo(out, level), nil
}

func selectCatalog(cfg *config.Config) (*kernel.Catalog, *kernel.Catalog, error) {
	full, err := kernel.Standard()
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Only) == 0 {
		return full, full, nil
	}
	subset, err := full.Select(cfg.Only...)
	if err != nil {
		return nil, nil, err
	}
	return subset, full, nil
}

// run executes one batch: clean, decode, convolve every entry, encode.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	catalog, full, err := selectCatalog(cfg)
	if err != nil {
		return err
	}

	codec, err := imageio.NewCodec(cfg.Codec, cfg.JPEGQuality)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if cfg.Clean {
		removed, err := imageio.CleanOutputs(cfg.OutputDir, cfg.Format, cfg.Input)
		if err != nil {
			return err
		}
		log.Debug("Main", "removed previous results", map[string]interface{}{
			"count": len(removed),
		})
	}

	start := time.Now()
	src, err := codec.Decode(cfg.Input, cfg.BytesPerPixel())
	if err != nil {
		return err
	}
	log.Info("Main", "loaded image", map[string]interface{}{
		"path":            cfg.Input,
		"width":           src.Width,
		"height":          src.Height,
		"bytes_per_pixel": src.BytesPerPixel,
		"load_time":       time.Since(start),
	})

	workers := cfg.EffectiveWorkers()
	sink := imageio.NewFileSink(cfg.OutputDir, cfg.Format, codec, log)
	coord := pipeline.NewCoordinator(catalog, full, filters.NewConvolver(workers), sink, log)

	summary, err := coord.Run(ctx, src)
	fields := map[string]interface{}{
		"emitted":    summary.Emitted,
		"total":      summary.Total,
		"duration":   summary.Duration,
		"workers":    workers,
		"goroutines": runtime.NumGoroutine(),
	}
	for stage, d := range summary.Stages {
		fields["stage_"+stage] = d
	}
	if err != nil {
		log.Warning("Main", "run aborted", fields)
		return err
	}

	log.Info("Main", "batch finished", fields)
	return nil
}
