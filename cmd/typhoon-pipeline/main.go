// Command typhoon-pipeline runs the multi-agency forecast pipeline.
//
// Usage:
//
//	typhoon-pipeline fetch
//	typhoon-pipeline normalize
//	typhoon-pipeline consensus
//	typhoon-pipeline all
//	typhoon-pipeline serve
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/hill02252024/hk-7day-typhoon/internal/api/http"
	"github.com/hill02252024/hk-7day-typhoon/internal/artifact"
	"github.com/hill02252024/hk-7day-typhoon/internal/config"
	"github.com/hill02252024/hk-7day-typhoon/internal/consensus"
	"github.com/hill02252024/hk-7day-typhoon/internal/fetch"
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast/mappers"
	"github.com/hill02252024/hk-7day-typhoon/internal/pipeline"
	"github.com/hill02252024/hk-7day-typhoon/internal/provider"
	"github.com/hill02252024/hk-7day-typhoon/internal/scheduler"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

func main() {
	root := &cobra.Command{
		Use:   "typhoon-pipeline",
		Short: "Multi-agency forecast normalization and consensus pipeline",
	}

	root.AddCommand(
		stageCmd("fetch", "Fetch raw feeds from all configured providers",
			func(ctx context.Context, p *pipeline.Pipeline) error { return p.Fetch(ctx) }),
		stageCmd("normalize", "Normalize raw snapshots into per-day records",
			func(_ context.Context, p *pipeline.Pipeline) error { return p.Normalize() }),
		stageCmd("consensus", "Build the 0-5 day consensus report",
			func(_ context.Context, p *pipeline.Pipeline) error { return p.Consensus() }),
		stageCmd("risk", "Build the 6-7 day confidence report",
			func(_ context.Context, p *pipeline.Pipeline) error { return p.Risk() }),
		stageCmd("leaderboard", "Build the provider leaderboard",
			func(_ context.Context, p *pipeline.Pipeline) error { return p.Leaderboard() }),
		stageCmd("impact", "Write the impact note",
			func(_ context.Context, p *pipeline.Pipeline) error { return p.Impact() }),
		allCmd(),
		serveCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func stageCmd(name, short string, run func(context.Context, *pipeline.Pipeline) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return run(cmd.Context(), buildPipeline(cfg))
		},
	}
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every stage in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			buildPipeline(cfg).RunAll(cmd.Context())
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the produced artifacts and run the pipeline on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func buildPipeline(cfg *config.AppConfig) *pipeline.Pipeline {
	snapStore := snapshot.NewStore(cfg.RawDir)
	artifacts := artifact.NewStore(cfg.ProcessedDir)

	fetcher := fetch.New(fetch.Config{
		Client: &http.Client{Timeout: cfg.FetchTimeout},
		Backoff: fetch.BackoffConfig{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		UserAgent: cfg.UserAgent,
	}, snapStore)

	normalizer := forecast.NewNormalizer(snapStore, mappers.Registry(), mappers.Generic, provider.All)

	return pipeline.New(fetcher, normalizer, artifacts, provider.All, consensusOptions(cfg), time.Now)
}

// consensusOptions translates policy config into aggregator options.
// The anchor clock reads "today" in the configured zone; the aggregator
// itself never touches the system clock.
func consensusOptions(cfg *config.AppConfig) consensus.Options {
	opts := consensus.Options{
		Preferred: provider.Preferred,
		AllowList: cfg.AllowList,
	}
	if cfg.OrderingPolicy == "allowlist" {
		opts.Ordering = consensus.OrderAllowList
		if len(opts.AllowList) == 0 {
			opts.AllowList = provider.Preferred
		}
	}
	if cfg.TextPolicy == "majority" {
		opts.Text = consensus.TextMajority
	}
	if cfg.AnchorDates {
		loc, err := time.LoadLocation(cfg.AnchorZone)
		if err != nil {
			loc = time.UTC
		}
		opts.Today = func() time.Time { return time.Now().In(loc) }
	}
	return opts
}

func serve(cfg *config.AppConfig) error {
	p := buildPipeline(cfg)

	sched := scheduler.New(p, cfg.RunInterval)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "hk-7day-typhoon",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "hk-7day-typhoon",
		})
	})

	httpapi.RegisterRoutes(app, artifact.NewStore(cfg.ProcessedDir))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}
