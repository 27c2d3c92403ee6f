package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/server"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing match analysis, resume improvement, resume storage and prompt administration.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, os.Getenv)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.db != nil {
		if err := rt.db.Migrate(ctx); err != nil {
			return err
		}
	}

	srvCfg := server.Config{
		Addr:           cfg.Addr,
		Analyzer:       rt.analyzer,
		Improver:       rt.pipeline,
		RateLimit:      ratelimit.LoadConfig(),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         &logging.Logger,
	}
	if rt.db != nil {
		srvCfg.Store = rt.db
	}
	if rt.jobs != nil {
		srvCfg.Jobs = rt.jobs
	}

	return server.New(srvCfg).Start(ctx)
}
