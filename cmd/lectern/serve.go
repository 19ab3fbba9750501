package main

import (
	"os"
	"time"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/cli"
	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/pkg/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the REST API with one workbench per session, an SSE event stream
and Prometheus metrics at /metrics. --redis archives executions and
serializes sessions across replicas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ServeOptions{Options: commonOptions(cmd)}
		opts.Addr, _ = cmd.Flags().GetString("addr")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
		opts.LockTTL, _ = cmd.Flags().GetDuration("lock-ttl")
		opts.ShutdownTimeout, _ = cmd.Flags().GetDuration("shutdown-timeout")

		if tui.IsTerminal(cmd.ErrOrStderr()) {
			tui.PrintBanner(cmd.ErrOrStderr(), lectern.Version)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Serve(sigCtx, opts, streams(cmd), os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("redis", os.Getenv("LECTERN_REDIS_ADDR"), "Redis address for the execution archive and session locks")
	serveCmd.Flags().Duration("lock-ttl", session.DefaultLockTTL, "Distributed session lock TTL")
	serveCmd.Flags().Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown deadline")
}
