package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Lectern is a presentation content assistant",
	Long: `Lectern suggests improvements, scores and formats slides, and runs
presentation workflows (generate, format, analyze, transform, validate)
from the terminal, over HTTP or as an MCP tool server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", os.Getenv("LECTERN_DIR"), "Directory of workflow documents loaded on top of the built-in catalog")
	rootCmd.PersistentFlags().String("config", os.Getenv("LECTERN_CONFIG"), "YAML config file (default ./"+cli.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level on stderr: debug, info, warn or error (env LECTERN_LOG_LEVEL; empty disables logs)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format on stderr: text or json (env LECTERN_LOG_FORMAT)")
	rootCmd.PersistentFlags().String("generator", "", "Content generator: template, http, process or none (env LECTERN_GENERATOR)")
	rootCmd.PersistentFlags().String("archive", os.Getenv("LECTERN_ARCHIVE_DIR"), "Directory where finished executions are kept as JSON")
}

func commonOptions(cmd *cobra.Command) cli.Options {
	dir, _ := cmd.Flags().GetString("dir")
	config, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	gen, _ := cmd.Flags().GetString("generator")
	archive, _ := cmd.Flags().GetString("archive")
	return cli.Options{Dir: dir, ConfigPath: config, LogLevel: level, LogFormat: format, Generator: gen, ArchiveDir: archive}
}

func streams(cmd *cobra.Command) cli.Streams {
	return cli.Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}
