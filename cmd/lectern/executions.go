package main

import (
	"os"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/aretw0/lectern/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var executionsCmd = &cobra.Command{
	Use:   "executions [execution-id]",
	Short: "List archived executions or show one",
	Long:  `Reads the execution archive (--archive, default ` + file.DefaultDir + `) written by 'run'.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commonOptions(cmd)
		if opts.ArchiveDir == "" {
			opts.ArchiveDir = file.DefaultDir
		}
		if len(args) == 0 {
			return cli.ListExecutions(cmd.Context(), opts, streams(cmd), os.Getenv)
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return cli.ShowExecution(cmd.Context(), opts, args[0], asJSON, streams(cmd), os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(executionsCmd)
	executionsCmd.Flags().Bool("json", false, "Print JSON")
}
