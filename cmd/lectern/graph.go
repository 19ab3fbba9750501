package main

import (
	"os"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <workflow-id>",
	Short: "Export the workflow step graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of a workflow's steps and dependencies. --execution colours steps by the state they reached in a run saved with 'run --json'.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.GraphOptions{Options: commonOptions(cmd), WorkflowID: args[0]}
		opts.ExecutionPath, _ = cmd.Flags().GetString("execution")
		return cli.Graph(cmd.Context(), opts, streams(cmd), os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("execution", "", "Execution JSON file used as overlay")
}
