package main

import (
	"os"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workflow-id>",
	Short: "Run a workflow",
	Long: `Runs a workflow from the catalog and prints a report of every step.
Decks (--deck) are YAML or JSON files; "-" reads YAML from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{Options: commonOptions(cmd), WorkflowID: args[0]}
		opts.Topic, _ = cmd.Flags().GetString("topic")
		opts.Audience, _ = cmd.Flags().GetString("audience")
		opts.DeckPath, _ = cmd.Flags().GetString("deck")
		opts.OutputPath, _ = cmd.Flags().GetString("output")
		opts.Context, _ = cmd.Flags().GetString("context")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Trace, _ = cmd.Flags().GetBool("trace")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Run(sigCtx, opts, streams(cmd), os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("topic", "", "Presentation topic")
	runCmd.Flags().String("audience", "", "Target audience")
	runCmd.Flags().String("deck", "", "Input deck (YAML or JSON)")
	runCmd.Flags().StringP("output", "o", "", "Write the resulting deck here (format by extension, - for stdout)")
	runCmd.Flags().String("context", "", "Initial workflow context as JSON")
	runCmd.Flags().Bool("json", false, "Print the execution as JSON")
	runCmd.Flags().Bool("trace", false, "Print OpenTelemetry spans to stderr")
}
