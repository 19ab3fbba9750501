package main

import (
	"os"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

var workflowsCmd = &cobra.Command{
	Use:     "workflows",
	Aliases: []string{"ls"},
	Short:   "List available workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		query, _ := cmd.Flags().GetString("query")
		asJSON, _ := cmd.Flags().GetBool("json")
		return cli.ListWorkflows(cmd.Context(), commonOptions(cmd), category, query, asJSON, streams(cmd), os.Getenv)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the workflow documents in --dir",
	Long:  `Loads every workflow document in --dir and reports structural and dependency problems, followed by lint findings (unknown parameters, bad scopes or operations, required steps downstream of optional ones). With --watch it re-validates on every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commonOptions(cmd)
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			opts.Dir = args[0]
		}
		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return cli.Check(cmd.Context(), opts, streams(cmd))
		}
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Watch(sigCtx, opts, streams(cmd), os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(checkCmd)

	workflowsCmd.Flags().String("category", "", "Only workflows in this category")
	workflowsCmd.Flags().StringP("query", "q", "", "Search id, name, description and tags")
	workflowsCmd.Flags().Bool("json", false, "Print JSON")

	checkCmd.Flags().BoolP("watch", "w", false, "Re-validate whenever a document changes")
}
