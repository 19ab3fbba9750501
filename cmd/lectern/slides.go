package main

import (
	"context"
	"os"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

type slideCommand func(ctx context.Context, opts cli.SlideOptions, s cli.Streams, getenv func(string) string) error

func newSlideCmd(use, short string, defaultSlide int, run slideCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <deck>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.SlideOptions{Options: commonOptions(cmd), DeckPath: args[0]}
			opts.Slide, _ = cmd.Flags().GetInt("slide")
			opts.JSON, _ = cmd.Flags().GetBool("json")
			if f := cmd.Flags().Lookup("audience"); f != nil {
				opts.Audience = f.Value.String()
			}
			if f := cmd.Flags().Lookup("output"); f != nil {
				opts.OutputPath = f.Value.String()
			}
			opts.Preview, _ = cmd.Flags().GetBool("preview")
			return run(cmd.Context(), opts, streams(cmd), os.Getenv)
		},
	}
	cmd.Flags().Int("slide", defaultSlide, "Zero-based slide index")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

var (
	suggestCmd = newSlideCmd("suggest", "Suggest improvements for one slide", 0, cli.Suggest)
	analyzeCmd = newSlideCmd("analyze", "Score readability, engagement, balance and accessibility of one slide", 0, cli.Analyze)
	formatCmd  = newSlideCmd("format", "Apply formatting rules to one slide or, with --slide -1, the whole deck", -1, cli.Format)
)

func init() {
	rootCmd.AddCommand(suggestCmd, analyzeCmd, formatCmd)

	suggestCmd.Flags().String("audience", "", "Target audience")
	formatCmd.Flags().StringP("output", "o", "", "Write the formatted deck here (format by extension, - for stdout)")
	formatCmd.Flags().Bool("preview", false, "Report changes without writing")
}
