package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/josephlewis42/treesh/core"
)

type completionReport struct {
	Candidates []string `json:"candidates"`
	Prefix     string   `json:"prefix,omitempty"`
	Line       string   `json:"line"`
	Caret      int      `json:"caret"`
}

var completeCmd = &cobra.Command{
	Use:   "complete LINE [CARET]",
	Short: "Show the completion of a line.",
	Long: `Completes the word under CARET, a byte offset into LINE defaulting to its
end, and shows the candidates and the rewritten line.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		line := args[0]
		caret := len(line)
		if len(args) == 2 {
			caret, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid caret %q: %w", args[1], err)
			}
		}

		terminal := core.NewTerminal(configuration, cmd.OutOrStdout(), nil)

		ctx, cancel := context.WithTimeout(context.Background(), configuration.CompletionTimeout())
		defer cancel()
		comp, err := terminal.Session.CompleteLine(ctx, line, caret)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(completionReport{
			Candidates: comp.Candidates,
			Prefix:     comp.Prefix,
			Line:       comp.Line,
			Caret:      comp.Caret,
		})
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
}
