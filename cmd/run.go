package cmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/treesh/core"
	"github.com/josephlewis42/treesh/core/logger"
	"github.com/josephlewis42/treesh/core/shell"
)

var runCmd = &cobra.Command{
	Use:   "run [LINE]...",
	Short: "Execute lines and print their results.",
	Long: `Executes each LINE in the same session and prints the results one per
line. Without LINE, lines are read from stdin. Commands asking questions get
their default answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		logFd, err := configuration.OpenAppLog()
		if err != nil {
			return err
		}
		defer logFd.Close()
		recorder := logger.NewJsonLinesLogRecorder(logFd).NewSession()

		terminal := core.NewTerminal(configuration, cmd.OutOrStdout(), nil, shell.WithRecorder(recorder))

		lines := args
		if len(lines) == 0 {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		failed := 0
		for _, line := range lines {
			if _, err := terminal.ExecuteLine(ctx, line); err != nil {
				failed++
			}
			if terminal.Quit() {
				break
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d lines failed", failed, len(lines))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
