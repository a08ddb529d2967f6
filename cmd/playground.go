package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/treesh/core"
	"github.com/josephlewis42/treesh/core/config"
	"github.com/josephlewis42/treesh/core/logger"
	"github.com/josephlewis42/treesh/core/shell"
)

// playgroundCmd runs the interpreter on the local terminal for testing
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run the interpreter on the local terminal with a throwaway configuration.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		playgroundLogger := log.New(cmd.ErrOrStderr(), "[playground] ", 0)
		cfg, err := config.Initialize(dir, playgroundLogger)
		if err != nil {
			return err
		}
		cfg.Prompt = "playground> "

		logFd, err := cfg.OpenAppLog()
		if err != nil {
			return err
		}
		defer logFd.Close()
		logRecorder := logger.NewJsonLinesLogRecorder(logFd)

		playgroundLogger.Printf("Logging to: file://%s\n", dir)
		playgroundLogger.Printf("See logs with: tail -f %s\n", filepath.Join(dir, config.AppLogName))
		playgroundLogger.Println(strings.Repeat("=", 80))

		terminal := core.NewTerminal(cfg, cmd.OutOrStdout(), nil, shell.WithRecorder(logRecorder.Session("playground")))
		terminal.Log = playgroundLogger
		if err := terminal.RestoreState(); err != nil {
			return err
		}

		rl, err := terminal.AttachReadline(os.Stdin, cmd.OutOrStdout(), readline.DefaultIsTerminal(), readline.GetScreenWidth)
		if err != nil {
			return err
		}
		defer rl.Close()

		return terminal.Run(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
