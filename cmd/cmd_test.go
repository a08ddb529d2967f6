package cmd

import (
	"bytes"
	"io/ioutil"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josephlewis42/treesh/core/config"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(ioutil.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	if _, err := config.Initialize(dir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	t.Run("run", func(t *testing.T) {
		out, err := executeRoot(t, "--config", dir, "run", "seq 2", "list a ~ reverse")
		assert.Nil(t, err)
		assert.Equal(t, "1\n2\na\na\n", out)
	})

	t.Run("run failure", func(t *testing.T) {
		out, err := executeRoot(t, "--config", dir, "run", "nope", "list ok")
		assert.EqualError(t, err, "1 of 2 lines failed")
		assert.Equal(t, "Unknown command nope\nok\n", out)
	})

	t.Run("complete", func(t *testing.T) {
		out, err := executeRoot(t, "--config", dir, "complete", "clear h ; list", "7")
		assert.Nil(t, err)
		assert.Equal(t, "candidates:\n- history\ncaret: 14\nline: clear history ; list\nprefix: history\n", out)
	})

	t.Run("builtins", func(t *testing.T) {
		out, err := executeRoot(t, "--config", dir, "builtins")
		assert.Nil(t, err)
		assert.Contains(t, out, "foreach\n")
	})

	t.Run("events report", func(t *testing.T) {
		out, err := executeRoot(t, "--config", dir, "events", "report")
		assert.Nil(t, err)
		assert.Contains(t, out, "log_entries:")
	})

	t.Run("events lines", func(t *testing.T) {
		out, err := executeRoot(t, "--config", dir, "events", "lines")
		assert.Nil(t, err)
		assert.Contains(t, out, "\tseq 2\n")
	})
}
