package config

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	gossh "golang.org/x/crypto/ssh"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	cfg, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}

	// Initializing twice keeps the existing files.
	if _, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	t.Run("OpenAppLog", func(t *testing.T) {
		fd, err := cfg.OpenAppLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("ReadAppLog", func(t *testing.T) {
		fd, err := cfg.ReadAppLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("PrivateKeyPem", func(t *testing.T) {
		keyPem, err := cfg.PrivateKeyPem()
		assert.Nil(t, err)

		_, err = gossh.ParsePrivateKey(keyPem)
		assert.Nil(t, err)
	})
}

func TestInitializeFsKeepsConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	custom := []byte("prompt: '% '\n")
	assert.Nil(t, afero.WriteFile(fs, ConfigurationName, custom, 0600))

	assert.Nil(t, InitializeFs(fs, log.New(ioutil.Discard, "", 0)))

	data, err := afero.ReadFile(fs, ConfigurationName)
	assert.Nil(t, err)
	assert.Equal(t, custom, data)

	ok, err := afero.Exists(fs, PrivateKeyName)
	assert.Nil(t, err)
	assert.True(t, ok)
}
