package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"

	"github.com/spf13/afero"
)

// Initialize creates the configuration directory, then loads it. Existing
// files are kept.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	if err := InitializeFs(fs, logger); err != nil {
		return nil, err
	}

	logger.Printf("Configuration written to %s\n", dir)
	return Load(dir)
}

// InitializeFs writes the default configuration and a new host key to fs.
func InitializeFs(fs afero.Fs, logger *log.Logger) error {
	if ok, err := afero.Exists(fs, ConfigurationName); err != nil {
		return err
	} else if ok {
		logger.Printf("- %s exists, skipping\n", ConfigurationName)
	} else {
		logger.Printf("- Writing %s\n", ConfigurationName)
		if err := afero.WriteFile(fs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return err
		}
	}

	if ok, err := afero.Exists(fs, PrivateKeyName); err != nil {
		return err
	} else if ok {
		logger.Printf("- %s exists, skipping\n", PrivateKeyName)
	} else {
		logger.Printf("- Generating %s\n", PrivateKeyName)
		keyPem, err := generatePrivateKey()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fs, PrivateKeyName, keyPem, 0600); err != nil {
			return err
		}
	}

	return nil
}

func generatePrivateKey() ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), nil
}
