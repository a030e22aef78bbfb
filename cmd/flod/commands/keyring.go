package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/flod-project/flod/internal/cliprompt"
	"github.com/flod-project/flod/pkg/flod/logging"
	"github.com/flod-project/flod/pkg/keyring"
)

// loadKeyring reads the manifest configured by --keyring-dir/--manifest and
// builds a Keyring from it, prompting for a passphrase only if the manifest
// contains at least one sealed private key entry.
func loadKeyring() (*keyring.Keyring, error) {
	manifestPath := manifestFile
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(keyringDir, manifestPath)
	}

	manifest, err := keyring.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	var passphrase []byte
	if manifestHasSealedEntry(manifest) {
		pass, err := cliprompt.Password("Keyring passphrase")
		if err != nil {
			return nil, fmt.Errorf("read passphrase: %w", err)
		}
		passphrase = []byte(pass)
		newLogger().Debug(context.TODO(), "read keyring passphrase", logging.RedactedPassphrase())
	}

	return keyring.BuildKeyring(keyringDir, manifest, passphrase)
}

func manifestHasSealedEntry(manifest *keyring.Manifest) bool {
	for _, entry := range manifest.Entries {
		if entry.Sealed {
			return true
		}
	}
	return false
}
