package keyring

import (
	"crypto/rsa"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/flod-project/flod/pkg/flod/wire"
)

// ManifestEntry describes one key file a Keyring should load. Exactly one
// of PrivateKeyFile / PublicKeyFile is expected to be set per entry.
type ManifestEntry struct {
	// ID is the 8-byte PGPKeyID, hex-encoded (16 hex characters). Required
	// for PublicKeyFile entries unless Plain is true; optional for
	// PrivateKeyFile entries (it additionally registers the derived public
	// key as a known signer under this id).
	ID string `mapstructure:"id" yaml:"id,omitempty"`

	// PrivateKeyFile, relative to the directory passed to BuildKeyring, holds one of
	// this party's own RSA private keys (PEM, or sealed — see Sealed).
	PrivateKeyFile string `mapstructure:"private_key_file" yaml:"private_key_file,omitempty"`

	// Sealed marks PrivateKeyFile as passphrase-protected (see SealedKey)
	// rather than plain PEM.
	Sealed bool `mapstructure:"sealed" yaml:"sealed,omitempty"`

	// PublicKeyFile, relative to the directory passed to BuildKeyring, holds a known
	// signer's RSA public key (PEM).
	PublicKeyFile string `mapstructure:"public_key_file" yaml:"public_key_file,omitempty"`

	// Plain marks PublicKeyFile as a non-PGP candidate key (spec.md's
	// all-zero-id "plain key" case) rather than a PGPKeyID-addressed one.
	Plain bool `mapstructure:"plain" yaml:"plain,omitempty"`
}

// Manifest lists the key files a Keyring should be built from.
type Manifest struct {
	Entries []ManifestEntry `mapstructure:"entries" yaml:"entries"`
}

// LoadManifest reads a YAML (or any format viper supports) manifest file
// via spf13/viper, the way pkg/config.Load reads dittofs's configuration.
func LoadManifest(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("keyring: read manifest %s: %w", path, err)
	}

	var manifest Manifest
	if err := v.Unmarshal(&manifest); err != nil {
		return nil, fmt.Errorf("keyring: parse manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// BuildKeyring loads every entry in manifest (file paths resolved relative
// to dir) into a new Keyring. passphrase is used only for entries marked
// Sealed; pass nil if the manifest has none.
func BuildKeyring(dir string, manifest *Manifest, passphrase []byte) (*Keyring, error) {
	kr := New()

	for i, entry := range manifest.Entries {
		switch {
		case entry.PrivateKeyFile != "":
			if err := loadPrivateKeyEntry(kr, dir, entry, passphrase); err != nil {
				return nil, fmt.Errorf("keyring: manifest entry %d: %w", i, err)
			}
		case entry.PublicKeyFile != "":
			if err := loadPublicKeyEntry(kr, dir, entry); err != nil {
				return nil, fmt.Errorf("keyring: manifest entry %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("keyring: manifest entry %d: neither private_key_file nor public_key_file set", i)
		}
	}

	return kr, nil
}

func loadPrivateKeyEntry(kr *Keyring, dir string, entry ManifestEntry, passphrase []byte) error {
	data, err := os.ReadFile(filepath.Join(dir, entry.PrivateKeyFile))
	if err != nil {
		return fmt.Errorf("read private key file: %w", err)
	}

	var priv *rsa.PrivateKey
	if entry.Sealed {
		priv, err = decodeSealedPrivateKey(data, passphrase)
	} else {
		priv, err = ParsePrivateKeyPEM(data)
	}
	if err != nil {
		return err
	}

	kr.AddPrivateKey(priv)

	if entry.ID != "" {
		id, err := parseID(entry.ID)
		if err != nil {
			return err
		}
		if err := kr.AddSignerKey(id, &priv.PublicKey); err != nil {
			return err
		}
	}
	return nil
}

func loadPublicKeyEntry(kr *Keyring, dir string, entry ManifestEntry) error {
	data, err := os.ReadFile(filepath.Join(dir, entry.PublicKeyFile))
	if err != nil {
		return fmt.Errorf("read public key file: %w", err)
	}

	pub, err := ParsePublicKeyPEM(data)
	if err != nil {
		return err
	}

	if entry.Plain {
		kr.AddPlainKey(pub)
		return nil
	}

	if entry.ID == "" {
		return fmt.Errorf("public_key_file entry requires id unless plain is true")
	}
	id, err := parseID(entry.ID)
	if err != nil {
		return err
	}
	return kr.AddSignerKey(id, pub)
}

func parseID(s string) ([wire.PGPKeyIDSize]byte, error) {
	var id [wire.PGPKeyIDSize]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid hex id %q: %w", s, err)
	}
	if len(raw) != wire.PGPKeyIDSize {
		return id, fmt.Errorf("id %q must be %d bytes, got %d", s, wire.PGPKeyIDSize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func decodeSealedPrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	sealed, err := ParseSealedKey(data)
	if err != nil {
		return nil, err
	}

	plaintext, err := sealed.OpenPrivateKeyPEM(passphrase)
	if err != nil {
		return nil, err
	}

	priv, err := ParsePrivateKeyPEM(plaintext)
	if err != nil {
		return nil, fmt.Errorf("parse sealed private key: %w", err)
	}
	return priv, nil
}
