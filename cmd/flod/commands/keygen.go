package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flod-project/flod/internal/cliprompt"
	"github.com/flod-project/flod/pkg/keyring"
)

var (
	keygenBits    int
	keygenOutFile string
	keygenPubFile string
	keygenSealed  bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new RSA key pair",
	Long: `Generate a fresh RSA key pair suitable as a FLOD recipient or signer
key, and write the private key (PEM, or passphrase-sealed) and public
key (PEM) to disk.

Examples:
  flod keygen --out alice.pem --pub alice.pub.pem
  flod keygen --bits 2048 --out alice.pem --pub alice.pub.pem --sealed`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().IntVar(&keygenBits, "bits", 2048, "RSA key size in bits")
	keygenCmd.Flags().StringVar(&keygenOutFile, "out", "", "private key output file (required)")
	keygenCmd.Flags().StringVar(&keygenPubFile, "pub", "", "public key output file (required)")
	keygenCmd.Flags().BoolVar(&keygenSealed, "sealed", false, "passphrase-protect the private key file (scrypt + AES-256-GCM)")
	_ = keygenCmd.MarkFlagRequired("out")
	_ = keygenCmd.MarkFlagRequired("pub")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	priv, err := keyring.GenerateKeyPair(keygenBits)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	privPEM, err := keyring.EncodePrivateKeyPEM(priv)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if keygenSealed {
		pass, err := cliprompt.Password("Passphrase to protect private key")
		if err != nil {
			return fmt.Errorf("read passphrase: %w", err)
		}
		sealed, err := keyring.SealPrivateKeyPEM(privPEM, []byte(pass))
		if err != nil {
			return fmt.Errorf("seal private key: %w", err)
		}
		if err := os.WriteFile(keygenOutFile, sealed.Bytes(), 0o600); err != nil {
			return fmt.Errorf("write sealed private key: %w", err)
		}
	} else {
		if err := os.WriteFile(keygenOutFile, privPEM, 0o600); err != nil {
			return fmt.Errorf("write private key: %w", err)
		}
	}

	pubPEM, err := keyring.EncodePublicKeyPEM(&priv.PublicKey)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}
	if err := os.WriteFile(keygenPubFile, pubPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	id, err := keyring.Fingerprint(&priv.PublicKey)
	if err != nil {
		return fmt.Errorf("compute fingerprint: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated %d-bit key, fingerprint %x\n", keygenBits, id)
	return nil
}
