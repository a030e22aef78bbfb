package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flod-project/flod/pkg/flod"
	"github.com/flod-project/flod/pkg/flod/wire"
	"github.com/flod-project/flod/pkg/keyring"
)

var (
	assembleRecipientFile string
	assembleSignerFile    string
	assembleSignerID      string
	assembleMessage       string
	assembleOutFile       string
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble a FLOD packet",
	Long: `Assemble a FLOD packet addressed to a recipient's RSA public key.

The message is read from --message, or from stdin if --message is not
given. With --signer-key and --signer-id set, the packet is signed;
otherwise it carries decoy signature bytes and disassembles as unsigned.

Examples:
  flod assemble --recipient bob.pub.pem --message "hello" --out packet.der
  flod assemble --recipient bob.pub.pem --signer-key alice.pem --signer-id 0102030405060708 < message.txt > packet.der`,
	RunE: runAssemble,
}

func init() {
	assembleCmd.Flags().StringVar(&assembleRecipientFile, "recipient", "", "recipient RSA public key PEM file (required)")
	assembleCmd.Flags().StringVar(&assembleSignerFile, "signer-key", "", "sender RSA private key PEM file (omit for an unsigned packet)")
	assembleCmd.Flags().StringVar(&assembleSignerID, "signer-id", "", "8-byte PGPKeyID, hex-encoded, claimed by --signer-key")
	assembleCmd.Flags().StringVar(&assembleMessage, "message", "", "message payload (reads stdin if omitted)")
	assembleCmd.Flags().StringVar(&assembleOutFile, "out", "", "output file for the packet DER (writes stdout if omitted)")
	_ = assembleCmd.MarkFlagRequired("recipient")
}

func runAssemble(cmd *cobra.Command, args []string) error {
	recipientData, err := os.ReadFile(assembleRecipientFile)
	if err != nil {
		return fmt.Errorf("read recipient key: %w", err)
	}
	recipientPub, err := keyring.ParsePublicKeyPEM(recipientData)
	if err != nil {
		return fmt.Errorf("parse recipient key: %w", err)
	}

	var signer *flod.Signer
	if assembleSignerFile != "" {
		if assembleSignerID == "" {
			return fmt.Errorf("--signer-id is required with --signer-key")
		}
		signerData, err := os.ReadFile(assembleSignerFile)
		if err != nil {
			return fmt.Errorf("read signer key: %w", err)
		}
		signerPriv, err := keyring.ParsePrivateKeyPEM(signerData)
		if err != nil {
			return fmt.Errorf("parse signer key: %w", err)
		}
		idBytes, err := hex.DecodeString(assembleSignerID)
		if err != nil || len(idBytes) != wire.PGPKeyIDSize {
			return fmt.Errorf("--signer-id must be %d hex-encoded bytes", wire.PGPKeyIDSize)
		}
		var id [wire.PGPKeyIDSize]byte
		copy(id[:], idBytes)
		signer = &flod.Signer{PrivateKey: signerPriv, ID: id}
	}

	payload := assembleMessage
	if payload == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read message from stdin: %w", err)
		}
		payload = string(data)
	}

	opts := flod.Options{Logger: newLogger()}
	packetDER, err := flod.Assemble(payload, recipientPub, signer, opts)
	if err != nil {
		return fmt.Errorf("assemble packet: %w", err)
	}

	out := cmd.OutOrStdout()
	if assembleOutFile != "" {
		if err := os.WriteFile(assembleOutFile, packetDER, 0o644); err != nil {
			return fmt.Errorf("write packet: %w", err)
		}
		return nil
	}
	_, err = out.Write(packetDER)
	return err
}
