package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flod-project/flod/pkg/flod"
)

var disassembleInFile string

var disassembleCmd = &cobra.Command{
	Use:   "disassemble",
	Short: "Disassemble a FLOD packet",
	Long: `Disassemble a FLOD packet against the local keyring.

The packet is read from --in, or from stdin if --in is not given. The
keyring is built from the manifest configured by --keyring-dir and
--manifest (see the root command's help). Prints the recovered message,
its outcome classification, and (if present) the claimed signer id.`,
	RunE: runDisassemble,
}

func init() {
	disassembleCmd.Flags().StringVar(&disassembleInFile, "in", "", "input file holding the packet DER (reads stdin if omitted)")
}

func runDisassemble(cmd *cobra.Command, args []string) error {
	var packetDER []byte
	var err error
	if disassembleInFile != "" {
		packetDER, err = os.ReadFile(disassembleInFile)
	} else {
		packetDER, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read packet: %w", err)
	}

	keys, err := loadKeyring()
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	opts := flod.Options{Logger: newLogger()}
	result, err := flod.Disassemble(packetDER, keys, opts)
	if err != nil {
		return fmt.Errorf("disassemble packet: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "outcome:   %s\n", result.Outcome)
	fmt.Fprintf(out, "timestamp: %s\n", result.Timestamp.Format("2006-01-02 15:04:05"))
	if result.Outcome == flod.OutcomeSignedKnownSigner {
		fmt.Fprintf(out, "signer id: %s\n", hex.EncodeToString(result.PGPKeyID[:]))
	}
	fmt.Fprintf(out, "message:\n%s\n", result.Message)
	return nil
}
