// Command flod assembles and disassembles FLOD packets from the command
// line, backed by a file-based keyring.
package main

import (
	"fmt"
	"os"

	"github.com/flod-project/flod/cmd/flod/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
