// Package cliprompt provides interactive passphrase prompts for the flod
// CLI, the same role dittofs's internal/cli/prompt package plays for
// dfsctl.
package cliprompt

import (
	"github.com/manifoldco/promptui"
)

// Password prompts for a passphrase with masked input.
func Password(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	return prompt.Run()
}
