package secrets

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
	"github.com/PolarWolf314/stowaway/internal/utils"
)

// PromptText is shown when the secret has to be read interactively.
const PromptText = "Enter file password: "

// Prompter reads a secret from the operator without echoing it.
type Prompter func(ctx context.Context, prompt string) ([]byte, error)

// TerminalPrompter reads from stdin when it is a terminal and falls back to
// /dev/tty otherwise.
func TerminalPrompter(ctx context.Context, prompt string) ([]byte, error) {
	if utils.IsTerminal() {
		return utils.ReadPassphrase(ctx, prompt)
	}
	return utils.ReadPassphraseFromTTY(ctx, prompt)
}

// Acquire returns the secret for a job. args are the positional invocation
// arguments, <path> [secret]. A literal second argument wins; otherwise
// prompt is asked once. There are no retries: a failed, cancelled or empty
// prompt yields ErrNoSecret.
func Acquire(ctx context.Context, args []string, prompt Prompter) (string, error) {
	if len(args) >= 2 {
		if args[1] == "" {
			return "", fmt.Errorf("empty secret argument: %w", kerrors.ErrNoSecret)
		}
		return args[1], nil
	}

	if prompt == nil {
		return "", fmt.Errorf("no prompt available: %w", kerrors.ErrNoSecret)
	}

	secret, err := prompt(ctx, PromptText)
	if err != nil {
		return "", fmt.Errorf("%w: %w", kerrors.ErrNoSecret, err)
	}
	if len(secret) == 0 {
		return "", kerrors.ErrNoSecret
	}

	return string(secret), nil
}
