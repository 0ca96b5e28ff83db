package utils

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// ReadPassphrase prompts for a passphrase on stdin without echoing input.
// If ctx is cancelled while waiting, the terminal state is restored and
// ctx.Err() is returned. Returns an error if stdin is not a terminal.
func ReadPassphrase(ctx context.Context, prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}

	return readPassword(ctx, fd, prompt)
}

// ReadPassphraseFromTTY prompts for a passphrase on /dev/tty (or CON on Windows).
// This is useful when stdin is being used for other input.
func ReadPassphraseFromTTY(ctx context.Context, prompt string) ([]byte, error) {
	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for passphrase input: %w", ttyPath, err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", ttyPath)
	}

	return readPassword(ctx, fd, prompt)
}

func readPassword(ctx context.Context, fd int, prompt string) ([]byte, error) {
	state, err := term.GetState(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to read terminal state: %w", err)
	}

	type result struct {
		passphrase []byte
		err        error
	}
	done := make(chan result, 1)

	fmt.Fprint(os.Stderr, prompt)
	go func() {
		passphrase, err := term.ReadPassword(fd)
		done <- result{passphrase, err}
	}()

	select {
	case r := <-done:
		fmt.Fprintln(os.Stderr) // newline after hidden input
		if r.err != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", r.err)
		}
		return r.passphrase, nil
	case <-ctx.Done():
		_ = term.Restore(fd, state)
		fmt.Fprintln(os.Stderr)
		return nil, ctx.Err()
	}
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
