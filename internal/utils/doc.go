// Package utils provides host-side helpers shared across stowaway.
//
// # Filesystem Utilities
//
//   - ResolveInputPath: resolves and validates the file argument against the working directory
//   - FileExists: checks whether a path exists
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts on stdin with echo disabled
//   - ReadPassphraseFromTTY: prompts on /dev/tty when stdin is redirected
//   - IsTerminal: reports whether stdin is a terminal
package utils
