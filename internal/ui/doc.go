// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with color on capable terminals and fall back to plain
// text decorations (backticks, quotes, parentheses) when NO_COLOR is set or
// the terminal cannot display color.
//
//	ui.Done("Encrypted " + ui.Path.Sprint("secret.enc"))
//	ui.Fail("Container " + ui.Highlight.Sprint(id) + " is unavailable")
//	ui.Hint("Run " + ui.Code.Sprint("stowaway clean") + " to recover")
package ui
