// Package testutil holds helpers shared by the package tests.
package testutil

import "regexp"

// csi matches ANSI CSI sequences such as colour and cursor codes.
var csi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes returns s without its ANSI escape sequences, so that
// rendered CLI output can be compared as plain text.
func StripAnsiCodes(s string) string {
	return csi.ReplaceAllString(s, "")
}
