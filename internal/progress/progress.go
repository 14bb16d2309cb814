// Package progress prints pipeline progress lines for the aggregation CLI.
//
// Unlike diagnostic logging, progress output is part of the tool's normal
// stdout contract, so the default destination is os.Stdout with no
// timestamp prefix.
package progress

import (
	"log"
	"os"
)

var stdout = log.New(os.Stdout, "", 0)

// Logf is the package-level progress writer. It defaults to plain lines on
// stdout but may be replaced by SetLogger. Tests can capture or mute it.
var Logf func(format string, v ...interface{}) = stdout.Printf

// SetLogger replaces the progress writer. Passing nil will set a no-op writer.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
