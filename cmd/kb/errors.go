package main

import (
	"fmt"
	"os"
)

// FatalError writes an error message to stderr and exits with code 1.
// Use this for fatal errors that prevent the command from completing.
//
// Example:
//
//	if err := store.Create(ctx, artifact); err != nil {
//	    FatalError("%v", err)
//	}
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
// Use this when you can provide an actionable suggestion to fix the error.
//
// Example:
//
//	FatalErrorWithHint("no workspace found", "Run 'kb init' to create one")
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(1)
}

// FatalErrorRespectJSON writes a fatal error honoring --json mode. In JSON
// mode the error goes to stderr as {"error": "..."} so scripted callers keep
// a machine-readable stream; otherwise it behaves like FatalError.
func FatalErrorRespectJSON(format string, args ...interface{}) {
	if jsonOutput {
		outputJSONError(fmt.Errorf(format, args...), "")
	}
	FatalError(format, args...)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional operations that enhance functionality but aren't required.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
