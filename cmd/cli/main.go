package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes: 0 success, 1 findings above the opted-in severity threshold,
// 2 usage error, 3 internal error.
const (
	exitOK       = 0
	exitFindings = 1
	exitUsage    = 2
	exitInternal = 3
)

// errFindingsAboveThreshold signals exit code 1 without being an error the
// user needs explained twice; the findings were already printed.
var errFindingsAboveThreshold = errors.New("findings at or above the configured severity threshold")

// errUsage marks argument and configuration mistakes the user can fix by
// rereading --help, as opposed to internal failures.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run())
}

func run() int {
	err := Execute()
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errFindingsAboveThreshold) {
		return exitFindings
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, errUsage) {
		return exitUsage
	}
	return exitInternal
}
