package main

import (
	"os"
	"syscall"
)

// terminatingSignals are the four signals spec §5 requires the core to
// ignore for the duration of a mutating operation, so that an
// interrupted rename can never leave the atomic-commit protocol
// half-finished.
func terminatingSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM}
}
