//go:build windows

// ABOUTME: Process signals on Windows
// ABOUTME: Only shutdown signals exist; visibility is driven by the TUI or control channel
package main

import (
	"os"
	"os/signal"
	"syscall"
)

// No visibility signals on Windows
var pauseSignal, resumeSignal os.Signal

func notifySignals(c chan<- os.Signal) {
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
}
