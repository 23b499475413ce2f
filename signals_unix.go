//go:build !windows

// ABOUTME: Process signals on Unix platforms
// ABOUTME: SIGUSR1/SIGUSR2 let display hooks pause and resume playback
package main

import (
	"os"
	"os/signal"
	"syscall"
)

var (
	pauseSignal  os.Signal = syscall.SIGUSR1
	resumeSignal os.Signal = syscall.SIGUSR2
)

func notifySignals(c chan<- os.Signal) {
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, pauseSignal, resumeSignal)
}
