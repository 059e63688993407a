package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownContext is cancelled when the process receives an interrupt or
// terminate signal.
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
