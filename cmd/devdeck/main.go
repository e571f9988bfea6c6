// Binary devdeck finds and strips C-style comments, keeps a TODO board, runs
// a focus timer and switches the editor theme by time of day.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(newApp()).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devdeck: %v\n", err)
		os.Exit(1)
	}
}
