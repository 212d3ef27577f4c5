package tapcheck

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// notifyFatalSignals returns a channel receiving a FatalEvent for each
// termination signal received by the process until ctx is done.
func notifyFatalSignals(ctx context.Context) <-chan FatalEvent {

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	events := make(chan FatalEvent, 1)

	go func() {

		defer signal.Stop(sigs)

		for {
			select {
			case sig := <-sigs:
				select {
				case events <- FatalEvent{Reason: fmt.Sprintf("received signal %s", sig)}:
				default:
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return events
}
