// Command hiddiscover enumerates the local machine's input devices via
// crossput, prints what was found, and watches for connect/disconnect
// transitions until interrupted. Grounded on the teacher's main.go
// (subcommand dispatch, signal handling, fmt.Printf status lines).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TriceHelix/crossput"
	"github.com/TriceHelix/crossput/internal/evdevhid"
)

func run() error {
	reg := crossput.NewRegistry()

	n, err := reg.Discover(evdevhid.NewEnumerator())
	if err != nil {
		fmt.Fprintf(os.Stderr, "hiddiscover: discovery reported errors: %v\n", err)
	}
	fmt.Printf("hiddiscover: found %d device(s)\n", n)

	for _, d := range reg.All() {
		fmt.Printf("  [%d] %-9s %s\n", d.ID(), d.Type(), d.DisplayName())
	}

	reg.RegisterGlobalStatus(func(id crossput.ID, status crossput.Status) {
		fmt.Printf("hiddiscover: device %d -> %v\n", id, status)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	fmt.Println("hiddiscover: watching for connect/disconnect, press Ctrl+C to exit")
	for {
		select {
		case <-sigCh:
			fmt.Println("\nhiddiscover: shutting down")
			return nil
		case <-ticker.C:
			if err := reg.UpdateAll(); err != nil {
				return fmt.Errorf("update: %w", err)
			}
		}
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hiddiscover: %v\n", err)
		os.Exit(1)
	}
}
