package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/refetchio/refetch"
)

// Quote is the payload served by the mock server.
type Quote struct {
	Serial    int64   `json:"serial"`
	Price     float64 `json:"price"`
	UpdatedAt string  `json:"updated_at"`
}

func main() {
	// start mock server (see mock_server.go)
	go StartMockQuoteServer(":9999")
	time.Sleep(100 * time.Millisecond)

	req, err := refetch.NewRequest("http://localhost:9999/quote",
		refetch.WithTimeout(2*time.Second),
	)
	if err != nil {
		slog.Error("failed to create request", "error", err)
		os.Exit(1)
	}

	ctrl, err := refetch.New(refetch.JSONFetchFunc[Quote](req),
		refetch.WithInterval[Quote](2*time.Second),
		refetch.WithOnUpdate(func(s refetch.Snapshot[Quote]) {
			switch {
			case s.Err != nil:
				fmt.Printf("  ! error: %v\n", s.Err)
			case s.Loading:
				fmt.Println("  … fetching")
			default:
				if q, ok := s.Value(); ok {
					fmt.Printf("  quote #%d  price=%.2f  at=%s\n", q.Serial, q.Price, q.UpdatedAt)
				}
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create controller", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("refetch demo - polling http://localhost:9999/quote every 2s")
	fmt.Println("press Ctrl+C to stop")
	fmt.Println()

	ctrl.Start(ctx)

	// demonstrate a manual refresh superseding the schedule
	go func() {
		time.Sleep(5 * time.Second)
		fmt.Println("  > manual refetch (restarts the period)")
		ctrl.Refetch()
	}()

	<-ctx.Done()
	ctrl.Stop()
	fmt.Println("stopped")
}
