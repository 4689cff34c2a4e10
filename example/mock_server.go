package main

import (
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// StartMockQuoteServer runs a mock REST endpoint that returns a fresh
// quote payload on each request, with occasional simulated failures.
// Call this in a goroutine before starting the controller.
func StartMockQuoteServer(addr string) {
	var serial atomic.Int64

	http.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		// simulate small latency variance
		time.Sleep(time.Duration(30+rand.Intn(120)) * time.Millisecond)

		// roughly one in six requests fails, to show Err transitions
		if rand.Intn(6) == 0 {
			http.Error(w, `{"error":"upstream unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"serial":     serial.Add(1),
			"price":      100 + rand.Float64()*10,
			"updated_at": time.Now().Format(time.RFC3339),
		})
	})

	_ = http.ListenAndServe(addr, nil)
}
