package health

import (
	"sync"
	"testing"
)

func TestSetReadyConcurrent(t *testing.T) {
	h := NewHandler(nil, nil)
	if h.Ready() {
		t.Fatal("handler ready before SetReady")
	}

	// SetReady fires from the startup goroutine while probes read readiness;
	// run both sides together so the race detector can see the access pattern.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.SetReady()
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			h.Ready()
		}
	}()
	wg.Wait()

	if !h.Ready() {
		t.Fatal("handler not ready after SetReady")
	}
}
