package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type slowRunner struct {
	finished atomic.Bool
	err      error
}

func (r *slowRunner) Run(ctx context.Context) error {
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	r.finished.Store(true)
	return r.err
}

func TestStartExporterDoneWaitsForRun(t *testing.T) {
	r := &slowRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	done := startExporter(ctx, r, errCh)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("exporter goroutine did not finish")
	}
	if !r.finished.Load() {
		t.Fatalf("done closed before Run returned")
	}
	select {
	case err := <-errCh:
		t.Fatalf("unexpected error %v", err)
	default:
	}
}

func TestStartExporterReportsFailure(t *testing.T) {
	boom := errors.New("disk full")
	r := &slowRunner{err: boom}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	done := startExporter(ctx, r, errCh)
	cancel()
	<-done
	if err := <-errCh; !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}
