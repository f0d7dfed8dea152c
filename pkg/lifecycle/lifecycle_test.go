package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aganswers/spotlight/pkg/lifecycle"
)

func TestReadinessGatesOnStartupHooks(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnStartup(func() { <-release })

	if lc.Ready() {
		t.Error("coordinator ready before startup hooks completed")
	}

	close(release)
	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("coordinator not ready after startup completed")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not run")
	}
}

func TestShutdownTimesOut(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	if err := lc.Shutdown(10 * time.Millisecond); err == nil {
		t.Error("expected timeout error")
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}
