package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainconfig "github.com/felixgeelhaar/time-server/domain/config"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "time.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan *domainconfig.ServerConfig, 4)
	w := NewWatcher(path, nil, func(cfg *domainconfig.ServerConfig) {
		changes <- cfg
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher a moment to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case cfg := <-changes:
			if cfg.Logging.Level != "debug" {
				continue
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatcher_SkipsInvalidRevision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "time.yaml")

	called := false
	w := NewWatcher(path, nil, func(*domainconfig.ServerConfig) { called = true })

	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.reload(path)

	if called {
		t.Error("onChange should not be called for an invalid configuration")
	}
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time.yaml")
	w := NewWatcher(path, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
