package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd(&globals{})

	if cmd.Use != "watch" {
		t.Errorf("Use = %q, want 'watch'", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Flags().Lookup("output-dir") == nil {
		t.Error("missing --output-dir flag")
	}
}

func TestDebounceDefault(t *testing.T) {
	cmd := newWatchCmd(&globals{})

	flag := cmd.Flags().Lookup("debounce")
	if flag == nil {
		t.Fatal("missing --debounce flag")
	}

	if flag.DefValue != "500ms" {
		t.Errorf("debounce default = %q, want '500ms'", flag.DefValue)
	}
}

func TestRunWatch_RequiresConfig(t *testing.T) {
	err := runWatch(context.Background(), testGlobals(t, ""), watchOptions{format: "json"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--config")
}

// syncBuffer is a bytes.Buffer safe to read while runWatch writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch_RebuildsOnChange(t *testing.T) {
	g := testGlobals(t, "capacity:\n  strategy: on_demand\n")
	outDir := filepath.Join(t.TempDir(), "out")
	clusterPath := filepath.Join(outDir, "eks-cluster-stack.json")

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, g, watchOptions{debounce: 10 * time.Millisecond, format: "json", outputDir: outDir}, out)
	}()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(clusterPath)
		return err == nil && strings.Contains(string(data), "ON_DEMAND")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(g.configPath, []byte("capacity:\n  strategy: spot\n"), 0o644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(clusterPath)
		return err == nil && strings.Contains(string(data), "SPOT")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, out.String(), "Change detected")
}
