package site

import (
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

func TestBuilder_Watch(t *testing.T) {
	root := t.TempDir()
	cfg := siteConfig(root)
	page := filepath.Join(cfg.Source, "index.md")
	writeFile(t, page, "first\n")
	b := newBuilder(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	var (
		mu      sync.Mutex
		reports []Report
	)
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, 20*time.Millisecond, func(r Report, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				reports = append(reports, r)
			}
		})
	}()

	out := filepath.Join(cfg.Output, "index.html")
	assert.Eventually(t, func() bool {
		// Rewrite on every poll: the watcher may not be registered yet.
		_ = os.WriteFile(page, []byte("{% hide Later %}\nsecond\n{% endhide %}\n"), 0o644)
		html, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(html), `<span class="hiding-example-header">Later</span>`)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, reports)
	assert.Equal(t, []string{"index.html"}, reports[0].Pages)
}

func TestBuilder_InOutput(t *testing.T) {
	root := t.TempDir()
	cfg := siteConfig(root)
	b := newBuilder(t, cfg)

	assert.True(t, b.inOutput(cfg.Output))
	assert.True(t, b.inOutput(filepath.Join(cfg.Output, "a", "b.html")))
	assert.False(t, b.inOutput(cfg.Source))
	assert.False(t, b.inOutput(filepath.Join(root, "out-other", "x.html")))
}
