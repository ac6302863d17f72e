package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCacheDirFromConfig(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Cache.Dir = "/tmp/algotrace-test-cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/tmp/algotrace-test-cache" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, log.InfoLevel)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Cache.Dir = dir

	var buf bytes.Buffer
	cmd := c.cachePathCommand()
	cmd.SetOut(&buf)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "ab", "cdef.json")
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entry, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	c.cfg.Cache.Dir = dir

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Errorf("entry should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should still exist: %v", err)
	}
}
