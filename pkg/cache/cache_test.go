package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func init() {
	retryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "a", []byte("one"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "b", []byte("two"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "one" {
		t.Errorf("Get(a) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get(a) hit after Delete")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	n, err := c.Clear()
	if err != nil || n != 1 {
		t.Errorf("Clear() = %d, %v, want 1 entry", n, err)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("Get(b) hit after Clear")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "bandfill") {
		t.Errorf("DefaultDir() = %s", dir)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	d1 := k.DocumentKey("tpl", "data", DocumentKeyOpts{Version: "1"})
	d2 := k.DocumentKey("tpl", "data", DocumentKeyOpts{Version: "2"})
	d3 := k.DocumentKey("tpl", "other", DocumentKeyOpts{Version: "1"})
	if d1 == d2 || d1 == d3 {
		t.Error("document keys should depend on every component")
	}
	if !strings.HasPrefix(d1, "document:") {
		t.Errorf("DocumentKey = %s", d1)
	}

	a1 := k.ArtifactKey("doc", ArtifactKeyOpts{Format: "svg"})
	a2 := k.ArtifactKey("doc", ArtifactKeyOpts{Format: "pdf"})
	if a1 == a2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	want := "tenant:123:" + inner.ArtifactKey("doc", ArtifactKeyOpts{Format: "json"})
	if got := scoped.ArtifactKey("doc", ArtifactKeyOpts{Format: "json"}); got != want {
		t.Errorf("ScopedKeyer ArtifactKey = %s, want %s", got, want)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.DocumentKey("t", "d", DocumentKeyOpts{}); !strings.HasPrefix(got, "p:document:") {
		t.Errorf("ScopedKeyer with nil inner = %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should match ErrNetwork")
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errPermanent := errors.New("permanent")

	tests := []struct {
		name      string
		fail      int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"Success", 0, nil, 1, nil},
		{"Permanent", 3, errPermanent, 1, errPermanent},
		{"RecoversAfterOne", 1, Retryable(ErrNetwork), 2, nil},
		{"GivesUp", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.fail {
					return tt.err
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis", "p:"); err == nil {
		t.Error("NewRedisCache accepted a non-redis url")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("BANDFILL_REDIS_URL")
	if url == "" {
		t.Skip("BANDFILL_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "bandfill-test:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after Delete")
	}
}
