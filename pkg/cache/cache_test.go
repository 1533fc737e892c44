package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
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
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte(`{"width": 2880}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != `{"width": 2880}` {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}

	entries, size, err := c.Stats()
	if err != nil || entries != 1 || size == 0 {
		t.Errorf("Stats = %d, %d, %v", entries, size, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry missed")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCache_Corrupt(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = %v, %v", hit, err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear = %d, %v", n, err)
	}
	if entries, _, _ := c.Stats(); entries != 0 {
		t.Errorf("%d entries after Clear", entries)
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
	base := TransformKeyOpts{Kind: "spatial", Factor: 1.5}

	tests := []struct {
		name string
		opts TransformKeyOpts
	}{
		{"kind", TransformKeyOpts{Kind: "temporal", Factor: 1.5}},
		{"factor", TransformKeyOpts{Kind: "spatial", Factor: 2}},
		{"preserve", TransformKeyOpts{Kind: "spatial", Factor: 1.5, PreserveAudio: true}},
		{"ascii", TransformKeyOpts{Kind: "spatial", Factor: 1.5, EnsureASCII: true}},
	}
	for _, tt := range tests {
		if k.TransformKey("doc", base) == k.TransformKey("doc", tt.opts) {
			t.Errorf("%s does not change the key", tt.name)
		}
	}
	if k.TransformKey("doc", base) != k.TransformKey("doc", base) {
		t.Error("TransformKey is not deterministic")
	}
	if k.TransformKey("a", base) == k.TransformKey("b", base) {
		t.Error("document hash does not change the key")
	}
	if k.ReportKey("doc", ReportKeyOpts{Mode: "info"}) == k.ReportKey("doc", ReportKeyOpts{Mode: "analyze"}) {
		t.Error("report mode does not change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:")
	key := scoped.TransformKey("doc", TransformKeyOpts{})
	want := "tenant:" + NewDefaultKeyer().TransformKey("doc", TransformKeyOpts{})
	if key != want {
		t.Errorf("TransformKey = %s, want %s", key, want)
	}
	if got := scoped.ReportKey("doc", ReportKeyOpts{}); got[:7] != "tenant:" {
		t.Errorf("ReportKey not prefixed: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap")
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	defer func() { retryDelay = 100 * time.Millisecond }()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"non-retryable", 5, false, 1, true},
		{"recovers", 1, true, 2, false},
		{"gives up", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.retryable {
					return Retryable(errTransient)
				}
				return errTransient
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
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
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestClassify(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if !IsRetryable(classify(netErr)) {
		t.Error("network error should be retryable")
	}
	if IsRetryable(classify(errTransient)) {
		t.Error("plain error should not be retryable")
	}
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("NewRedisCache accepted an invalid url")
	}
}
