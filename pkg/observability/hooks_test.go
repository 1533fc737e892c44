package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "demo.tscproj")
	p.OnLoadComplete(ctx, "demo.tscproj", time.Second, nil)
	p.OnTransformStart(ctx, "spatial", 1.5)
	p.OnTransformComplete(ctx, "spatial", 1.5, time.Second, nil)
	p.OnSaveStart(ctx, "out.tscproj")
	p.OnSaveComplete(ctx, "out.tscproj", 1024, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "transform")
	c.OnCacheMiss(ctx, "report")
	c.OnCacheSet(ctx, "transform", 1024)

	a := NoopAPIHooks{}
	a.OnRequest(ctx, "POST", "/v1/xyscale")
	a.OnResponse(ctx, "POST", "/v1/xyscale", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Error("API() should return NoopAPIHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customAPI := &testAPIHooks{}
	SetAPIHooks(customAPI)
	if API() != customAPI {
		t.Error("SetAPIHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnTransformComplete(ctx, "temporal", 2, time.Millisecond, nil)
	h.OnSaveComplete(ctx, "out.tscproj", 10, time.Millisecond, errors.New("disk full"))
	h.OnCacheHit(ctx, "transform")

	out := buf.String()
	for _, want := range []string{"transform", "temporal", "save failed", "disk full", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testAPIHooks struct{ NoopAPIHooks }
