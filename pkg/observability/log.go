package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) done(msg string, err error, keyvals ...any) {
	if err != nil {
		h.logger.Warn(msg+" failed", append(keyvals, "err", err)...)
		return
	}
	h.logger.Debug(msg, keyvals...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load start", "path", path)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, path string, d time.Duration, err error) {
	h.done("load", err, "path", path, "duration", d)
}

func (h *LogHooks) OnTransformStart(_ context.Context, kind string, factor float64) {
	h.logger.Debug("transform start", "kind", kind, "factor", factor)
}

func (h *LogHooks) OnTransformComplete(_ context.Context, kind string, factor float64, d time.Duration, err error) {
	h.done("transform", err, "kind", kind, "factor", factor, "duration", d)
}

func (h *LogHooks) OnSaveStart(_ context.Context, path string) {
	h.logger.Debug("save start", "path", path)
}

func (h *LogHooks) OnSaveComplete(_ context.Context, path string, size int, d time.Duration, err error) {
	h.done("save", err, "path", path, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ APIHooks      = (*LogHooks)(nil)
)
