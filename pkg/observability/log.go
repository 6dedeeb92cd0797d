package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	SetEditHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, kind string) {
	h.logger.Debug("build started", "kind", kind)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, kind string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "kind", kind, "err", err)
		return
	}
	h.logger.Debug("build complete", "kind", kind, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.logger.Debug("layout started", "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, tiles int, d time.Duration) {
	h.logger.Debug("layout complete", "tiles", tiles, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
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

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "path", path, "err", err)
}

func (h *LogHooks) OnEdit(_ context.Context, op, path string, applied bool) {
	h.logger.Debug("edit", "op", op, "path", path, "applied", applied)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
	_ EditHooks     = (*LogHooks)(nil)
)
