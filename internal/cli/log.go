// Package cli implements the glyphorbit command line.
//
// The root command wires configuration, the cache backend and a leveled
// logger, then dispatches to:
//
//	view        interactive terminal viewer
//	render      SVG, PNG, PDF or JSON frames
//	glyphs      decoded glyph order of a font
//	shapes      available arrangements
//	config      write or locate the configuration file
//	cache       inspect or clear cached glyphs, artifacts and fonts
//	completion  shell completion scripts
//
// The logger travels in the command context. Library packages never log
// directly; their events arrive through the observability hooks that
// [installHooks] registers before every command, so -v is enough to trace
// decode, mesh, cache and HTTP traffic.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphorbit/pkg/observability"
)

const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (elapsed)" at info level, rounded to milliseconds.
func (p *progress) done(msg string) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg + " (" + elapsed.String() + ")")
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, _ := ctx.Value(loggerKey{}).(*log.Logger); l != nil {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards library events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

// installHooks registers logHooks for every event category.
func installHooks(l *log.Logger) {
	observability.Install(&logHooks{logger: l})
}

func (h *logHooks) OnDecodeStart(_ context.Context, source string) {
	h.logger.Debug("decode started", "source", source)
}

func (h *logHooks) OnDecodeComplete(_ context.Context, source string, glyphs int, d time.Duration, err error) {
	h.done("decode", err, "source", source, "glyphs", glyphs, "duration", d)
}

func (h *logHooks) OnMeshStart(_ context.Context, glyphs int) {
	h.logger.Debug("mesh started", "glyphs", glyphs)
}

func (h *logHooks) OnMeshComplete(_ context.Context, glyphs int, d time.Duration, err error) {
	h.done("mesh", err, "glyphs", glyphs, "duration", d)
}

func (h *logHooks) OnArrangeStart(_ context.Context, shape string, count int) {
	h.logger.Debug("arrange started", "shape", shape, "objects", count)
}

func (h *logHooks) OnArrangeComplete(_ context.Context, shape string, d time.Duration, err error) {
	h.done("arrange", err, "shape", shape, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", err, "formats", formats, "duration", d)
}

func (h *logHooks) OnArenaLoad(_ context.Context, id string, version uint64, objects int) {
	h.logger.Debug("arena loaded", "id", id, "version", version, "objects", objects)
}

func (h *logHooks) OnArenaRelease(_ context.Context, id string, version uint64) {
	h.logger.Debug("arena released", "id", id, "version", version)
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h *logHooks) done(stage string, err error, kv ...any) {
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug(stage+" complete", kv...)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.SceneHooks    = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)
