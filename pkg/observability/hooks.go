// Package observability lets the CLI watch the library packages without
// those packages importing a logger or metrics backend.
//
// Four hook families cover the interesting work: [PipelineHooks] for
// decode, mesh, arrange and render stages, [SceneHooks] for arena swaps,
// [CacheHooks] for cache traffic and [HTTPHooks] for font downloads. Each
// family defaults to a no-op. [Install] registers a value for every family
// it implements:
//
//	observability.Install(&logHooks{logger: l})
//	defer observability.Reset()
//
// Emitters fetch the current hooks per call:
//
//	observability.Pipeline().OnDecodeStart(ctx, source)
//
// The arrangement engine emits nothing; the pipeline and the scene stage
// report on its behalf.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes the font-to-frame stages.
type PipelineHooks interface {
	OnDecodeStart(ctx context.Context, source string)
	OnDecodeComplete(ctx context.Context, source string, glyphs int, duration time.Duration, err error)
	OnMeshStart(ctx context.Context, glyphs int)
	OnMeshComplete(ctx context.Context, glyphs int, duration time.Duration, err error)
	OnArrangeStart(ctx context.Context, shape string, count int)
	OnArrangeComplete(ctx context.Context, shape string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// SceneHooks observes glyph arenas becoming current and being freed.
type SceneHooks interface {
	OnArenaLoad(ctx context.Context, id string, version uint64, objects int)
	OnArenaRelease(ctx context.Context, id string, version uint64)
}

// CacheHooks observes cache lookups and writes. kind is "font", "glyphs"
// or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks observes font downloads.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// ===== No-op defaults =====

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecodeStart(context.Context, string) {}
func (NoopPipelineHooks) OnDecodeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnMeshStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnMeshComplete(context.Context, int, time.Duration, error)        {}
func (NoopPipelineHooks) OnArrangeStart(context.Context, string, int)                      {}
func (NoopPipelineHooks) OnArrangeComplete(context.Context, string, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

type NoopSceneHooks struct{}

func (NoopSceneHooks) OnArenaLoad(context.Context, string, uint64, int) {}
func (NoopSceneHooks) OnArenaRelease(context.Context, string, uint64)   {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// ===== Registry =====

// registry is replaced as a whole on every change, so readers never lock.
type registry struct {
	pipeline PipelineHooks
	scene    SceneHooks
	cache    CacheHooks
	http     HTTPHooks
}

func noops() *registry {
	return &registry{NoopPipelineHooks{}, NoopSceneHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}
}

var current atomic.Pointer[registry]

func init() { current.Store(noops()) }

// Install registers h for every hook family it implements and returns how
// many families that was. Families h does not implement keep their hooks.
func Install(h any) int {
	for {
		old := current.Load()
		next := *old
		n := 0
		if p, ok := h.(PipelineHooks); ok {
			next.pipeline, n = p, n+1
		}
		if s, ok := h.(SceneHooks); ok {
			next.scene, n = s, n+1
		}
		if c, ok := h.(CacheHooks); ok {
			next.cache, n = c, n+1
		}
		if x, ok := h.(HTTPHooks); ok {
			next.http, n = x, n+1
		}
		if n == 0 || current.CompareAndSwap(old, &next) {
			return n
		}
	}
}

// Reset restores the no-op hooks.
func Reset() { current.Store(noops()) }

func Pipeline() PipelineHooks { return current.Load().pipeline }
func Scene() SceneHooks       { return current.Load().scene }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }
