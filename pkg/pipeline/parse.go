package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/observability"
	"github.com/matzehuels/glyphorbit/pkg/source"
)

// Decode turns a loaded font into a glyph set. It does not consult the
// cache; see [Runner.DecodeWithCacheInfo].
func Decode(ctx context.Context, f *source.Font, opts Options) (*font.GlyphSet, error) {
	opts.SetDefaults()

	start := time.Now()
	observability.Pipeline().OnDecodeStart(ctx, f.Ref)

	set, err := opts.Decoder().Decode(f.Data)
	if err != nil {
		observability.Pipeline().OnDecodeComplete(ctx, f.Ref, 0, time.Since(start), err)
		return nil, err
	}
	observability.Pipeline().OnDecodeComplete(ctx, f.Ref, set.Len(), time.Since(start), nil)

	if missing := len([]rune(opts.Charset)) - set.Len(); missing > 0 {
		opts.Logger.Debug("charset runes without an outline", "font", f.Name, "missing", missing)
	}
	return set, nil
}
