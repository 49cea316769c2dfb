package scene

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
)

// Arena owns the collection built from one font load.
type Arena struct {
	ID         uuid.UUID
	Version    uint64 // assigned when the arena becomes current; 0 while pending
	Family     string
	Collection arrange.Collection
	Skipped    []rune // glyphs the mesher rejected

	released atomic.Bool
}

func newArena(family string, coll arrange.Collection) *Arena {
	return &Arena{ID: uuid.New(), Family: family, Collection: coll}
}

// Len returns the number of objects in the arena.
func (a *Arena) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Collection)
}

// Release frees every mesh in the arena. It reports whether this call did
// the release.
func (a *Arena) Release() bool {
	if a == nil || !a.released.CompareAndSwap(false, true) {
		return false
	}
	a.Collection.Release()
	return true
}

// Released reports whether the arena has been released.
func (a *Arena) Released() bool {
	return a != nil && a.released.Load()
}
