// Package allocator implements the process-scoped table arena described in
// spec.md §4.B: a single place that owns every table allocated by one
// interpreter, addressed by stable handles, torn down in one shot.
package allocator

import "github.com/google/uuid"

// Handle addresses a table inside an Arena. Equality/hashing for table
// Values is handle equality, never payload equality (see internal/value).
type Handle int

// TableImpl is the allocator-owned storage behind a table Handle. Its shape
// is intentionally a bare struct: internal/value.Table wraps it with the
// ordered-map/metatable/border behaviour spec.md §3 describes.
type TableImpl struct {
	// Payload is opaque to the allocator; internal/value populates it with
	// *value.tableData. Using interface{} here (instead of an import cycle
	// back to internal/value) keeps the arena a pure memory concern.
	Payload interface{}
}

// Arena owns every TableImpl allocated during one interpreter's lifetime.
// Distinct interpreters must use distinct arenas (spec.md §5); a fresh
// interpreter always gets a fresh arena, never a reused one.
type Arena struct {
	ID     uuid.UUID // diagnostics only, never part of equality or hashing
	tables []*TableImpl
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{ID: uuid.New()}
}

// Allocate reserves a new table slot and returns its stable handle.
func (a *Arena) Allocate() (Handle, *TableImpl) {
	impl := &TableImpl{}
	a.tables = append(a.tables, impl)
	return Handle(len(a.tables) - 1), impl
}

// Lookup resolves a handle to its backing TableImpl. Handles never outlive
// their arena; callers that hold on to a handle past FreeAll get a panic,
// which is the intended "use after teardown" signal during development.
func (a *Arena) Lookup(h Handle) *TableImpl {
	return a.tables[h]
}

// FreeAll releases every allocation. The arena is not reused afterwards —
// re-parsing always builds a fresh Interpreter with a fresh Arena.
func (a *Arena) FreeAll() {
	a.tables = nil
}

// Len reports how many tables have been allocated in this arena since the
// last FreeAll (including ones logically "freed" by application code, since
// the arena has no per-table GC — only bulk teardown).
func (a *Arena) Len() int {
	return len(a.tables)
}
