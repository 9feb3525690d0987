package value

import (
	"fmt"
	"strings"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
)

// tableData is the payload stored in an allocator.TableImpl for a Lua
// table: an insertion-ordered mapping with hash-equality lookup, plus an
// optional metatable. Iteration order follows insertion order (spec.md
// §3); lookup uses a canonical hash key so structurally-equal keys collide
// regardless of insertion order.
type tableData struct {
	keys   []Value
	vals   []Value
	index  map[interface{}]int // hashKey(key) -> position in keys/vals
	meta   *Table
}

// Table is a handle into an Arena addressing a shared table object. Two
// Table values compare equal only if their handles (and arena) match —
// copying a Table copies the handle, never the payload, so every holder
// observes mutations (spec.md §3 "Tables are shared").
type Table struct {
	arena  *allocator.Arena
	handle allocator.Handle
}

// NewTable allocates a fresh, empty table in arena.
func NewTable(arena *allocator.Arena) *Table {
	h, impl := arena.Allocate()
	impl.Payload = &tableData{index: make(map[interface{}]int)}
	return &Table{arena: arena, handle: h}
}

func (t *Table) data() *tableData {
	return t.arena.Lookup(t.handle).Payload.(*tableData)
}

// Equal is handle identity, never structural comparison.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.arena == other.arena && t.handle == other.handle
}

// Handle exposes the raw allocator handle that identifies this table.
func (t *Table) Handle() allocator.Handle { return t.handle }

func hashKey(v Value) interface{} {
	switch v.kind {
	case KindNil:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		// Lua treats 1 and 1.0 as the same table key.
		return v.n.Float()
	case KindString:
		return v.s
	case KindTable:
		return v.table
	case KindFunction:
		return v.fn
	default:
		return nil
	}
}

// Get looks up key, consulting the metatable's __index chain if absent
// (spec.md §4.G "Index / FieldAccess"). index is a callback the evaluator
// supplies so table.go doesn't need to know how to call a Lua function or
// resolve an __index table chain by itself — it just asks.
type IndexFunc func(t *Table, key Value) (Value, error)

// RawGet looks up key without consulting any metatable.
func (t *Table) RawGet(key Value) Value {
	d := t.data()
	if i, ok := d.index[hashKey(key)]; ok {
		return d.vals[i]
	}
	return Nil
}

// Get looks up key; if absent and a metatable with __index is set, index
// is invoked to resolve it (mirroring the Lua __index fallback chain).
func (t *Table) Get(key Value, index IndexFunc) (Value, error) {
	v := t.RawGet(key)
	if !v.IsNil() {
		return v, nil
	}
	d := t.data()
	if d.meta == nil {
		return Nil, nil
	}
	handler := d.meta.RawGet(String("__index"))
	if handler.IsNil() {
		return Nil, nil
	}
	if handler.IsTable() {
		return handler.AsTable().Get(key, index)
	}
	if handler.IsFunction() && index != nil {
		return index(t, key)
	}
	return Nil, nil
}

// RawSet stores value at key, preserving insertion order for first-time
// keys and overwriting in place for existing ones.
func (t *Table) RawSet(key, val Value) {
	d := t.data()
	hk := hashKey(key)
	if i, ok := d.index[hk]; ok {
		if val.IsNil() {
			// Removing a key: compact the slices, reindex survivors.
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			d.vals = append(d.vals[:i], d.vals[i+1:]...)
			delete(d.index, hk)
			for k, pos := range d.index {
				if pos > i {
					d.index[k] = pos - 1
				}
			}
			return
		}
		d.vals[i] = val
		return
	}
	if val.IsNil() {
		return
	}
	d.index[hk] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, val)
}

// SetIndexFunc mirrors IndexFunc for __newindex; supplied by the evaluator.
type SetIndexFunc func(t *Table, key, val Value) error

// Set stores value at key, consulting __newindex when the key is absent
// and a metatable defines it.
func (t *Table) Set(key, val Value, newindex SetIndexFunc) error {
	if !t.RawGet(key).IsNil() {
		t.RawSet(key, val)
		return nil
	}
	d := t.data()
	if d.meta != nil {
		handler := d.meta.RawGet(String("__newindex"))
		if handler.IsTable() {
			return handler.AsTable().Set(key, val, newindex)
		}
		if handler.IsFunction() && newindex != nil {
			return newindex(t, key, val)
		}
	}
	t.RawSet(key, val)
	return nil
}

// SetMetatable installs meta as this table's metatable (nil clears it).
func (t *Table) SetMetatable(meta *Table) { t.data().meta = meta }

// Metatable returns the current metatable, or nil.
func (t *Table) Metatable() *Table { return t.data().meta }

// Border implements the length operator on tables (spec.md glossary): any
// integer n≥0 with t[n] non-nil (or n=0) and t[n+1] nil.
func (t *Table) Border() int64 {
	d := t.data()
	if len(d.keys) == 0 {
		return 0
	}
	if t.RawGet(Int(1)).IsNil() {
		return 0
	}
	// Linear probe upward from 1 until a gap is found; tables built via
	// constructors are typically dense, so this is effectively O(n).
	var n int64 = 1
	for !t.RawGet(Int(n + 1)).IsNil() {
		n++
	}
	return n
}

// Keys returns the keys in insertion order (used by `pairs`/`next`).
func (t *Table) Keys() []Value {
	d := t.data()
	out := make([]Value, len(d.keys))
	copy(out, d.keys)
	return out
}

// Next implements the `next` built-in: given a key (or Nil for "start"),
// returns the following key/value pair in insertion order.
func (t *Table) Next(key Value) (Value, Value, bool) {
	d := t.data()
	if key.IsNil() {
		if len(d.keys) == 0 {
			return Nil, Nil, false
		}
		return d.keys[0], d.vals[0], true
	}
	i, ok := d.index[hashKey(key)]
	if !ok || i+1 >= len(d.keys) {
		return Nil, Nil, false
	}
	return d.keys[i+1], d.vals[i+1], true
}

func (t *Table) String() string {
	return fmt.Sprintf("table: 0x%08x", uint(t.handle))
}

func (t *Table) toLiteral(visited map[*Table]bool) (string, error) {
	d := t.data()
	var parts []string
	for i, k := range d.keys {
		v := d.vals[i]
		vs, err := v.toLiteral(visited)
		if err != nil {
			return "", err
		}
		if k.IsString() && isLuaIdent(k.s) {
			parts = append(parts, fmt.Sprintf("%s = %s", k.s, vs))
			continue
		}
		ks, err := k.toLiteral(visited)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("[%s] = %s", ks, vs))
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func isLuaIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}
