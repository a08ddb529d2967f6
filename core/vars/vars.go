// Package vars holds the interpreter's variable table.
//
// Every variable is multi-valued: a scalar assignment is a one element list.
package vars

import (
	"sort"
	"sync"
)

// IsName reports whether s is a valid variable name: letters, digits and
// underscores.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !IsNameChar(c) {
			return false
		}
	}
	return true
}

// IsNameChar reports whether c may appear in a variable name.
func IsNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

// Binding is a variable's value at some point in time, including absence.
type Binding struct {
	Values []string
	Bound  bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// NewTableFrom creates a table with a copy of the given variables.
func NewTableFrom(src map[string][]string) *Table {
	out := &Table{}
	for k, v := range src {
		out.Set(k, v...)
	}
	return out
}

// Table implements an in-memory variable table.
type Table struct {
	rw    sync.RWMutex
	table map[string][]string
}

// Set replaces the values of name.
func (t *Table) Set(name string, values ...string) {
	t.rw.Lock()
	defer t.rw.Unlock()

	if t.table == nil {
		t.table = make(map[string][]string)
	}
	t.table[name] = append([]string{}, values...)
}

// Unset removes name from the table.
func (t *Table) Unset(name string) {
	t.rw.Lock()
	defer t.rw.Unlock()
	if t.table != nil {
		delete(t.table, name)
	}
}

// Lookup returns a copy of the values of name and whether it is bound.
func (t *Table) Lookup(name string) ([]string, bool) {
	t.rw.RLock()
	defer t.rw.RUnlock()

	val, ok := t.table[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, val...), true
}

// Get returns the values of name, nil if it isn't bound.
func (t *Table) Get(name string) []string {
	val, _ := t.Lookup(name)
	return val
}

// Snapshot captures the binding of name so it can be restored later.
func (t *Table) Snapshot(name string) Binding {
	val, ok := t.Lookup(name)
	return Binding{Values: val, Bound: ok}
}

// Restore puts back a binding captured by Snapshot, unsetting name if it was
// absent.
func (t *Table) Restore(name string, b Binding) {
	if b.Bound {
		t.Set(name, b.Values...)
	} else {
		t.Unset(name)
	}
}

// Names returns the sorted names of all bound variables.
func (t *Table) Names() []string {
	t.rw.RLock()
	defer t.rw.RUnlock()

	var out []string
	for k := range t.table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy of the whole table.
func (t *Table) Map() map[string][]string {
	t.rw.RLock()
	defer t.rw.RUnlock()

	out := make(map[string][]string, len(t.table))
	for k, v := range t.table {
		out[k] = append([]string{}, v...)
	}
	return out
}

// Clear removes every variable.
func (t *Table) Clear() {
	t.rw.Lock()
	defer t.rw.Unlock()
	t.table = make(map[string][]string)
}
