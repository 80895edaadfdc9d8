// Package carrier resolves (MCC, MNC) pairs to operator names.
//
// The process-wide table is built once from the built-in entries plus any
// entries passed to Extend before the first call to Default. It is read-only
// afterwards.
package carrier

import (
	"errors"
	"sync"

	"github.com/danmuck/cdrdecode/internal/value"
)

var ErrFrozen = errors.New("carrier: table already initialized")

type key struct {
	mcc string
	mnc string
}

// Table is an immutable operator lookup.
type Table struct {
	entries   map[key]value.Operator
	countries map[string]string
}

// NewTable builds a table. Later entries replace earlier ones with the same key.
func NewTable(entries ...value.Operator) *Table {
	t := &Table{
		entries:   make(map[key]value.Operator, len(entries)),
		countries: make(map[string]string, len(countries)),
	}
	for mcc, name := range countries {
		t.countries[mcc] = name
	}
	for _, e := range entries {
		e.Known = e.Name != ""
		if e.Country == "" {
			e.Country = countries[e.MCC]
		} else {
			t.countries[e.MCC] = e.Country
		}
		t.entries[key{e.MCC, e.MNC}] = e
	}
	return t
}

// Lookup never fails: a miss yields a placeholder carrying the raw codes.
func (t *Table) Lookup(mcc, mnc string) value.Operator {
	if e, ok := t.entries[key{mcc, mnc}]; ok {
		return e
	}
	return value.Operator{MCC: mcc, MNC: mnc, Country: t.countries[mcc]}
}

func (t *Table) Len() int { return len(t.entries) }

var (
	mu      sync.Mutex
	extras  []value.Operator
	frozen  bool
	initOne sync.Once
	global  *Table
)

// Extend queues operator entries for the process-wide table. It fails once
// Default has been called.
func Extend(entries ...value.Operator) error {
	mu.Lock()
	defer mu.Unlock()
	if frozen {
		return ErrFrozen
	}
	extras = append(extras, entries...)
	return nil
}

// Default returns the process-wide table, building it on first use.
func Default() *Table {
	initOne.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		frozen = true
		all := make([]value.Operator, 0, len(builtin)+len(extras))
		all = append(all, builtin...)
		all = append(all, extras...)
		global = NewTable(all...)
	})
	return global
}
