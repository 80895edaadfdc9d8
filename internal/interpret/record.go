// Package interpret turns a scanned arena into decoded CDR records.
package interpret

import (
	"iter"
	"slices"

	"github.com/danmuck/cdrdecode/internal/ber"
	"github.com/danmuck/cdrdecode/internal/schema"
	"github.com/danmuck/cdrdecode/internal/value"
	"github.com/elliotchance/orderedmap/v3"
)

// Record is one decoded CDR. It is not modified after Interpret returns.
type Record struct {
	// Root is the arena index of the record's root node.
	Root int
	// Index is the record's position in the decoded output.
	Index int
	// Offset is the byte offset of the root TLV in the source buffer.
	Offset int
	Type   schema.RecordType
	Fields *orderedmap.OrderedMap[string, value.Value]
	// Faults are structural faults in the record that no field rule claimed.
	Faults []ber.Fault
	// Recovered names fields read from octets after a malformed header.
	Recovered []string
}

// Get returns the named field. A missing field is distinct from a field whose
// value is a value.Error.
func (r Record) Get(name string) (value.Value, bool) {
	return r.Fields.Get(name)
}

func (r Record) Len() int { return r.Fields.Len() }

// All yields fields in decode order.
func (r Record) All() iter.Seq2[string, value.Value] {
	return r.Fields.AllFromFront()
}

// IsRecovered reports whether the named field came from a recovered node.
func (r Record) IsRecovered(name string) bool {
	return slices.Contains(r.Recovered, name)
}

// Errors counts fields that decoded to value.Error.
func (r Record) Errors() int {
	n := 0
	for _, v := range r.Fields.AllFromFront() {
		if v.Kind() == value.KindError {
			n++
		}
	}
	return n
}

// Stats summarizes one Interpret call.
type Stats struct {
	Records     int
	Skipped     int
	Fields      int
	FieldErrors int
	Faults      int
	Recovered   int
}

func (s *Stats) add(o Stats) {
	s.Records += o.Records
	s.Skipped += o.Skipped
	s.Fields += o.Fields
	s.FieldErrors += o.FieldErrors
	s.Faults += o.Faults
	s.Recovered += o.Recovered
}
