package schema

import (
	"strconv"
	"strings"
)

// MaxPathDepth is the deepest field nesting a rule can address.
const MaxPathDepth = 4

// Path is the chain of context tag numbers from a record's direct child down
// to a field. It is comparable and can be used as a map key.
type Path struct {
	tags [MaxPathDepth]uint32
	n    uint8
}

// P builds a path. It panics when given more than MaxPathDepth tags, so it is
// meant for static tables.
func P(tags ...uint32) Path {
	var p Path
	for _, t := range tags {
		var ok bool
		if p, ok = p.Append(t); !ok {
			panic("schema: path deeper than " + strconv.Itoa(MaxPathDepth))
		}
	}
	return p
}

func (p Path) Len() int { return int(p.n) }

func (p Path) At(i int) uint32 { return p.tags[i] }

// Append returns p extended by tag, or false when p is already full.
func (p Path) Append(tag uint32) (Path, bool) {
	if int(p.n) == MaxPathDepth {
		return p, false
	}
	p.tags[p.n] = tag
	p.n++
	return p, true
}

// Less orders paths by tag, element by element, shorter prefixes first.
func (p Path) Less(q Path) bool {
	for i := 0; i < int(min(p.n, q.n)); i++ {
		if p.tags[i] != q.tags[i] {
			return p.tags[i] < q.tags[i]
		}
	}
	return p.n < q.n
}

func (p Path) String() string {
	var sb strings.Builder
	for i := 0; i < int(p.n); i++ {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(uint64(p.tags[i]), 10))
	}
	return sb.String()
}
