package ber

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

const DefaultMaxDepth = 64

// Options tune a structural scan.
type Options struct {
	// KnownRoot reports whether a root tag is worth descending into. Roots it
	// rejects are kept as FlagSkipped boundaries. Nil accepts every root.
	KnownRoot func(class Class, number uint32) bool
	// MaxDepth bounds nesting; zero means DefaultMaxDepth.
	MaxDepth int
	// SkipPadding skips 0x00 and 0xFF filler octets between records.
	SkipPadding bool
}

func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, SkipPadding: true}
}

// Scanner performs sequential structural scans. It holds no per-scan state
// and may be shared.
type Scanner struct {
	opts Options
}

func NewScanner(opts Options) *Scanner {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Scanner{opts: opts}
}

// Scan scans buf with DefaultOptions.
func Scan(buf []byte) (*Arena, error) {
	return NewScanner(DefaultOptions()).Scan(buf)
}

// Scan walks buf once and returns the node arena. Structural errors inside a
// record are recorded as faults. An error at depth 0 stops the scan; the
// records before it are still returned, and an error is returned only when no
// record boundary could be established at all.
func (s *Scanner) Scan(buf []byte) (*Arena, error) {
	st := &scanState{
		opts:  s.opts,
		buf:   buf,
		arena: &Arena{nodes: make([]Node, 0, len(buf)/6+1)},
	}
	a := st.arena
	off := 0
	for off < len(buf) {
		if s.opts.SkipPadding && (buf[off] == 0x00 || buf[off] == 0xff) {
			off++
			a.Padding++
			continue
		}
		st.root = len(a.nodes)
		nodeMark, faultMark := len(a.nodes), len(a.faults)
		next, ferr := st.node(NoParent, off, len(buf), 0)
		if ferr != nil {
			a.nodes = a.nodes[:nodeMark]
			a.faults = a.faults[:faultMark]
			a.stop = ferr.err
			log.Warn().
				Int("offset", ferr.err.Offset).
				Int("records", len(a.roots)).
				Err(ferr.err.Err).
				Msg("ber.Scan stopped at record boundary")
			break
		}
		a.roots = append(a.roots, st.root)
		off = next
	}
	if a.stop != nil && len(a.roots) == 0 {
		return a, fmt.Errorf("%w: %w", ErrNoRecords, a.stop)
	}
	log.Debug().
		Int("bytes", len(buf)).
		Int("nodes", len(a.nodes)).
		Int("records", len(a.roots)).
		Int("faults", len(a.faults)).
		Int("padding", a.Padding).
		Msg("ber.Scan complete")
	return a, nil
}

type scanState struct {
	opts  Options
	buf   []byte
	arena *Arena
	root  int
	// strict > 0 while a speculative rescan is running; errors propagate
	// instead of being recovered.
	strict int
}

// nodeFault is an unrecovered structural error on its way up the stack.
type nodeFault struct {
	err    *StructuralError
	node   int
	resume int
}

func (st *scanState) fail(offset, depth, node, resume int, err error) *nodeFault {
	return &nodeFault{
		err:    &StructuralError{Offset: offset, Depth: depth, Err: err},
		node:   node,
		resume: resume,
	}
}

// node scans the TLV at off, which must end at or before limit, and returns
// the offset just past it.
func (st *scanState) node(parent, off, limit, depth int) (int, *nodeFault) {
	a := st.arena
	h, n, err := DecodeHeader(st.buf[off:limit])
	if err != nil {
		return off, st.fail(off, depth, -1, -1, err)
	}
	valueStart := off + n
	idx := len(a.nodes)
	a.nodes = append(a.nodes, Node{
		Class:       h.Class,
		Constructed: h.Constructed,
		Indefinite:  h.Indefinite(),
		Depth:       uint16(depth),
		Number:      h.Number,
		Parent:      int32(parent),
		TLVStart:    off,
		ValueStart:  valueStart,
	})
	if depth > st.opts.MaxDepth {
		a.nodes[idx].Flags |= FlagMalformed
		return off, st.fail(off, depth, idx, valueStart, ErrTooDeep)
	}
	skip := depth == 0 && st.opts.KnownRoot != nil && !st.opts.KnownRoot(h.Class, h.Number)

	if h.Indefinite() {
		faultMark := len(a.faults)
		end, ferr := st.children(idx, valueStart, limit, depth+1, true)
		if ferr != nil {
			a.nodes = a.nodes[:idx+1]
			a.faults = a.faults[:faultMark]
			a.nodes[idx].Flags |= FlagMalformed
			ferr.node = idx
			ferr.resume = -1
			return off, ferr
		}
		a.nodes[idx].ValueLength = end - valueStart
		if skip {
			a.nodes = a.nodes[:idx+1]
			a.faults = a.faults[:faultMark]
			st.skipped(idx)
		}
		return end + 2, nil
	}

	if h.Length > limit-valueStart {
		a.nodes[idx].Flags |= FlagMalformed
		return off, st.fail(off, depth, idx, valueStart, ErrLengthOverrun)
	}
	end := valueStart + h.Length
	a.nodes[idx].ValueLength = h.Length
	if skip {
		st.skipped(idx)
		return end, nil
	}
	if h.Constructed {
		if _, ferr := st.children(idx, valueStart, end, depth+1, false); ferr != nil {
			return off, ferr
		}
	}
	return end, nil
}

func (st *scanState) skipped(idx int) {
	n := &st.arena.nodes[idx]
	n.Flags |= FlagSkipped
	log.Debug().
		Int("offset", n.TLVStart).
		Str("class", n.Class.String()).
		Uint32("tag", n.Number).
		Msg("ber.Scan skipped unknown record type")
}

// children scans the contents of a constructed value. Definite-length
// contents end at limit and recover from child errors at that boundary;
// indefinite contents end at the first end-of-contents marker and propagate
// errors, since their own end is unknown.
func (st *scanState) children(parent, start, limit, depth int, indefinite bool) (int, *nodeFault) {
	off := start
	for {
		if indefinite {
			if limit-off >= 2 && st.buf[off] == 0 && st.buf[off+1] == 0 {
				return off, nil
			}
			if off >= limit {
				return off, st.fail(off, depth, -1, -1, ErrUnterminated)
			}
		} else if off >= limit {
			return limit, nil
		}

		next, ferr := st.node(parent, off, limit, depth)
		if ferr == nil {
			off = next
			continue
		}
		if indefinite || st.strict > 0 {
			return off, ferr
		}
		st.record(parent, ferr)
		st.resync(parent, limit, depth, ferr)
		return limit, nil
	}
}

// resync decides where scanning continues after a child fault inside a
// definite-length parent. The contents after the malformed header are kept
// only if they scan cleanly up to the parent's end; otherwise everything up to
// the parent's end is abandoned.
func (st *scanState) resync(parent, limit, depth int, ferr *nodeFault) {
	if ferr.resume <= 0 || ferr.resume >= limit {
		return
	}
	a := st.arena
	nodeMark, faultMark := len(a.nodes), len(a.faults)
	st.strict++
	_, retry := st.children(parent, ferr.resume, limit, depth, false)
	st.strict--
	if retry != nil {
		a.nodes = a.nodes[:nodeMark]
		a.faults = a.faults[:faultMark]
		return
	}
	for i := nodeMark; i < len(a.nodes); i++ {
		a.nodes[i].Flags |= FlagRecovered
	}
	log.Debug().
		Int("offset", ferr.resume).
		Int("parent", parent).
		Int("recovered", len(a.nodes)-nodeMark).
		Msg("ber.Scan resumed after malformed header")
}

func (st *scanState) record(parent int, ferr *nodeFault) {
	st.arena.faults = append(st.arena.faults, Fault{
		Root:   st.root,
		Parent: parent,
		Node:   ferr.node,
		Err:    ferr.err,
	})
	log.Warn().
		Int("offset", ferr.err.Offset).
		Int("depth", ferr.err.Depth).
		Int("root", st.root).
		Err(ferr.err.Err).
		Msg("ber.Scan structural fault")
}

// IsStructural reports whether err carries a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
