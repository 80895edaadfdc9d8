package interpret

import (
	"errors"
	"strconv"
	"sync"

	"github.com/danmuck/cdrdecode/internal/ber"
	"github.com/danmuck/cdrdecode/internal/carrier"
	"github.com/danmuck/cdrdecode/internal/primitive"
	"github.com/danmuck/cdrdecode/internal/schema"
	"github.com/danmuck/cdrdecode/internal/source"
	"github.com/danmuck/cdrdecode/internal/value"
	"github.com/elliotchance/orderedmap/v3"
	"github.com/rs/zerolog/log"
)

const DefaultWorkers = 4

var (
	ErrConstructed = errors.New("interpret: constructed encoding for primitive field")
	ErrOutOfRange  = errors.New("interpret: value range outside source")
)

// Interpreter decodes arenas against a schema. It holds no per-call state
// and is safe for concurrent use.
type Interpreter struct {
	reg     *schema.Registry
	decoder primitive.Decoder
	workers int
}

// New returns an interpreter. A nil resolver falls back to the process-wide
// carrier table; workers below one means DefaultWorkers.
func New(reg *schema.Registry, carriers primitive.Resolver, workers int) *Interpreter {
	if carriers == nil {
		carriers = carrier.Default()
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Interpreter{reg: reg, decoder: primitive.Decoder{Carriers: carriers}, workers: workers}
}

// Interpret decodes arena with the default carrier table.
func Interpret(arena *ber.Arena, src source.ByteSource, reg *schema.Registry, workers int) ([]Record, Stats) {
	return New(reg, nil, workers).Interpret(arena, src)
}

// Interpret splits the arena's roots into contiguous near-even ranges, one
// per worker, and concatenates the results in range order. The output order
// is file order regardless of the worker count.
func (in *Interpreter) Interpret(arena *ber.Arena, src source.ByteSource) ([]Record, Stats) {
	parts := partition(arena.Roots(), in.workers)
	results := make([][]Record, len(parts))
	stats := make([]Stats, len(parts))

	// Partitions cannot fail: bad fields become value.Error.
	var wg sync.WaitGroup
	for i, roots := range parts {
		wg.Go(func() {
			results[i], stats[i] = in.decodeRange(arena, src, roots)
		})
	}
	wg.Wait()

	var total Stats
	for _, s := range stats {
		total.add(s)
	}
	out := make([]Record, 0, total.Records)
	for _, rs := range results {
		for _, r := range rs {
			r.Index = len(out)
			out = append(out, r)
		}
	}
	log.Debug().
		Int("workers", len(parts)).
		Int("records", total.Records).
		Int("skipped", total.Skipped).
		Int("field_errors", total.FieldErrors).
		Int("faults", total.Faults).
		Int("recovered", total.Recovered).
		Msg("interpret.Interpret complete")
	return out, total
}

// partition splits roots into at most n contiguous ranges whose sizes differ
// by at most one.
func partition(roots []int, n int) [][]int {
	if len(roots) == 0 {
		return nil
	}
	n = max(1, min(n, len(roots)))
	base, rem := len(roots)/n, len(roots)%n
	parts := make([][]int, 0, n)
	lo := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		parts = append(parts, roots[lo:lo+size])
		lo += size
	}
	return parts
}

func (in *Interpreter) decodeRange(a *ber.Arena, src source.ByteSource, roots []int) ([]Record, Stats) {
	var st Stats
	out := make([]Record, 0, len(roots))
	for _, root := range roots {
		n := a.Node(root)
		rt, ok := in.reg.RecordTypeFor(n.Number)
		if n.Skipped() || !ok || !in.reg.KnownRoot(n.Class, n.Number) {
			st.Skipped++
			log.Debug().
				Int("offset", n.TLVStart).
				Str("class", n.Class.String()).
				Uint32("tag", n.Number).
				Msg("interpret.Interpret skipped record")
			continue
		}
		rec := in.decodeRecord(a, src, root, rt)
		st.Records++
		st.Fields += rec.Len()
		st.FieldErrors += rec.Errors()
		st.Faults += len(rec.Faults)
		st.Recovered += len(rec.Recovered)
		out = append(out, rec)
	}
	return out, st
}

type pathState struct {
	path schema.Path
	ok   bool
}

func (in *Interpreter) decodeRecord(a *ber.Arena, src source.ByteSource, root int, rt schema.RecordType) Record {
	start, end := a.Subtree(root)
	rootNode := a.Node(root)
	rec := Record{
		Root:   root,
		Offset: rootNode.TLVStart,
		Type:   rt,
		Fields: orderedmap.NewOrderedMapWithCapacity[string, value.Value](end - start - 1),
	}
	faults := a.FaultsFor(root)
	claimed := make([]bool, len(faults))

	// paths[d] is the tag path of the most recent node at depth d.
	paths := make([]pathState, 1, 8)
	paths[0] = pathState{ok: true}
	var seen map[string]int

	for i := start + 1; i < end; i++ {
		n := a.Node(i)
		d := int(n.Depth)
		parent := paths[d-1]
		cur := pathState{}
		if parent.ok && n.Class == ber.ClassContextSpecific {
			cur.path, cur.ok = parent.path.Append(n.Number)
		}
		if d < len(paths) {
			paths = paths[:d]
		}
		paths = append(paths, cur)
		if !cur.ok {
			continue
		}
		rule, ok := in.reg.Resolve(rt.Tag, cur.path)
		if !ok {
			continue
		}

		var v value.Value
		switch {
		case n.Malformed():
			v = value.Error{Reason: "malformed"}
			for k, f := range faults {
				if f.Node == i {
					v = value.Errorf(f.Err)
					claimed[k] = true
					break
				}
			}
		case n.Constructed:
			v = value.Errorf(ErrConstructed)
		default:
			b := src.Slice(n.ValueStart, n.ValueLength)
			if b == nil && n.ValueLength > 0 {
				v = value.Errorf(ErrOutOfRange)
			} else {
				v = in.decoder.Decode(rule.Kind, rule.Params, b)
			}
		}

		name := rule.Name
		if _, dup := rec.Fields.Get(name); dup {
			if seen == nil {
				seen = make(map[string]int)
			}
			seen[rule.Name]++
			name = rule.Name + "." + strconv.Itoa(seen[rule.Name]+1)
		}
		rec.Fields.Set(name, v)
		if n.Recovered() {
			rec.Recovered = append(rec.Recovered, name)
		}
	}

	for k, f := range faults {
		if !claimed[k] {
			rec.Faults = append(rec.Faults, f)
		}
	}
	return rec
}
