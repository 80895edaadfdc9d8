package interpret

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/danmuck/cdrdecode/internal/ber"
	"github.com/danmuck/cdrdecode/internal/carrier"
	"github.com/danmuck/cdrdecode/internal/primitive"
	"github.com/danmuck/cdrdecode/internal/schema"
	"github.com/danmuck/cdrdecode/internal/source"
	"github.com/danmuck/cdrdecode/internal/testutil/testlog"
	"github.com/danmuck/cdrdecode/internal/value"
	"github.com/stretchr/testify/require"
)

func leaf(number uint32, v ...byte) []byte {
	return ber.AppendTLV(nil, ber.ClassContextSpecific, false, number, v)
}

func cons(number uint32, children ...[]byte) []byte {
	return ber.AppendTLV(nil, ber.ClassContextSpecific, true, number, bytes.Join(children, nil))
}

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	b := schema.NewBuilder()
	require.NoError(t, b.Declare(schema.RecordType{Tag: 1, Name: "orig", Layout: true}))
	require.NoError(t, b.Declare(schema.RecordType{Tag: 2, Name: "roaming"}))
	rules := []struct {
		path schema.Path
		rule schema.Rule
	}{
		{schema.P(1), schema.Rule{Name: "first", Kind: primitive.KindTBCD}},
		{schema.P(2), schema.Rule{Name: "second", Kind: primitive.KindInteger}},
		{schema.P(4), schema.Rule{Name: "digits", Kind: primitive.KindTBCD}},
		{schema.P(5), schema.Rule{Name: "location", Kind: primitive.KindGeo}},
		{schema.P(6), schema.Rule{Name: "date", Kind: primitive.KindDate}},
		{schema.P(34, 0), schema.Rule{Name: "serviceKey", Kind: primitive.KindInteger}},
		{schema.P(34, 1), schema.Rule{Name: "gsmSCFAddress", Kind: primitive.KindAddress}},
	}
	for _, r := range rules {
		require.NoError(t, b.Register(1, r.path, r.rule))
	}
	return b.Build()
}

func decode(t *testing.T, reg *schema.Registry, buf []byte, workers int) ([]Record, Stats) {
	t.Helper()
	arena, err := ber.Scan(buf)
	require.NoError(t, err)
	require.NoError(t, arena.Validate())
	return New(reg, carrier.NewTable(), workers).Interpret(arena, source.New(buf))
}

func TestSimpleLeafDecodesTBCD(t *testing.T) {
	testlog.Start(t)
	recs, st := decode(t, testRegistry(t), cons(1, []byte{0x84, 0x02, 0x12, 0x34}), 1)
	require.Len(t, recs, 1)
	require.Equal(t, 1, st.Records)
	v, ok := recs[0].Get("digits")
	require.True(t, ok)
	require.Equal(t, value.Digits("2143"), v)
	require.Equal(t, "orig", recs[0].Type.Name)
	require.Equal(t, 0, recs[0].Offset)
}

func TestChildOverrunBecomesFieldError(t *testing.T) {
	testlog.Start(t)
	buf := []byte{0xa1, 0x05, 0x81, 0x10, 0x82, 0x01, 0x05}
	recs, st := decode(t, testRegistry(t), buf, 1)
	require.Len(t, recs, 1)
	rec := recs[0]

	first, ok := rec.Get("first")
	require.True(t, ok)
	ev, isErr := first.(value.Error)
	require.True(t, isErr, "expected error value, got %#v", first)
	require.True(t, errors.Is(ev.Err, ber.ErrLengthOverrun))

	second, ok := rec.Get("second")
	require.True(t, ok)
	require.Equal(t, value.Integer(5), second)

	require.Empty(t, rec.Faults, "claimed fault must not be repeated on the record")
	require.Equal(t, 1, st.FieldErrors)
	require.Equal(t, 2, st.Fields)
	require.Equal(t, []string{"second"}, rec.Recovered)
	require.True(t, rec.IsRecovered("second"))
	require.False(t, rec.IsRecovered("first"))
	require.Equal(t, 1, st.Recovered)
}

func TestUnclaimedFaultStaysOnRecord(t *testing.T) {
	testlog.Start(t)
	buf := []byte{0xa1, 0x05, 0x89, 0x10, 0x82, 0x01, 0x05}
	recs, st := decode(t, testRegistry(t), buf, 1)
	require.Len(t, recs, 1)
	require.Equal(t, 1, recs[0].Len())
	require.Len(t, recs[0].Faults, 1)
	require.Equal(t, 1, st.Faults)
	require.Equal(t, 0, st.FieldErrors)
}

func TestUnknownTagIsIgnored(t *testing.T) {
	testlog.Start(t)
	buf := cons(1, leaf(4, 0x21, 0x43), leaf(9, 0xde, 0xad))
	recs, st := decode(t, testRegistry(t), buf, 1)
	require.Len(t, recs, 1)
	require.Equal(t, 1, recs[0].Len())
	_, ok := recs[0].Get("digits")
	require.True(t, ok)
	require.Empty(t, recs[0].Faults)
	require.Equal(t, 0, st.FieldErrors)
}

func TestNestedCompositeAndDuplicates(t *testing.T) {
	testlog.Start(t)
	buf := cons(1,
		cons(34, leaf(0, 0x01, 0x00), leaf(1, 0x91, 0x21, 0x43)),
		leaf(4, 0x11),
		leaf(4, 0x22),
		leaf(4, 0x33),
		cons(4, leaf(0, 0x01)),
	)
	recs, _ := decode(t, testRegistry(t), buf, 1)
	require.Len(t, recs, 1)
	rec := recs[0]

	key, ok := rec.Get("serviceKey")
	require.True(t, ok)
	require.Equal(t, value.Integer(256), key)
	addr, ok := rec.Get("gsmSCFAddress")
	require.True(t, ok)
	require.Equal(t, "1234", addr.(value.Address).Digits)

	var names []string
	for name := range rec.All() {
		names = append(names, name)
	}
	require.Equal(t, []string{"serviceKey", "gsmSCFAddress", "digits", "digits.2", "digits.3", "digits.4"}, names)

	v, _ := rec.Get("digits.3")
	require.Equal(t, value.Digits("33"), v)
	v, _ = rec.Get("digits.4")
	ev, isErr := v.(value.Error)
	require.True(t, isErr)
	require.True(t, errors.Is(ev.Err, ErrConstructed))
}

func TestBadFieldKeepsSiblings(t *testing.T) {
	testlog.Start(t)
	buf := cons(1, leaf(6, 24, 13, 1), leaf(2, 0x07))
	recs, st := decode(t, testRegistry(t), buf, 1)
	require.Len(t, recs, 1)
	d, _ := recs[0].Get("date")
	require.Equal(t, value.KindError, d.Kind())
	n, _ := recs[0].Get("second")
	require.Equal(t, value.Integer(7), n)
	require.Equal(t, 1, st.FieldErrors)
}

func TestGeoFieldResolvesCarrier(t *testing.T) {
	testlog.Start(t)
	reg := testRegistry(t)
	buf := cons(1, leaf(5, 0x27, 0xf4, 0x50, 0x01, 0x2c, 0x30, 0x39))
	arena, err := ber.Scan(buf)
	require.NoError(t, err)
	tbl := carrier.NewTable(value.Operator{MCC: "724", MNC: "05", Name: "Claro"})
	recs, _ := New(reg, tbl, 2).Interpret(arena, source.New(buf))
	require.Len(t, recs, 1)
	v, ok := recs[0].Get("location")
	require.True(t, ok)
	g := v.(value.GeoLocation)
	require.Equal(t, "Claro", g.Operator.Name)
	require.Equal(t, uint16(12345), g.Cell)
}

func TestUnknownRecordTypesAreSkipped(t *testing.T) {
	testlog.Start(t)
	reg := testRegistry(t)
	buf := bytes.Join([][]byte{
		cons(1, leaf(2, 0x01)),
		cons(2, leaf(2, 0x02)),
		cons(6, leaf(2, 0x03)),
		cons(1, leaf(2, 0x04)),
	}, nil)

	for _, opts := range []ber.Options{
		ber.DefaultOptions(),
		{KnownRoot: reg.KnownRoot, SkipPadding: true},
	} {
		arena, err := ber.NewScanner(opts).Scan(buf)
		require.NoError(t, err)
		recs, st := New(reg, carrier.NewTable(), 3).Interpret(arena, source.New(buf))
		require.Len(t, recs, 2)
		require.Equal(t, 2, st.Skipped)
		require.Equal(t, 0, recs[0].Index)
		require.Equal(t, 1, recs[1].Index)
		v, _ := recs[1].Get("second")
		require.Equal(t, value.Integer(4), v)
	}
}

func TestPartition(t *testing.T) {
	testlog.Start(t)
	roots := make([]int, 10)
	for i := range roots {
		roots[i] = i * 3
	}
	for n := 1; n <= 12; n++ {
		parts := partition(roots, n)
		require.Len(t, parts, min(n, len(roots)))
		var joined []int
		lo, hi := len(roots), 0
		for _, p := range parts {
			lo, hi = min(lo, len(p)), max(hi, len(p))
			joined = append(joined, p...)
		}
		require.Equal(t, roots, joined)
		require.LessOrEqual(t, hi-lo, 1)
	}
	require.Empty(t, partition(nil, 4))
}

func summarize(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		line := fmt.Sprintf("%d/%d/%s", r.Index, r.Root, r.Type.Name)
		for name, v := range r.All() {
			line += fmt.Sprintf(" %s=%s", name, v)
		}
		out = append(out, line)
	}
	return out
}

func TestWorkerCountDoesNotChangeOutput(t *testing.T) {
	testlog.Start(t)
	reg := schema.Default()
	var buf []byte
	const k = 37
	for i := 0; i < k; i++ {
		tag := schema.MSOriginating
		if i%3 == 0 {
			tag = schema.MSTerminating
		}
		if i%11 == 5 {
			tag = schema.RoamingCallForwarding
		}
		buf = append(buf, cons(tag,
			leaf(1, byte(i>>8), byte(i)),
			leaf(4, 24, byte(i%14), 1),
			leaf(5, byte(i%24), 30, 0),
			leaf(21, 0x91, 0x55, byte(i)),
		)...)
		if i%4 == 0 {
			buf = append(buf, 0x00, 0x00)
		}
	}
	arena, err := ber.Scan(buf)
	require.NoError(t, err)
	src := source.New(buf)
	tbl := carrier.NewTable()

	base, baseStats := New(reg, tbl, 1).Interpret(arena, src)
	require.NotEmpty(t, base)
	require.Equal(t, k, baseStats.Records+baseStats.Skipped)
	want := summarize(base)
	for w := 2; w <= k; w++ {
		got, st := New(reg, tbl, w).Interpret(arena, src)
		require.Equal(t, baseStats, st, "workers=%d", w)
		require.Equal(t, want, summarize(got), "workers=%d", w)
	}
}
