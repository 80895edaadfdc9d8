package ber

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/cdrdecode/internal/testutil/testlog"
)

func TestDecodeHeaderSimpleLeaf(t *testing.T) {
	testlog.Start(t)
	h, n, err := DecodeHeader([]byte{0x84, 0x02, 0x12, 0x34})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 2 {
		t.Fatalf("unexpected header size: %d", n)
	}
	if h.Class != ClassContextSpecific || h.Constructed || h.Number != 4 || h.Length != 2 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestDecodeHeaderMultiByteTag(t *testing.T) {
	testlog.Start(t)
	h, n, err := DecodeHeader([]byte{0x9f, 0x29, 0x01, 0x07})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 3 || h.Class != ClassContextSpecific || h.Constructed || h.Number != 41 || h.Length != 1 {
		t.Fatalf("unexpected header: %+v n=%d", h, n)
	}
}

func TestDecodeHeaderForms(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		in   []byte
		want Header
		n    int
	}{
		{"universal sequence", []byte{0x30, 0x00}, Header{Class: ClassUniversal, Constructed: true, Number: 16}, 2},
		{"application", []byte{0x41, 0x7f}, Header{Class: ClassApplication, Number: 1, Length: 127}, 2},
		{"private constructed", []byte{0xe5, 0x01}, Header{Class: ClassPrivate, Constructed: true, Number: 5, Length: 1}, 2},
		{"long form 1", []byte{0x80, 0x81, 0x80}, Header{Class: ClassContextSpecific, Number: 0, Length: 128, LengthOctets: 1}, 3},
		{"long form 2", []byte{0xa1, 0x82, 0x01, 0x00}, Header{Class: ClassContextSpecific, Constructed: true, Number: 1, Length: 256, LengthOctets: 2}, 4},
		{"long form padded", []byte{0x81, 0x82, 0x00, 0x05}, Header{Class: ClassContextSpecific, Number: 1, Length: 5, LengthOctets: 2}, 4},
		{"indefinite", []byte{0xa3, 0x80}, Header{Class: ClassContextSpecific, Constructed: true, Number: 3, Length: LengthIndefinite}, 2},
		{"tag 31", []byte{0x9f, 0x1f, 0x00}, Header{Class: ClassContextSpecific, Number: 31}, 3},
		{"two octet tag", []byte{0xbf, 0x81, 0x00, 0x02}, Header{Class: ClassContextSpecific, Constructed: true, Number: 128, Length: 2}, 4},
		{"max tag", []byte{0x9f, 0x8f, 0xff, 0xff, 0xff, 0x7f, 0x00}, Header{Class: ClassContextSpecific, Number: 0xffffffff}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, n, err := DecodeHeader(tc.in)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if h != tc.want || n != tc.n {
				t.Fatalf("got %+v n=%d want %+v n=%d", h, n, tc.want, tc.n)
			}
		})
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrTruncatedHeader},
		{"no length", []byte{0x84}, ErrTruncatedHeader},
		{"unterminated tag", []byte{0x9f, 0x81}, ErrTruncatedHeader},
		{"short long form", []byte{0x84, 0x82, 0x01}, ErrTruncatedHeader},
		{"leading 0x80 tag octet", []byte{0x9f, 0x80, 0x29, 0x01}, ErrTagEncoding},
		{"low tag in high form", []byte{0x9f, 0x04, 0x01}, ErrTagEncoding},
		{"tag overflow", []byte{0x9f, 0x90, 0x80, 0x80, 0x80, 0x00, 0x00}, ErrTagOverflow},
		{"length octets > 8", []byte{0x84, 0x89, 1, 1, 1, 1, 1, 1, 1, 1, 1}, ErrLengthOverflow},
		{"length > maxint", []byte{0x84, 0x88, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, ErrLengthOverflow},
		{"reserved length", []byte{0x84, 0xff}, ErrLengthEncoding},
		{"indefinite primitive", []byte{0x84, 0x80}, ErrIndefinitePrimitive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeHeader(tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestHeaderRoundTripIsBitExact(t *testing.T) {
	testlog.Start(t)
	headers := [][]byte{
		{0x84, 0x02},
		{0x9f, 0x29, 0x01},
		{0x30, 0x00},
		{0xa1, 0x80},
		{0x80, 0x81, 0x80},
		{0x81, 0x82, 0x00, 0x05},
		{0xa1, 0x83, 0x01, 0x00, 0x00},
		{0xbf, 0x81, 0x00, 0x7f},
		{0xdf, 0x83, 0xff, 0x7f, 0x84, 0x7f, 0xff, 0xff, 0xff},
		{0x5f, 0x1f, 0x00},
	}
	for _, in := range headers {
		h, n, err := DecodeHeader(in)
		if err != nil {
			t.Fatalf("decode % x: %v", in, err)
		}
		if n != len(in) {
			t.Fatalf("decode % x consumed %d", in, n)
		}
		out := AppendHeader(nil, h)
		if !bytes.Equal(out, in) {
			t.Fatalf("round trip mismatch: in=% x out=% x", in, out)
		}
		if HeaderLen(h) != len(in) {
			t.Fatalf("HeaderLen mismatch for % x", in)
		}
	}
}

func TestHeaderEncodeDecodeSweep(t *testing.T) {
	testlog.Start(t)
	numbers := []uint32{0, 1, 30, 31, 127, 128, 16383, 16384, 1 << 21, 0xffffffff}
	lengths := []int{0, 1, 127, 128, 255, 256, 65535, 65536, 1 << 24}
	for _, class := range []Class{ClassUniversal, ClassApplication, ClassContextSpecific, ClassPrivate} {
		for _, num := range numbers {
			for _, l := range lengths {
				h := Header{Class: class, Constructed: num%2 == 0, Number: num, Length: l}
				enc := AppendHeader(nil, h)
				got, n, err := DecodeHeader(enc)
				if err != nil {
					t.Fatalf("decode %+v: %v", h, err)
				}
				if n != len(enc) || got.Class != h.Class || got.Constructed != h.Constructed ||
					got.Number != h.Number || got.Length != h.Length {
					t.Fatalf("sweep mismatch: %+v -> % x -> %+v", h, enc, got)
				}
				if !bytes.Equal(AppendHeader(nil, got), enc) {
					t.Fatalf("re-encode mismatch for %+v", h)
				}
			}
		}
	}
}

func TestAppendTLV(t *testing.T) {
	testlog.Start(t)
	got := AppendTLV(nil, ClassContextSpecific, false, 4, []byte{0x12, 0x34})
	if !bytes.Equal(got, []byte{0x84, 0x02, 0x12, 0x34}) {
		t.Fatalf("unexpected tlv: % x", got)
	}
	got = AppendTLV(nil, ClassContextSpecific, false, 41, []byte{0x07})
	if !bytes.Equal(got, []byte{0x9f, 0x29, 0x01, 0x07}) {
		t.Fatalf("unexpected tlv: % x", got)
	}
}
