package ber

import (
	"fmt"
	"math"
)

// Class is the two-bit tag class.
type Class uint8

const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "universal"
	case ClassApplication:
		return "application"
	case ClassContextSpecific:
		return "context-specific"
	default:
		return "private"
	}
}

// LengthIndefinite marks a constructed value terminated by end-of-contents.
const LengthIndefinite = -1

const (
	highTagForm    = 0x1f
	constructedBit = 0x20
	longLengthBit  = 0x80
	maxLongOctets  = 8
)

// Header is one decoded tag/length header.
//
// LengthOctets is the number of long-form length octets that followed the
// initial length octet; zero means short form (or indefinite). It is kept so
// that AppendHeader reproduces the original octets exactly.
type Header struct {
	Class        Class
	Constructed  bool
	Number       uint32
	Length       int
	LengthOctets uint8
}

func (h Header) Indefinite() bool { return h.Length == LengthIndefinite }

func (h Header) String() string {
	form := "p"
	if h.Constructed {
		form = "c"
	}
	if h.Indefinite() {
		return fmt.Sprintf("[%s %d]/%s:indefinite", h.Class, h.Number, form)
	}
	return fmt.Sprintf("[%s %d]/%s:%d", h.Class, h.Number, form, h.Length)
}

// DecodeHeader decodes the header at the start of b and returns it with the
// number of octets it occupied.
func DecodeHeader(b []byte) (Header, int, error) {
	if len(b) == 0 {
		return Header{}, 0, ErrTruncatedHeader
	}
	first := b[0]
	h := Header{
		Class:       Class(first >> 6),
		Constructed: first&constructedBit != 0,
		Number:      uint32(first & highTagForm),
	}
	i := 1
	if h.Number == highTagForm {
		n, used, err := decodeBase128(b[1:])
		if err != nil {
			return Header{}, 0, err
		}
		h.Number = n
		i += used
	}

	if i >= len(b) {
		return Header{}, 0, ErrTruncatedHeader
	}
	lb := b[i]
	i++
	switch {
	case lb&longLengthBit == 0:
		h.Length = int(lb)
	case lb == longLengthBit:
		if !h.Constructed {
			return Header{}, 0, ErrIndefinitePrimitive
		}
		h.Length = LengthIndefinite
	case lb == 0xff:
		return Header{}, 0, ErrLengthEncoding
	default:
		n := int(lb &^ longLengthBit)
		if n > maxLongOctets {
			return Header{}, 0, ErrLengthOverflow
		}
		if len(b)-i < n {
			return Header{}, 0, ErrTruncatedHeader
		}
		var length uint64
		for _, o := range b[i : i+n] {
			length = length<<8 | uint64(o)
		}
		if length > math.MaxInt {
			return Header{}, 0, ErrLengthOverflow
		}
		h.Length = int(length)
		h.LengthOctets = uint8(n)
		i += n
	}
	return h, i, nil
}

// decodeBase128 reads a high-tag-number continuation. Leading 0x80 octets and
// numbers that fit the low-tag form are rejected as non-canonical.
func decodeBase128(b []byte) (uint32, int, error) {
	var n uint64
	for i, o := range b {
		if i == 0 && o == 0x80 {
			return 0, 0, ErrTagEncoding
		}
		n = n<<7 | uint64(o&0x7f)
		if n > math.MaxUint32 {
			return 0, 0, ErrTagOverflow
		}
		if o&0x80 == 0 {
			if n < highTagForm {
				return 0, 0, ErrTagEncoding
			}
			return uint32(n), i + 1, nil
		}
	}
	return 0, 0, ErrTruncatedHeader
}

// AppendHeader appends the encoding of h to dst. Long-form lengths use at
// least LengthOctets octets; lengths above 127 always use the long form.
func AppendHeader(dst []byte, h Header) []byte {
	first := byte(h.Class&0x03) << 6
	if h.Constructed {
		first |= constructedBit
	}
	if h.Number < highTagForm {
		dst = append(dst, first|byte(h.Number))
	} else {
		dst = append(dst, first|highTagForm)
		dst = appendBase128(dst, h.Number)
	}

	switch {
	case h.Length == LengthIndefinite:
		return append(dst, longLengthBit)
	case h.LengthOctets == 0 && h.Length < longLengthBit:
		return append(dst, byte(h.Length))
	}
	n := max(int(h.LengthOctets), octetsFor(uint64(h.Length)))
	dst = append(dst, longLengthBit|byte(n))
	for shift := (n - 1) * 8; shift >= 0; shift -= 8 {
		dst = append(dst, byte(uint64(h.Length)>>uint(shift)))
	}
	return dst
}

// AppendTLV appends a definite-length TLV with the given value.
func AppendTLV(dst []byte, class Class, constructed bool, number uint32, value []byte) []byte {
	dst = AppendHeader(dst, Header{Class: class, Constructed: constructed, Number: number, Length: len(value)})
	return append(dst, value...)
}

// HeaderLen returns the encoded size of h.
func HeaderLen(h Header) int {
	return len(AppendHeader(make([]byte, 0, 16), h))
}

func appendBase128(dst []byte, n uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(n & 0x7f)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		tmp[i] = byte(n&0x7f) | 0x80
	}
	return append(dst, tmp[i:]...)
}

func octetsFor(v uint64) int {
	n := 1
	for v > 0xff {
		v >>= 8
		n++
	}
	return n
}
