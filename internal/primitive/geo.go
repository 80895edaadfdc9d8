package primitive

import (
	"encoding/binary"

	"github.com/danmuck/cdrdecode/internal/value"
)

// Resolver maps an (MCC, MNC) pair to its operator.
type Resolver interface {
	Lookup(mcc, mnc string) value.Operator
}

// GeoLocation decodes a location area identity (5 octets) or a cell global /
// service area identity (7 octets):
//
//	octet 1: MCC digit 2 | MCC digit 1
//	octet 2: MNC digit 3 | MCC digit 3
//	octet 3: MNC digit 2 | MNC digit 1
//	octets 4-5: LAC, octets 6-7: CI or SAC
//
// An MNC digit 3 nibble equal to the filler value means a two-digit MNC.
func GeoLocation(b []byte, resolver Resolver) (value.GeoLocation, error) {
	if len(b) != 5 && len(b) != 7 {
		return value.GeoLocation{}, constraint("geo", ErrSize, "%d octets, want 5 or 7", len(b))
	}
	nibbles := [6]byte{
		b[0] & 0x0f, b[0] >> 4, b[1] & 0x0f, // MCC
		b[2] & 0x0f, b[2] >> 4, b[1] >> 4, // MNC
	}
	n := len(nibbles)
	if nibbles[5] == filler {
		n--
	}
	var digits [6]byte
	for i := 0; i < n; i++ {
		if nibbles[i] > 9 {
			return value.GeoLocation{}, constraint("geo", ErrEncoding, "nibble %d is 0x%x", i, nibbles[i])
		}
		digits[i] = '0' + nibbles[i]
	}
	g := value.GeoLocation{
		MCC: string(digits[:3]),
		MNC: string(digits[3:n]),
		LAC: binary.BigEndian.Uint16(b[3:5]),
	}
	if len(b) == 7 {
		g.Cell = binary.BigEndian.Uint16(b[5:7])
		g.HasCell = true
	}
	if resolver != nil {
		g.Operator = resolver.Lookup(g.MCC, g.MNC)
	} else {
		g.Operator = value.Operator{MCC: g.MCC, MNC: g.MNC}
	}
	return g, nil
}
