package primitive

import (
	"github.com/danmuck/cdrdecode/internal/value"
)

// EnumTable maps single-octet codes to labels.
type EnumTable map[uint8]string

const UnknownLabel = "Unknown"

// Label never fails; unmapped codes read as UnknownLabel.
func (t EnumTable) Label(code uint8) string {
	if l, ok := t[code]; ok {
		return l
	}
	return UnknownLabel
}

// ByteEnum decodes a single octet code through table.
func ByteEnum(b []byte, table EnumTable) (value.Enum, error) {
	if len(b) != 1 {
		return value.Enum{}, constraint("byte enum", ErrSize, "%d octets, want 1", len(b))
	}
	return value.Enum{Code: b[0], Label: table.Label(b[0])}, nil
}

// Unsigned decodes a big-endian unsigned integer of up to eight octets.
func Unsigned(b []byte, size Size) (value.Integer, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, constraint("integer", ErrSize, "%d octets, want [1,8]", len(b))
	}
	if err := size.check("integer", len(b)); err != nil {
		return 0, err
	}
	var n uint64
	for _, o := range b {
		n = n<<8 | uint64(o)
	}
	return value.Integer(n), nil
}

// Date decodes (YY, MM, DD) or (CC, YY, MM, DD) binary octets. Two-digit years
// are taken to be in the 2000s.
func Date(b []byte) (value.Date, error) {
	var d value.Date
	switch len(b) {
	case 3:
		if b[0] > 99 {
			return d, constraint("date", ErrRange, "year %d", b[0])
		}
		d.Year = 2000 + int(b[0])
		b = b[1:]
	case 4:
		if b[0] != 19 && b[0] != 20 {
			return d, constraint("date", ErrRange, "century %d", b[0])
		}
		if b[1] > 99 {
			return d, constraint("date", ErrRange, "year %d", b[1])
		}
		d.Year = int(b[0])*100 + int(b[1])
		b = b[2:]
	default:
		return d, constraint("date", ErrSize, "%d octets, want 3 or 4", len(b))
	}
	if b[0] < 1 || b[0] > 12 {
		return value.Date{}, constraint("date", ErrRange, "month %d", b[0])
	}
	if b[1] < 1 || b[1] > 31 {
		return value.Date{}, constraint("date", ErrRange, "day %d", b[1])
	}
	d.Month, d.Day = int(b[0]), int(b[1])
	return d, nil
}

// Time decodes (HH, MM, SS) with an optional tenths-of-second octet.
func Time(b []byte) (value.Time, error) {
	if len(b) != 3 && len(b) != 4 {
		return value.Time{}, constraint("time", ErrSize, "%d octets, want 3 or 4", len(b))
	}
	switch {
	case b[0] > 23:
		return value.Time{}, constraint("time", ErrRange, "hour %d", b[0])
	case b[1] > 59:
		return value.Time{}, constraint("time", ErrRange, "minute %d", b[1])
	case b[2] > 59:
		return value.Time{}, constraint("time", ErrRange, "second %d", b[2])
	}
	t := value.Time{Hour: int(b[0]), Minute: int(b[1]), Second: int(b[2])}
	if len(b) == 4 {
		if b[3] > 9 {
			return value.Time{}, constraint("time", ErrRange, "tenths %d", b[3])
		}
		t.Tenths, t.HasTenths = int(b[3]), true
	}
	return t, nil
}
