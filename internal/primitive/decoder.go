package primitive

import (
	"errors"

	"github.com/danmuck/cdrdecode/internal/value"
)

// Kind selects one of the primitive decoders.
type Kind uint8

const (
	KindOctetString Kind = iota + 1
	KindDigitString
	KindTBCD
	KindAddress
	KindByteEnum
	KindIA5
	KindInteger
	KindDate
	KindTime
	KindGeo
)

var kindNames = map[Kind]string{
	KindOctetString: "octet_string",
	KindDigitString: "digit_string",
	KindTBCD:        "tbcd",
	KindAddress:     "address",
	KindByteEnum:    "byte_enum",
	KindIA5:         "ia5",
	KindInteger:     "integer",
	KindDate:        "date",
	KindTime:        "time",
	KindGeo:         "geo",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var ErrUnknownKind = errors.New("primitive: unknown decoder kind")

// Params carries the per-field constraints a decoder needs.
type Params struct {
	Size Size
	Enum EnumTable
}

// Decoder dispatches octets to the decoder for a kind. It is safe for
// concurrent use when Carriers is.
type Decoder struct {
	Carriers Resolver
}

// Decode never fails: decoder errors come back as value.Error.
func (d Decoder) Decode(kind Kind, params Params, b []byte) value.Value {
	v, err := d.decode(kind, params, b)
	if err != nil {
		return value.Errorf(err)
	}
	return v
}

func (d Decoder) decode(kind Kind, p Params, b []byte) (value.Value, error) {
	switch kind {
	case KindOctetString:
		return OctetString(b, p.Size)
	case KindDigitString:
		return DigitString(b, p.Size)
	case KindTBCD:
		return TBCDString(b, p.Size)
	case KindAddress:
		return AddressString(b, p.Size)
	case KindByteEnum:
		return ByteEnum(b, p.Enum)
	case KindIA5:
		return IA5(b, p.Size)
	case KindInteger:
		return Unsigned(b, p.Size)
	case KindDate:
		return Date(b)
	case KindTime:
		return Time(b)
	case KindGeo:
		return GeoLocation(b, d.Carriers)
	default:
		return nil, constraint("decode", ErrUnknownKind, "kind %d", kind)
	}
}
