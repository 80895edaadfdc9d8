package primitive

import "github.com/danmuck/cdrdecode/internal/value"

// TON labels keyed by the high nibble of the address header octet, with and
// without the extension bit set.
var tonLabels = EnumTable{
	0x0: "Unknown", 0x8: "Unknown",
	0x1: "International", 0x9: "International",
	0x2: "National", 0xa: "National",
	0x3: "NetworkSpecific", 0xb: "NetworkSpecific",
	0x4: "Subscriber", 0xc: "Subscriber",
	0x6: "Abbreviated", 0xe: "Abbreviated",
}

var npiLabels = EnumTable{
	0x0: "Unknown",
	0x1: "ISDN",
	0x3: "Data",
	0x4: "Telex",
	0x5: "ServiceCentre",
	0x6: "LandMobile",
	0x8: "National",
	0x9: "Private",
}

func TONLabel(code uint8) string { return tonLabels.Label(code) }
func NPILabel(code uint8) string { return npiLabels.Label(code) }

// AddressString decodes a TON/NPI header octet followed by TBCD digits.
func AddressString(b []byte, size Size) (value.Address, error) {
	if len(b) == 0 {
		return value.Address{}, constraint("address", ErrSize, "empty address")
	}
	if err := size.check("address", len(b)); err != nil {
		return value.Address{}, err
	}
	ton, npi := b[0]>>4, b[0]&0x0f
	digits, err := TBCD(b[1:])
	if err != nil {
		return value.Address{}, err
	}
	return value.Address{
		TON:      ton,
		TONLabel: TONLabel(ton),
		NPI:      npi,
		NPILabel: NPILabel(npi),
		Digits:   digits,
	}, nil
}
