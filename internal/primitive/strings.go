package primitive

import (
	"strconv"

	"github.com/danmuck/cdrdecode/internal/value"
)

const filler = 0x0f

// OctetString returns b after checking its size. The result aliases b.
func OctetString(b []byte, size Size) (value.RawBytes, error) {
	if err := size.check("octet string", len(b)); err != nil {
		return nil, err
	}
	return value.RawBytes(b), nil
}

// DigitString renders each octet's unsigned value in decimal.
func DigitString(b []byte, size Size) (value.Digits, error) {
	if err := size.check("digit string", len(b)); err != nil {
		return "", err
	}
	out := make([]byte, 0, len(b)*2)
	for _, o := range b {
		out = strconv.AppendUint(out, uint64(o), 10)
	}
	return value.Digits(out), nil
}

// IA5 decodes one ASCII character per octet.
func IA5(b []byte, size Size) (value.Text, error) {
	if err := size.check("ia5 string", len(b)); err != nil {
		return "", err
	}
	for i, o := range b {
		if o > 0x7f {
			return "", constraint("ia5 string", ErrEncoding, "octet %d is 0x%02x", i, o)
		}
	}
	return value.Text(b), nil
}

// TBCD decodes telephony BCD: low nibble first, digits 10-14 as 'A'-'E', and a
// filler high nibble allowed only in the final octet.
func TBCD(b []byte) (string, error) {
	out := make([]byte, 0, len(b)*2)
	for i, o := range b {
		lo, hi := o&0x0f, o>>4
		if lo == filler {
			return "", constraint("tbcd", ErrEncoding, "filler in low nibble of octet %d", i)
		}
		out = append(out, tbcdDigit(lo))
		if hi == filler {
			if i != len(b)-1 {
				return "", constraint("tbcd", ErrEncoding, "filler before final octet at %d", i)
			}
			break
		}
		out = append(out, tbcdDigit(hi))
	}
	return string(out), nil
}

// TBCDString is TBCD with a size check.
func TBCDString(b []byte, size Size) (value.Digits, error) {
	if err := size.check("tbcd", len(b)); err != nil {
		return "", err
	}
	s, err := TBCD(b)
	return value.Digits(s), err
}

// EncodeTBCD packs digits ('0'-'9', 'A'-'E') two per octet, padding an odd
// count with a filler nibble.
func EncodeTBCD(digits string) ([]byte, error) {
	out := make([]byte, 0, (len(digits)+1)/2)
	for i := 0; i < len(digits); i += 2 {
		lo, ok := tbcdNibble(digits[i])
		if !ok {
			return nil, constraint("tbcd", ErrEncoding, "invalid digit %q", digits[i])
		}
		hi := byte(filler)
		if i+1 < len(digits) {
			if hi, ok = tbcdNibble(digits[i+1]); !ok {
				return nil, constraint("tbcd", ErrEncoding, "invalid digit %q", digits[i+1])
			}
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

func tbcdDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + n - 10
}

func tbcdNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'E':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
