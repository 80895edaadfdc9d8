package primitive

import "strconv"

// Size bounds a value's octet count. Max zero means unbounded.
type Size struct {
	Min int
	Max int
}

func Exact(n int) Size           { return Size{Min: n, Max: n} }
func Between(lo, hi int) Size    { return Size{Min: lo, Max: hi} }
func AtLeast(n int) Size         { return Size{Min: n} }
func (s Size) Unbounded() bool   { return s.Min == 0 && s.Max == 0 }
func (s Size) Allows(n int) bool { return n >= s.Min && (s.Max == 0 || n <= s.Max) }

func (s Size) String() string {
	switch {
	case s.Max == 0:
		return "[" + strconv.Itoa(s.Min) + ",)"
	case s.Min == s.Max:
		return strconv.Itoa(s.Min)
	default:
		return "[" + strconv.Itoa(s.Min) + "," + strconv.Itoa(s.Max) + "]"
	}
}

func (s Size) check(decoder string, n int) error {
	if s.Allows(n) {
		return nil
	}
	return constraint(decoder, ErrSize, "%d octets, want %s", n, s)
}
