// Package value defines the decoded field values produced from CDR leaves.
package value

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// Kind discriminates Value implementations.
type Kind uint8

const (
	KindInteger Kind = iota + 1
	KindText
	KindDigits
	KindEnum
	KindAddress
	KindDate
	KindTime
	KindGeo
	KindBytes
	KindError
)

var kindNames = [...]string{
	KindInteger: "integer",
	KindText:    "text",
	KindDigits:  "digits",
	KindEnum:    "enum",
	KindAddress: "address",
	KindDate:    "date",
	KindTime:    "time",
	KindGeo:     "geo",
	KindBytes:   "bytes",
	KindError:   "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one decoded field. The set of implementations is closed.
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

type Integer uint64

type Text string

// Digits is a decimal or telephony digit string.
type Digits string

type Enum struct {
	Code  uint8
	Label string
}

type Address struct {
	TON      uint8
	TONLabel string
	NPI      uint8
	NPILabel string
	Digits   string
}

// Date is a calendar date. Year is always the full four-digit year: the
// 3-octet encoding carries only 0-99, which decodes as 2000-2099.
type Date struct {
	Year  int
	Month int
	Day   int
}

type Time struct {
	Hour      int
	Minute    int
	Second    int
	Tenths    int
	HasTenths bool
}

// Operator is the carrier resolved for an (MCC, MNC) pair. Known is false
// for placeholder entries.
type Operator struct {
	MCC     string
	MNC     string
	Name    string
	Country string
	Known   bool
}

type GeoLocation struct {
	MCC      string
	MNC      string
	LAC      uint16
	Cell     uint16
	HasCell  bool
	Operator Operator
}

type RawBytes []byte

// Error marks a field that was present but could not be decoded.
type Error struct {
	Reason string
	Err    error
}

func (Integer) Kind() Kind     { return KindInteger }
func (Text) Kind() Kind        { return KindText }
func (Digits) Kind() Kind      { return KindDigits }
func (Enum) Kind() Kind        { return KindEnum }
func (Address) Kind() Kind     { return KindAddress }
func (Date) Kind() Kind        { return KindDate }
func (Time) Kind() Kind        { return KindTime }
func (GeoLocation) Kind() Kind { return KindGeo }
func (RawBytes) Kind() Kind    { return KindBytes }
func (Error) Kind() Kind       { return KindError }

func (Integer) sealed()     {}
func (Text) sealed()        {}
func (Digits) sealed()      {}
func (Enum) sealed()        {}
func (Address) sealed()     {}
func (Date) sealed()        {}
func (Time) sealed()        {}
func (GeoLocation) sealed() {}
func (RawBytes) sealed()    {}
func (Error) sealed()       {}

func (v Integer) String() string { return strconv.FormatUint(uint64(v), 10) }
func (v Text) String() string    { return string(v) }
func (v Digits) String() string  { return string(v) }
func (v Enum) String() string    { return v.Label }

func (v Address) String() string {
	return fmt.Sprintf("%s/%s/%s", v.TONLabel, v.NPILabel, v.Digits)
}

func (v Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", v.Year, v.Month, v.Day)
}

func (v Time) String() string {
	if v.HasTenths {
		return fmt.Sprintf("%02d:%02d:%02d.%d", v.Hour, v.Minute, v.Second, v.Tenths)
	}
	return fmt.Sprintf("%02d:%02d:%02d", v.Hour, v.Minute, v.Second)
}

// Seconds returns the time of day (or duration) in seconds, ignoring tenths.
func (v Time) Seconds() int {
	return v.Hour*3600 + v.Minute*60 + v.Second
}

func (v GeoLocation) String() string {
	if v.HasCell {
		return fmt.Sprintf("%s-%s-%d-%d", v.MCC, v.MNC, v.LAC, v.Cell)
	}
	return fmt.Sprintf("%s-%s-%d", v.MCC, v.MNC, v.LAC)
}

func (v RawBytes) String() string { return hex.EncodeToString(v) }

func (v Error) String() string { return v.Reason }

func (v Error) Unwrap() error { return v.Err }

// Errorf builds an Error value from err, using err's message as the reason.
func Errorf(err error) Error {
	return Error{Reason: err.Error(), Err: err}
}
