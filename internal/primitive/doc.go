// Package primitive decodes CDR leaf octets into typed values.
//
// Every decoder is a pure function of its input octets and parameters. A
// violated size or range constraint is reported as a *ConstraintError; the
// Decoder dispatcher turns those into value.Error so that one bad field never
// takes its record down with it.
package primitive
