// Package schema maps CDR record types and field tag paths to decode rules.
//
// A Registry is built once and is read-only afterwards. Lookups for tags that
// are not in the table report false rather than an error, which is how unknown
// and future fields are tolerated.
package schema
