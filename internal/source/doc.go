// Package source owns the decompressed bytes of one CDR file.
//
// Ownership boundary:
// - one contiguous, immutable buffer per file
// - zero-copy sub-ranges by offset/length
// - gzip/zip/raw loading with a decompressed-size ceiling
package source
