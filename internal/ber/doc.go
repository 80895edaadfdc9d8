// Package ber owns the BER tag/length grammar.
//
// Ownership boundary:
// - header decode/encode (tag class, constructed flag, tag number, length forms)
// - structural scan of a whole buffer into a flat node arena
// - structural faults and their recovery
//
// The scanner reads headers only. Value bytes are never interpreted here; the
// arena records where they are.
package ber
