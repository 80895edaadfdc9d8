package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
)

var (
	ErrTooLarge = errors.New("source: decompressed content exceeds limit")
	ErrEmptyZip = errors.New("source: zip archive has no file entries")
)

// Format identifies how a file is wrapped on disk.
type Format int

const (
	FormatRaw Format = iota
	FormatGzip
	FormatZip
)

func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatZip:
		return "zip"
	default:
		return "raw"
	}
}

// Limits constrains memory use while loading.
type Limits struct {
	MaxBytes int64
}

func DefaultLimits() Limits {
	return Limits{MaxBytes: 1 << 30}
}

// Sniff inspects the leading magic bytes.
func Sniff(head []byte) Format {
	switch {
	case len(head) >= 2 && head[0] == 0x1f && head[1] == 0x8b:
		return FormatGzip
	case len(head) >= 4 && bytes.Equal(head[:4], []byte("PK\x03\x04")):
		return FormatZip
	default:
		return FormatRaw
	}
}

// Open reads path fully and returns its decompressed content.
func Open(path string, limits Limits) (*Buffer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	data, format, err := Decompress(raw, limits)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	log.Debug().
		Str("path", path).
		Str("format", format.String()).
		Int("compressed", len(raw)).
		Int("bytes", len(data)).
		Msg("source.Open loaded")
	buf := Named(path, data)
	buf.format = format
	return buf, nil
}

// Decompress unwraps raw according to its sniffed format.
func Decompress(raw []byte, limits Limits) ([]byte, Format, error) {
	format := Sniff(raw)
	switch format {
	case FormatGzip:
		data, err := gunzip(raw, limits)
		return data, format, err
	case FormatZip:
		data, err := unzip(raw, limits)
		return data, format, err
	default:
		if limits.MaxBytes > 0 && int64(len(raw)) > limits.MaxBytes {
			return nil, format, ErrTooLarge
		}
		return raw, format, nil
	}
}

func gunzip(raw []byte, limits Limits) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}
	defer zr.Close()
	var out bytes.Buffer
	out.Grow(len(raw) * 4)
	budget := int64(-1)
	if limits.MaxBytes > 0 {
		budget = limits.MaxBytes
	}
	if err := copyLimited(&out, zr, budget); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func unzip(raw []byte, limits Limits) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("zip directory: %w", err)
	}
	var out bytes.Buffer
	entries := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", f.Name, err)
		}
		budget := int64(-1)
		if limits.MaxBytes > 0 {
			budget = max(limits.MaxBytes-int64(out.Len()), 0)
		}
		err = copyLimited(&out, rc, budget)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", f.Name, err)
		}
		entries++
	}
	if entries == 0 {
		return nil, ErrEmptyZip
	}
	return out.Bytes(), nil
}

// copyLimited copies r into dst; budget < 0 means unlimited.
func copyLimited(dst *bytes.Buffer, r io.Reader, budget int64) error {
	if budget < 0 {
		_, err := dst.ReadFrom(r)
		return err
	}
	n, err := dst.ReadFrom(io.LimitReader(r, budget+1))
	if err != nil {
		return err
	}
	if n > budget {
		return ErrTooLarge
	}
	return nil
}
