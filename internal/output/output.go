// Package output writes decoded records to parquet or JSON lines files.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danmuck/cdrdecode/internal/interpret"
	"github.com/rs/zerolog/log"
)

var ErrUnknownFormat = errors.New("output: unknown format")

// Writer receives records in file order. Close flushes and releases the
// destination.
type Writer interface {
	Write(recs []interpret.Record) error
	Close() error
}

type Format string

const (
	FormatParquet Format = "parquet"
	FormatJSONL   Format = "jsonl"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatParquet, FormatJSONL:
		return f, nil
	case "json", "ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// Ext returns the file extension written for f.
func (f Format) Ext() string {
	if f == FormatJSONL {
		return ".jsonl"
	}
	return ".parquet"
}

// Meta identifies where records came from.
type Meta struct {
	Source string
	RunID  string
}

// New returns a writer for format f over w. Closing the writer closes w when
// it is an io.Closer.
func New(f Format, w io.Writer, meta Meta) (Writer, error) {
	switch f {
	case FormatParquet:
		return newParquet(w, meta), nil
	case FormatJSONL:
		return newJSONL(w, meta), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// PathFor returns the output path for a source file inside dir.
func PathFor(dir, source string, f Format) string {
	return filepath.Join(dir, stem(source)+f.Ext())
}

// Plan returns one output path per source, in order. Sources that share a
// stem get ".2", ".3", ... suffixes in input order so no two outputs collide.
func Plan(dir string, sources []string, f Format) []string {
	taken := make(map[string]bool, len(sources))
	out := make([]string, len(sources))
	for i, src := range sources {
		base := stem(src)
		name := base
		for n := 2; taken[name]; n++ {
			name = base + "." + strconv.Itoa(n)
		}
		taken[name] = true
		out[i] = filepath.Join(dir, name+f.Ext())
	}
	return out
}

func stem(source string) string {
	base := filepath.Base(source)
	for _, ext := range []string{".gz", ".zip"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Create opens path, creating its directory, and returns a writer over it.
func Create(path string, f Format, meta Meta) (Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir create failed (%s): %w", dir, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("output create failed (%s): %w", path, err)
	}
	w, err := New(f, file, meta)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Str("format", string(f)).Msg("output.Create opened")
	return w, nil
}

func closeUnderlying(w io.Writer) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
