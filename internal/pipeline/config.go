package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/cdrdecode/internal/interpret"
	"github.com/danmuck/cdrdecode/internal/output"
	"github.com/danmuck/cdrdecode/internal/source"
)

var ErrInvalidConfig = errors.New("pipeline: invalid config")

// Config tunes a run.
type Config struct {
	// Workers is the interpreter parallelism per file.
	Workers int
	// FileWorkers bounds how many files are decoded at once.
	FileWorkers  int
	Format       output.Format
	OutputDir    string
	MaxFileBytes int64
	// Extensions filters files found while walking directories. Files named
	// directly are always kept.
	Extensions []string
}

func DefaultConfig() Config {
	return Config{
		Workers:      interpret.DefaultWorkers,
		FileWorkers:  1,
		Format:       output.FormatParquet,
		OutputDir:    "out",
		MaxFileBytes: source.DefaultLimits().MaxBytes,
		Extensions:   []string{".gz", ".zip", ".ber", ".cdr"},
	}
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.FileWorkers < 1 {
		return fmt.Errorf("%w: file_workers must be >= 1, got %d", ErrInvalidConfig, c.FileWorkers)
	}
	if _, err := output.ParseFormat(string(c.Format)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalidConfig)
	}
	if c.MaxFileBytes < 0 {
		return fmt.Errorf("%w: max_file_bytes must be >= 0", ErrInvalidConfig)
	}
	return nil
}
