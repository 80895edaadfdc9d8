package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrNoInputs = errors.New("pipeline: no input files")

// Discover expands inputs into a deterministic file list. Directories are
// walked in lexical order and filtered by extension; files named directly are
// always kept. Duplicates are dropped.
func Discover(inputs, extensions []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input stat failed (%s): %w", in, err)
		}
		if !info.IsDir() {
			add(in)
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && matchExt(path, extensions) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("input walk failed (%s): %w", in, err)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoInputs
	}
	log.Info().Int("inputs", len(inputs)).Int("files", len(files)).Msg("pipeline.Discover complete")
	return files, nil
}

func matchExt(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range extensions {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
