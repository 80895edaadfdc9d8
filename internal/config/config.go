// Package config loads operator override files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// OperatorFile is the on-disk layout of an operator override file:
//
//	[[operator]]
//	mcc = "724"
//	mnc = "05"
//	name = "Claro"
//	country = "Brazil"
type OperatorFile struct {
	Operators []OperatorEntry `toml:"operator"`
}

type OperatorEntry struct {
	MCC     string `toml:"mcc"`
	MNC     string `toml:"mnc"`
	Name    string `toml:"name"`
	Country string `toml:"country"`
}

// LoadOperatorFile parses and validates an operator override file.
func LoadOperatorFile(path string) (OperatorFile, error) {
	var file OperatorFile
	if err := loadToml(path, &file); err != nil {
		return OperatorFile{}, err
	}
	for i := range file.Operators {
		e := &file.Operators[i]
		e.MCC, e.MNC = strings.TrimSpace(e.MCC), strings.TrimSpace(e.MNC)
		e.Name, e.Country = strings.TrimSpace(e.Name), strings.TrimSpace(e.Country)
		if err := ValidateOperatorEntry(*e); err != nil {
			return OperatorFile{}, fmt.Errorf("operator[%d] invalid (%s): %w", i, path, err)
		}
	}
	return file, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateOperatorEntry(e OperatorEntry) error {
	if !isDigits(e.MCC) || len(e.MCC) != 3 {
		return fmt.Errorf("mcc must be 3 digits, got %q", e.MCC)
	}
	if !isDigits(e.MNC) || len(e.MNC) < 2 || len(e.MNC) > 3 {
		return fmt.Errorf("mnc must be 2 or 3 digits, got %q", e.MNC)
	}
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
