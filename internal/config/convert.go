package config

import (
	"github.com/danmuck/cdrdecode/internal/carrier"
	"github.com/danmuck/cdrdecode/internal/value"
	"github.com/rs/zerolog/log"
)

func Operators(entries []OperatorEntry) []value.Operator {
	ops := make([]value.Operator, 0, len(entries))
	for _, e := range entries {
		ops = append(ops, value.Operator{
			MCC:     e.MCC,
			MNC:     e.MNC,
			Name:    e.Name,
			Country: e.Country,
		})
	}
	return ops
}

// ApplyOperators loads path and queues its entries for the process-wide
// carrier table. It must run before the table is first used.
func ApplyOperators(path string) (int, error) {
	file, err := LoadOperatorFile(path)
	if err != nil {
		return 0, err
	}
	if err := carrier.Extend(Operators(file.Operators)...); err != nil {
		return 0, err
	}
	log.Info().Str("path", path).Int("operators", len(file.Operators)).Msg("config.ApplyOperators loaded")
	return len(file.Operators), nil
}
