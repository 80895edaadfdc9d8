package main

import (
	"flag"

	"github.com/danmuck/cdrdecode/internal/config"
	"github.com/danmuck/cdrdecode/internal/logging"
	"github.com/rs/zerolog/log"
)

func defaultPath(kind string) string {
	switch kind {
	case "cdrdecode", "run":
		return "cmd/cdrdecode/config.toml"
	case "operators":
		return "cmd/cdrdecode/operators.toml"
	default:
		log.Fatal().Str("kind", kind).Msg("configgen unknown kind")
		return ""
	}
}

func main() {
	kind := flag.String("kind", "cdrdecode", "config kind: cdrdecode|operators")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing operators file")
	input := flag.String("input", "", "file path for validation (defaults to per-kind cmd path)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()
	logging.ConfigureRuntime()

	if *validate {
		if *kind != "operators" {
			log.Fatal().Str("kind", *kind).Msg("configgen validate supports kind=operators only")
		}
		path := *input
		if path == "" {
			path = defaultPath(*kind)
		}
		file, err := config.LoadOperatorFile(path)
		if err != nil {
			log.Fatal().Err(err).Msg("configgen validate failed")
		}
		log.Info().Int("operators", len(file.Operators)).Str("path", path).Msg("configgen validated")
		return
	}

	target := *output
	if target == "" {
		target = defaultPath(*kind)
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal().Err(err).Msg("configgen write failed")
	}
	log.Info().Str("kind", *kind).Str("path", target).Msg("configgen wrote template")
}
