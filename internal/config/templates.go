package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "cdrdecode", "run":
		return runTemplate, nil
	case "operators":
		return operatorsTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const runTemplate = `workers = 4
file_workers = 1
format = "parquet"
output_dir = "out"
max_file_bytes = 1073741824
operators_file = ""
status_addr = ""
cors_origins = ["http://localhost:3000"]
extensions = [".gz", ".zip", ".ber", ".cdr"]
`

const operatorsTemplate = `[[operator]]
mcc = "724"
mnc = "05"
name = "Claro"
country = "Brazil"

[[operator]]
mcc = "334"
mnc = "020"
name = "Telcel"
country = "Mexico"
`
