package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/cdrdecode/internal/carrier"
	"github.com/danmuck/cdrdecode/internal/testutil/testlog"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "operators.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadOperatorFileTemplate(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "operators.toml")
	if err := WriteTemplate(path, "operators", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "operators", false); err == nil {
		t.Fatalf("expected existing file to be kept")
	}
	file, err := LoadOperatorFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(file.Operators) != 2 {
		t.Fatalf("expected 2 operators, got %d", len(file.Operators))
	}
	ops := Operators(file.Operators)
	if ops[1].MCC != "334" || ops[1].MNC != "020" || ops[1].Name != "Telcel" {
		t.Fatalf("unexpected operator: %+v", ops[1])
	}
}

func TestLoadOperatorFileValidation(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"mcc":  "[[operator]]\nmcc = \"72\"\nmnc = \"05\"\nname = \"x\"\n",
		"mnc":  "[[operator]]\nmcc = \"724\"\nmnc = \"5a\"\nname = \"x\"\n",
		"name": "[[operator]]\nmcc = \"724\"\nmnc = \"05\"\nname = \"  \"\n",
	}
	for want, body := range cases {
		_, err := LoadOperatorFile(writeFile(t, body))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%s: expected validation error, got %v", want, err)
		}
	}
	if _, err := LoadOperatorFile(writeFile(t, "[[operator]\n")); err == nil ||
		!strings.Contains(err.Error(), "config parse failed") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if _, err := LoadOperatorFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil ||
		!strings.Contains(err.Error(), "config load failed") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestTemplateKinds(t *testing.T) {
	testlog.Start(t)
	if _, err := Template("cdrdecode"); err != nil {
		t.Fatalf("run template: %v", err)
	}
	if _, err := Template("ghost"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestApplyOperatorsExtendsCarrierTable(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "[[operator]]\nmcc = \"999\"\nmnc = \"01\"\nname = \"Test Net\"\ncountry = \"Nowhere\"\n")
	n, err := ApplyOperators(path)
	if err != nil || n != 1 {
		t.Fatalf("apply: %d %v", n, err)
	}
	op := carrier.Default().Lookup("999", "01")
	if !op.Known || op.Name != "Test Net" || op.Country != "Nowhere" {
		t.Fatalf("override not applied: %+v", op)
	}
	if _, err := ApplyOperators(path); !errors.Is(err, carrier.ErrFrozen) {
		t.Fatalf("expected ErrFrozen after Default, got %v", err)
	}
}
