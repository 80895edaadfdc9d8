package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/danmuck/cdrdecode/internal/ber"
	"github.com/danmuck/cdrdecode/internal/carrier"
	"github.com/danmuck/cdrdecode/internal/output"
	"github.com/danmuck/cdrdecode/internal/schema"
	"github.com/danmuck/cdrdecode/internal/source"
	"github.com/danmuck/cdrdecode/internal/testutil/testlog"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func leaf(number uint32, v ...byte) []byte {
	return ber.AppendTLV(nil, ber.ClassContextSpecific, false, number, v)
}

func record(tag uint32, children ...[]byte) []byte {
	return ber.AppendTLV(nil, ber.ClassContextSpecific, true, tag, bytes.Join(children, nil))
}

func sampleCDR() []byte {
	return bytes.Join([][]byte{
		record(schema.MSOriginating,
			leaf(1, 0x00, 0x2a),
			leaf(4, 24, 2, 29),
			leaf(5, 13, 45, 10),
			leaf(21, 0x91, 0x55, 0x11),
			leaf(24, 0x27, 0xf4, 0x50, 0x01, 0x2c, 0x30, 0x39),
		),
		{0x00, 0x00},
		record(schema.RoamingCallForwarding, leaf(1, 0x01)),
		record(schema.MSTerminating,
			leaf(1, 0x2b),
			leaf(4, 24, 13, 1),
			leaf(99, 0xff),
		),
	}, nil)
}

func writeGzip(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Format = output.FormatJSONL
	cfg.Workers = 2
	cfg.FileWorkers = 2
	return cfg
}

func TestConfigValidate(t *testing.T) {
	testlog.Start(t)
	require.NoError(t, DefaultConfig().Validate())
	bad := []func(*Config){
		func(c *Config) { c.Workers = 0 },
		func(c *Config) { c.FileWorkers = 0 },
		func(c *Config) { c.Format = "csv" },
		func(c *Config) { c.OutputDir = " " },
		func(c *Config) { c.MaxFileBytes = -1 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "case %d", i)
	}
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDiscover(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	for _, name := range []string{"b.gz", "a.GZ", "notes.txt", "sub/c.ber", "sub/d.zip"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte{0}, 0o644))
	}
	direct := filepath.Join(dir, "notes.txt")

	files, err := Discover([]string{dir, direct, filepath.Join(dir, "b.gz")}, []string{".gz", ".ber", ".zip"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.GZ"),
		filepath.Join(dir, "b.gz"),
		filepath.Join(dir, "sub", "c.ber"),
		filepath.Join(dir, "sub", "d.zip"),
		direct,
	}, files)

	_, err = Discover([]string{filepath.Join(dir, "missing")}, nil)
	require.Error(t, err)
	_, err = Discover([]string{t.TempDir()}, nil)
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestDecodeBuffer(t *testing.T) {
	testlog.Start(t)
	p, err := New(testConfig(t), WithCarriers(carrier.NewTable()))
	require.NoError(t, err)
	recs, stats, arena, err := p.Decode(source.New(sampleCDR()))
	require.NoError(t, err)
	require.NoError(t, arena.Validate())
	require.Len(t, recs, 2)
	require.Equal(t, 1, stats.Skipped)
	require.Equal(t, 1, stats.FieldErrors)
	require.Equal(t, "mSOriginating", recs[0].Type.Name)
	require.Equal(t, "mSTerminating", recs[1].Type.Name)
	_, ok := recs[1].Get("dateForStartOfCharge")
	require.True(t, ok)
}

func TestRunWritesOutputsAndJoinsErrors(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	writeGzip(t, filepath.Join(in, "CDR0001.gz"), sampleCDR())
	require.NoError(t, os.WriteFile(filepath.Join(in, "CDR0002.ber"), sampleCDR(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "CDR0003.ber"), []byte{0xbf}, 0o644))

	cfg := testConfig(t)
	p, err := New(cfg, WithCarriers(carrier.NewTable()), WithRunID("run-test"))
	require.NoError(t, err)
	sum, err := p.Run(context.Background(), []string{in})
	require.Error(t, err)
	require.ErrorIs(t, err, ber.ErrNoRecords)

	require.Equal(t, "run-test", sum.RunID)
	require.Equal(t, 3, sum.Files)
	require.Equal(t, 1, sum.Failed)
	require.Equal(t, 4, sum.Records)
	require.Equal(t, 2, sum.Skipped)
	require.Equal(t, 2, sum.FieldErrors)

	first := sum.Results[0]
	require.NoError(t, first.Err)
	require.Equal(t, source.FormatGzip, first.Format)
	require.Equal(t, len(sampleCDR()), first.Bytes)
	require.Equal(t, filepath.Join(cfg.OutputDir, "CDR0001.jsonl"), first.Output)

	f, err := os.Open(first.Output)
	require.NoError(t, err)
	defer f.Close()
	sc := bufio.NewScanner(f)
	var types []string
	for sc.Scan() {
		var doc map[string]any
		require.NoError(t, sonic.Unmarshal(sc.Bytes(), &doc))
		types = append(types, doc["record_type"].(string))
	}
	require.Equal(t, []string{"mSOriginating", "mSTerminating"}, types)

	snap := p.Progress().Snapshot()
	require.Equal(t, int64(3), snap.Done)
	require.Equal(t, int64(1), snap.Failed)
}

func TestRunHonorsCancelledContext(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.ber"), sampleCDR(), 0o644))
	p, err := New(testConfig(t), WithCarriers(carrier.NewTable()))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := p.Run(ctx, []string{in})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, sum.Failed)
	require.NotEmpty(t, p.RunID())
}

func TestDecodeFileReportsDuration(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "CDR0001.ber")
	require.NoError(t, os.WriteFile(path, sampleCDR(), 0o644))
	cfg := testConfig(t)
	p, err := New(cfg, WithCarriers(carrier.NewTable()))
	require.NoError(t, err)

	res := p.DecodeFile(path)
	require.NoError(t, res.Err)
	require.Equal(t, 2, res.Stats.Records)
	require.Positive(t, res.Duration)
	require.Equal(t, filepath.Join(cfg.OutputDir, "CDR0001.jsonl"), res.Output)

	failed := p.DecodeFile(filepath.Join(t.TempDir(), "missing.ber"))
	require.Error(t, failed.Err)
	require.Positive(t, failed.Duration)
}

func TestRunKeepsSameNamedInputsApart(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	for _, dir := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(in, dir), 0o755))
	}
	single := record(schema.MSTerminating, leaf(1, 0x2b))
	writeGzip(t, filepath.Join(in, "a", "x.gz"), sampleCDR())
	writeGzip(t, filepath.Join(in, "b", "x.gz"), single)
	require.NoError(t, os.WriteFile(filepath.Join(in, "x"), single, 0o644))

	cfg := testConfig(t)
	cfg.FileWorkers = 3
	p, err := New(cfg, WithCarriers(carrier.NewTable()))
	require.NoError(t, err)
	// x has no listed extension, so it is named directly.
	sum, err := p.Run(context.Background(), []string{in, filepath.Join(in, "x")})
	require.NoError(t, err)
	require.Equal(t, 3, sum.Files)

	want := map[string]int{
		filepath.Join(in, "a", "x.gz"): 2,
		filepath.Join(in, "b", "x.gz"): 1,
		filepath.Join(in, "x"):         1,
	}
	outputs := make(map[string]bool)
	for _, res := range sum.Results {
		require.NoError(t, res.Err)
		require.False(t, outputs[res.Output], "output %s written twice", res.Output)
		outputs[res.Output] = true
		require.Positive(t, res.Duration)

		data, err := os.ReadFile(res.Output)
		require.NoError(t, err)
		require.Equal(t, want[res.Path], bytes.Count(data, []byte{'\n'}), "records in %s", res.Output)
		require.Contains(t, string(data), `"source":"`+res.Path+`"`)
	}
	require.True(t, outputs[filepath.Join(cfg.OutputDir, "x.jsonl")])
	require.True(t, outputs[filepath.Join(cfg.OutputDir, "x.2.jsonl")])
	require.True(t, outputs[filepath.Join(cfg.OutputDir, "x.3.jsonl")])
}
