// Package pipeline runs CDR files through load, scan, interpret and write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/cdrdecode/internal/ber"
	"github.com/danmuck/cdrdecode/internal/carrier"
	"github.com/danmuck/cdrdecode/internal/interpret"
	"github.com/danmuck/cdrdecode/internal/observability"
	"github.com/danmuck/cdrdecode/internal/output"
	"github.com/danmuck/cdrdecode/internal/primitive"
	"github.com/danmuck/cdrdecode/internal/schema"
	"github.com/danmuck/cdrdecode/internal/source"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FileResult describes one decoded file.
type FileResult struct {
	Path     string
	Output   string
	Format   source.Format
	Bytes    int
	Stats    interpret.Stats
	Duration time.Duration
	// Stop is set when the scan ended early at a record boundary.
	Stop error
	Err  error
}

// Summary totals a run. Results are in input order.
type Summary struct {
	RunID       string
	Files       int
	Failed      int
	Records     int
	Skipped     int
	FieldErrors int
	Faults      int
	Results     []FileResult
}

type Pipeline struct {
	cfg      Config
	reg      *schema.Registry
	carriers primitive.Resolver
	progress *observability.Progress
	runID    string
}

type Option func(*Pipeline)

func WithRegistry(reg *schema.Registry) Option { return func(p *Pipeline) { p.reg = reg } }

func WithCarriers(r primitive.Resolver) Option { return func(p *Pipeline) { p.carriers = r } }

func WithProgress(pr *observability.Progress) Option { return func(p *Pipeline) { p.progress = pr } }

func WithRunID(id string) Option { return func(p *Pipeline) { p.runID = id } }

func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.reg == nil {
		p.reg = schema.Default()
	}
	if p.carriers == nil {
		p.carriers = carrier.Default()
	}
	if p.progress == nil {
		p.progress = observability.NewProgress()
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	observability.RegisterMetrics()
	return p, nil
}

func (p *Pipeline) RunID() string { return p.runID }

func (p *Pipeline) Progress() *observability.Progress { return p.progress }

// Run decodes every discovered file with at most FileWorkers in flight.
// Inputs sharing a file stem get distinct output names (see output.Plan). A
// failed file does not stop the others; the returned error joins the
// per-file errors.
func (p *Pipeline) Run(ctx context.Context, inputs []string) (Summary, error) {
	files, err := Discover(inputs, p.cfg.Extensions)
	if err != nil {
		return Summary{RunID: p.runID}, err
	}
	p.progress.SetTotal(len(files))
	log.Info().
		Str("run_id", p.runID).
		Int("files", len(files)).
		Int("workers", p.cfg.Workers).
		Int("file_workers", p.cfg.FileWorkers).
		Str("format", string(p.cfg.Format)).
		Msg("pipeline.Run start")

	outputs := output.Plan(p.cfg.OutputDir, files, p.cfg.Format)
	results := make([]FileResult, len(files))
	var g errgroup.Group
	g.SetLimit(p.cfg.FileWorkers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
			} else {
				results[i] = p.decodeFile(path, outputs[i])
			}
			res := results[i]
			p.progress.FileDone(res.Err == nil, res.Stats.Records)
			snap := p.progress.Snapshot()
			log.Info().
				Str("path", path).
				Int64("done", snap.Done).
				Int64("total", snap.Total).
				Int("records", res.Stats.Records).
				Dur("duration", res.Duration).
				Msg("pipeline.Run progress")
			return nil
		})
	}
	_ = g.Wait()

	sum := Summary{RunID: p.runID, Files: len(files), Results: results}
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			sum.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
			continue
		}
		sum.Records += res.Stats.Records
		sum.Skipped += res.Stats.Skipped
		sum.FieldErrors += res.Stats.FieldErrors
		sum.Faults += res.Stats.Faults
	}
	log.Info().
		Str("run_id", p.runID).
		Int("files", sum.Files).
		Int("failed", sum.Failed).
		Int("records", sum.Records).
		Int("field_errors", sum.FieldErrors).
		Msg("pipeline.Run complete")
	return sum, errors.Join(errs...)
}

// DecodeFile loads, decodes and writes one file to its default output path.
func (p *Pipeline) DecodeFile(path string) FileResult {
	return p.decodeFile(path, output.PathFor(p.cfg.OutputDir, path, p.cfg.Format))
}

func (p *Pipeline) decodeFile(path, out string) (res FileResult) {
	start := time.Now()
	res = FileResult{Path: path}
	defer func() {
		res.Duration = time.Since(start)
		observability.RecordFile(res.Err == nil, res.Bytes)
		observability.RecordStage("total", res.Duration)
	}()

	t := time.Now()
	buf, err := source.Open(path, source.Limits{MaxBytes: p.cfg.MaxFileBytes})
	if err != nil {
		res.Err = err
		log.Error().Err(err).Str("path", path).Msg("pipeline.DecodeFile load failed")
		return res
	}
	observability.RecordStage("load", time.Since(t))
	res.Format, res.Bytes = buf.Format(), buf.Len()

	recs, stats, arena, err := p.Decode(buf)
	if err != nil {
		res.Err = err
		log.Error().Err(err).Str("path", path).Msg("pipeline.DecodeFile scan failed")
		return res
	}
	res.Stats = stats
	if stop := arena.Stop(); stop != nil {
		res.Stop = stop
	}

	t = time.Now()
	w, err := output.Create(out, p.cfg.Format, output.Meta{Source: path, RunID: p.runID})
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out
	if err := w.Write(recs); err != nil {
		_ = w.Close()
		res.Err = fmt.Errorf("output write failed (%s): %w", out, err)
		return res
	}
	if err := w.Close(); err != nil {
		res.Err = fmt.Errorf("output close failed (%s): %w", out, err)
		return res
	}
	observability.RecordStage("write", time.Since(t))

	log.Info().
		Str("path", path).
		Str("output", out).
		Str("source_format", res.Format.String()).
		Int("bytes", res.Bytes).
		Int("records", stats.Records).
		Int("skipped", stats.Skipped).
		Int("field_errors", stats.FieldErrors).
		Int("faults", stats.Faults).
		Msg("pipeline.DecodeFile complete")
	return res
}

// Decode scans and interprets one in-memory buffer.
func (p *Pipeline) Decode(buf source.ByteSource) ([]interpret.Record, interpret.Stats, *ber.Arena, error) {
	t := time.Now()
	scanner := ber.NewScanner(ber.Options{KnownRoot: p.reg.KnownRoot, SkipPadding: true})
	arena, err := scanner.Scan(buf.Whole())
	if err != nil {
		return nil, interpret.Stats{}, arena, err
	}
	observability.RecordStage("scan", time.Since(t))

	t = time.Now()
	recs, stats := interpret.New(p.reg, p.carriers, p.cfg.Workers).Interpret(arena, buf)
	observability.RecordStage("interpret", time.Since(t))

	perType := make(map[string]int)
	for _, r := range recs {
		perType[r.Type.Name]++
	}
	for name, n := range perType {
		observability.RecordRecords(name, n)
	}
	observability.RecordDecodeIssues(stats.Skipped, stats.FieldErrors, stats.Faults)
	return recs, stats, arena, nil
}
