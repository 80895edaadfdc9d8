package output

import (
	"io"

	"github.com/danmuck/cdrdecode/internal/interpret"
	"github.com/danmuck/cdrdecode/internal/value"
	"github.com/parquet-go/parquet-go"
)

// FaultField names the rows that carry structural faults no field claimed.
const FaultField = "_fault"

// FieldRow is one decoded field in long format. Fields absent from a record
// have no row; fields that failed to decode have kind "error" and Error set.
type FieldRow struct {
	Source      string  `parquet:"source,dict"`
	RecordIndex int64   `parquet:"record_index"`
	RootOffset  int64   `parquet:"root_offset"`
	RecordType  string  `parquet:"record_type,dict"`
	Field       string  `parquet:"field,dict"`
	Kind        string  `parquet:"kind,dict"`
	Value       string  `parquet:"value"`
	Error       *string `parquet:"error,optional"`
	// Recovered is set for fields read after a malformed sibling header.
	Recovered bool `parquet:"recovered"`
}

type parquetWriter struct {
	dst  io.Writer
	pw   *parquet.GenericWriter[FieldRow]
	meta Meta
	rows []FieldRow
}

func newParquet(w io.Writer, meta Meta) *parquetWriter {
	return &parquetWriter{
		dst:  w,
		meta: meta,
		pw: parquet.NewGenericWriter[FieldRow](w,
			parquet.Compression(&parquet.Zstd),
			parquet.KeyValueMetadata("cdr.source", meta.Source),
			parquet.KeyValueMetadata("cdr.run_id", meta.RunID),
		),
	}
}

// Rows flattens records into long-format rows.
func Rows(source string, recs []interpret.Record) []FieldRow {
	return appendRows(nil, source, recs)
}

func appendRows(rows []FieldRow, source string, recs []interpret.Record) []FieldRow {
	for _, rec := range recs {
		base := FieldRow{
			Source:      source,
			RecordIndex: int64(rec.Index),
			RootOffset:  int64(rec.Offset),
			RecordType:  rec.Type.Name,
		}
		for name, v := range rec.All() {
			row := base
			row.Field = name
			row.Kind = v.Kind().String()
			row.Recovered = rec.IsRecovered(name)
			if ev, ok := v.(value.Error); ok {
				reason := ev.Reason
				row.Error = &reason
			} else {
				row.Value = v.String()
			}
			rows = append(rows, row)
		}
		for _, f := range rec.Faults {
			row := base
			row.Field = FaultField
			row.Kind = "fault"
			reason := f.Err.Error()
			row.Error = &reason
			rows = append(rows, row)
		}
	}
	return rows
}

func (w *parquetWriter) Write(recs []interpret.Record) error {
	w.rows = appendRows(w.rows[:0], w.meta.Source, recs)
	if len(w.rows) == 0 {
		return nil
	}
	_, err := w.pw.Write(w.rows)
	return err
}

func (w *parquetWriter) Close() error {
	err := w.pw.Close()
	if cerr := closeUnderlying(w.dst); err == nil {
		err = cerr
	}
	return err
}
