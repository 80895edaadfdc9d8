package output

import (
	"bufio"
	"io"

	"github.com/bytedance/sonic"
	"github.com/danmuck/cdrdecode/internal/interpret"
	"github.com/danmuck/cdrdecode/internal/value"
)

type jsonEnum struct {
	Code  uint8  `json:"code"`
	Label string `json:"label"`
}

type jsonAddress struct {
	TON      uint8  `json:"ton"`
	TONLabel string `json:"ton_label"`
	NPI      uint8  `json:"npi"`
	NPILabel string `json:"npi_label"`
	Digits   string `json:"digits"`
}

type jsonGeo struct {
	MCC      string  `json:"mcc"`
	MNC      string  `json:"mnc"`
	LAC      uint16  `json:"lac"`
	Cell     *uint16 `json:"cell,omitempty"`
	Operator string  `json:"operator,omitempty"`
	Country  string  `json:"country,omitempty"`
}

type jsonError struct {
	Error string `json:"error"`
}

type jsonFault struct {
	Offset int    `json:"offset"`
	Depth  int    `json:"depth"`
	Error  string `json:"error"`
}

type jsonHeader struct {
	Source      string      `json:"source"`
	RecordIndex int         `json:"record_index"`
	RootOffset  int         `json:"root_offset"`
	RecordType  string      `json:"record_type"`
	Faults      []jsonFault `json:"faults,omitempty"`
	Recovered   []string    `json:"recovered,omitempty"`
}

// jsonValue maps a decoded value onto its JSON shape.
func jsonValue(v value.Value) any {
	switch v := v.(type) {
	case value.Integer:
		return uint64(v)
	case value.Enum:
		return jsonEnum{Code: v.Code, Label: v.Label}
	case value.Address:
		return jsonAddress{TON: v.TON, TONLabel: v.TONLabel, NPI: v.NPI, NPILabel: v.NPILabel, Digits: v.Digits}
	case value.GeoLocation:
		g := jsonGeo{MCC: v.MCC, MNC: v.MNC, LAC: v.LAC, Operator: v.Operator.Name, Country: v.Operator.Country}
		if v.HasCell {
			cell := v.Cell
			g.Cell = &cell
		}
		return g
	case value.Error:
		return jsonError{Error: v.Reason}
	default:
		return v.String()
	}
}

type jsonlWriter struct {
	dst  io.Writer
	bw   *bufio.Writer
	meta Meta
	line []byte
}

func newJSONL(w io.Writer, meta Meta) *jsonlWriter {
	return &jsonlWriter{dst: w, bw: bufio.NewWriter(w), meta: meta}
}

// MarshalRecord renders one record as a JSON object. Field order follows the
// record's decode order.
func MarshalRecord(source string, rec interpret.Record) ([]byte, error) {
	return appendRecord(nil, source, rec)
}

func appendRecord(dst []byte, source string, rec interpret.Record) ([]byte, error) {
	hdr := jsonHeader{
		Source:      source,
		RecordIndex: rec.Index,
		RootOffset:  rec.Offset,
		RecordType:  rec.Type.Name,
		Recovered:   rec.Recovered,
	}
	for _, f := range rec.Faults {
		hdr.Faults = append(hdr.Faults, jsonFault{Offset: f.Err.Offset, Depth: f.Err.Depth, Error: f.Err.Err.Error()})
	}
	head, err := sonic.Marshal(hdr)
	if err != nil {
		return dst, err
	}
	// Splice the ordered fields object in before the header's closing brace.
	dst = append(dst, head[:len(head)-1]...)
	dst = append(dst, `,"fields":{`...)
	first := true
	for name, v := range rec.All() {
		k, err := sonic.Marshal(name)
		if err != nil {
			return dst, err
		}
		val, err := sonic.Marshal(jsonValue(v))
		if err != nil {
			return dst, err
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = append(dst, k...)
		dst = append(dst, ':')
		dst = append(dst, val...)
	}
	return append(dst, '}', '}'), nil
}

func (w *jsonlWriter) Write(recs []interpret.Record) error {
	for _, rec := range recs {
		var err error
		if w.line, err = appendRecord(w.line[:0], w.meta.Source, rec); err != nil {
			return err
		}
		w.line = append(w.line, '\n')
		if _, err := w.bw.Write(w.line); err != nil {
			return err
		}
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	err := w.bw.Flush()
	if cerr := closeUnderlying(w.dst); err == nil {
		err = cerr
	}
	return err
}
