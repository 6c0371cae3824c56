// Package csv parses delimited-text extracts into in-memory tables. The
// reader is configured leniently: real-world release files carry BOMs, legacy
// encodings, and the occasional malformed row, and a bad row should cost one
// row, not the run.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"stats19/internal/table"
	"stats19/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool

	// Encoding names the source byte encoding. Empty and "utf-8" read the
	// bytes as-is; "windows-1252", "latin-1" and "iso-8859-1" are decoded on
	// the fly. Older DfT bundles shipped as windows-1252.
	Encoding string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes the full CSV input and returns a table whose columns are the
// trimmed header names (BOM stripped, otherwise untouched) plus the number of
// body rows skipped because they could not be read or had the wrong width.
// Empty cells become nil.
func (p *Parser) Parse(r io.Reader) (*table.Table, int, error) {
	if dec := decoderFor(p.opt.Encoding); dec != nil {
		r = transform.NewReader(r, dec)
	}

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	h, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := make([]string, len(h))
	copy(headers, h)
	headers = StripHeaderBOM(headers)
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	const logLimit = 400
	var rows []records.Record
	var skipped int
	// Line numbering starts at 2: the header occupies line 1, so the logged
	// number locates the row in the raw file.
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logLimit {
				// Soft-fail this row and continue.
				log.Printf("skipping line %d: %v", line, err)
			}
			skipped++
			continue
		}
		if len(row) != len(headers) {
			if skipped < logLimit {
				log.Printf("skipping line %d: incorrect number of fields (expected %d, got %d)", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[headers[i]] = emptyToNil(val)
		}
		rows = append(rows, rec)
	}

	return table.New(headers, rows), skipped, nil
}

// decoderFor maps an encoding name to a byte decoder, or nil for pass-through.
func decoderFor(name string) *encoding.Decoder {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder()
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder()
	default:
		return nil
	}
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
