// Package csvimport reads unit inventory CSV uploads.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const encodingProbeSize = 4096

// Parser reads a headed CSV file row by row
type Parser struct {
	delimiter rune
	headers   []string
	index     map[string]int
	line      int
	reader    *csv.Reader
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser strips a UTF-8 BOM, checks the encoding and reads the header.
// Header names are trimmed and lower-cased.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{delimiter: ',', index: make(map[string]int)}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}
	probe, err := buf.Peek(encodingProbeSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(probe) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(probe)) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1

	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		p.headers = append(p.headers, name)
		if name != "" {
			p.index[name] = i
		}
	}
	if len(p.index) == 0 {
		return nil, ErrMissingHeader
	}
	p.line = 1
	return p, nil
}

// trimPartialRune drops a trailing rune cut in half by the probe boundary
func trimPartialRune(b []byte) []byte {
	if len(b) < encodingProbeSize {
		return b
	}
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

// Headers returns the normalized header names
func (p *Parser) Headers() []string {
	return p.headers
}

// Missing returns the required headers absent from the file
func (p *Parser) Missing(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.index[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line keyed by header
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of a column
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if every value is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next row, or io.EOF. Malformed lines return a RowError.
func (p *Parser) Next() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, RowError{Row: p.line, Code: ErrCodeMalformedRow, Message: err.Error()}
	}

	row := &Row{Line: p.line, Data: make(map[string]string, len(p.index))}
	for name, i := range p.index {
		if i < len(record) {
			row.Data[name] = strings.TrimSpace(record[i])
		} else {
			row.Data[name] = ""
		}
	}
	return row, nil
}
