package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// Record is one row of report data keyed by field name.
type Record map[string]any

// Dataset is an in-memory list of records walked once per fill pass.
// It implements [fill.DataSource]; [Dataset.Rewind] restarts it.
type Dataset struct {
	fields  []string
	known   map[string]bool
	records []Record
	pos     int // index of the current record, -1 before the first Next
}

// New creates a dataset over records. The field set is the union of the
// record keys, sorted by name.
func New(records []Record) *Dataset {
	known := make(map[string]bool)
	for _, r := range records {
		for k := range r {
			known[k] = true
		}
	}
	fields := make([]string, 0, len(known))
	for k := range known {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return &Dataset{fields: fields, known: known, records: records, pos: -1}
}

// ReadJSON decodes a JSON array of objects from r.
//
//	[
//	  {"city": "Oslo", "name": "Ann", "amount": 12.5},
//	  {"city": "Oslo", "name": "Bo", "amount": 3}
//	]
//
// Numbers decode as float64, nested arrays are kept as []any and can feed
// the stretch lines of a band.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidData, err, "decode records")
	}
	return New(records), nil
}

// ReadCSV decodes CSV from r. The first row names the fields; every value
// is a string.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidData, err, "decode csv")
	}
	if len(rows) == 0 {
		return New(nil), nil
	}
	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == "" {
			return nil, errs.New(errs.ErrCodeInvalidData, "csv column %d has no name", i+1)
		}
	}
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, h := range header {
			rec[h] = row[i]
		}
		records = append(records, rec)
	}
	d := New(records)
	d.fields = header
	for _, h := range header {
		d.known[h] = true
	}
	return d, nil
}

// Decode reads records in the given format, "json" or "csv".
func Decode(data []byte, format string) (*Dataset, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return ReadJSON(bytes.NewReader(data))
	case "csv":
		return ReadCSV(bytes.NewReader(data))
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown data format: %s", format)
}

// Load reads a data file, choosing the format from its extension.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "data file %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, FormatOf(path))
}

// FormatOf returns the data format implied by a file name.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "csv"
	}
	return "json"
}

// Next advances to the next record. Once the records are exhausted the
// last one stays current, as the closing sections still print its values.
func (d *Dataset) Next(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if d.pos+1 >= len(d.records) {
		return false, nil
	}
	d.pos++
	return true, nil
}

// Rewind moves the dataset before its first record.
func (d *Dataset) Rewind() { d.pos = -1 }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Fields returns the field names.
func (d *Dataset) Fields() []string { return d.fields }

// HasField reports whether any record carries the named field.
func (d *Dataset) HasField(name string) bool { return d.known[name] }

// Records returns the records in order.
func (d *Dataset) Records() []Record { return d.records }

// Position returns the index of the current record, -1 before the first
// Next.
func (d *Dataset) Position() int { return d.pos }

// Current returns the current record, or nil outside the records.
func (d *Dataset) Current() Record { return d.at(d.pos) }

// Previous returns the record before the current one, or nil.
func (d *Dataset) Previous() Record { return d.at(d.pos - 1) }

func (d *Dataset) at(i int) Record {
	if i < 0 || i >= len(d.records) {
		return nil
	}
	return d.records[i]
}

var _ fill.DataSource = (*Dataset)(nil)
