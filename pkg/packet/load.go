package packet

import (
	"errors"
	"strconv"
	"strings"
)

// ColumnMap binds record fields to the column names of a tabular source.
// An empty name means the source never carries the field.
type ColumnMap struct {
	Sequence    string
	Time        string
	Source      string
	Destination string
	Protocol    string
	Length      string
}

// DefaultColumns returns the column names used by Wireshark CSV exports
func DefaultColumns() ColumnMap {
	return ColumnMap{
		Sequence:    "No.",
		Time:        "Time",
		Source:      "Source",
		Destination: "Destination",
		Protocol:    "Protocol",
		Length:      "Length",
	}
}

func (c ColumnMap) name(f Field) string {
	switch f {
	case FieldSequence:
		return c.Sequence
	case FieldTimestamp:
		return c.Time
	case FieldSource:
		return c.Source
	case FieldDestination:
		return c.Destination
	case FieldProtocol:
		return c.Protocol
	case FieldLength:
		return c.Length
	}
	return ""
}

// indexHeader finds the position of every mapped column in the header.
// Exact matches win over case-insensitive ones.
func (c ColumnMap) indexHeader(header []string) [numFields]int {
	var idx [numFields]int
	for _, f := range AllFields() {
		idx[f] = -1
		name := strings.TrimSpace(c.name(f))
		if name == "" {
			continue
		}
		for i, col := range header {
			if strings.TrimSpace(col) == name {
				idx[f] = i
				break
			}
		}
		if idx[f] >= 0 {
			continue
		}
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				idx[f] = i
				break
			}
		}
	}
	return idx
}

// Loader incrementally builds a record set from rows of text cells
type Loader struct {
	idx     [numFields]int
	records []Record
	stats   LoadStats
}

// NewLoader prepares a loader for rows following the given header
func NewLoader(header []string, cols ColumnMap) (*Loader, error) {
	if len(header) == 0 {
		return nil, errors.New("table has no header")
	}
	return &Loader{idx: cols.indexHeader(header)}, nil
}

// Add parses a single row. Malformed cells are counted and the row is kept.
func (l *Loader) Add(row []string) {
	cell := func(f Field) string {
		i := l.idx[f]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	l.stats.Rows++
	rec := Record{
		Sequence:    int64(l.stats.Rows),
		Source:      cell(FieldSource),
		Destination: cell(FieldDestination),
		Protocol:    cell(FieldProtocol),
	}

	if raw := cell(FieldSequence); raw != "" {
		seq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			l.stats.MalformedSequence++
		} else {
			rec.Sequence = seq
		}
	}

	if raw := cell(FieldTimestamp); raw == "" {
		l.stats.MissingTimestamp++
	} else if ts, err := strconv.ParseFloat(raw, 64); err != nil {
		l.stats.MalformedTimestamp++
	} else if rec.Timestamp = Float(ts); !rec.Timestamp.Valid {
		l.stats.MalformedTimestamp++
	}

	if raw := cell(FieldLength); raw == "" {
		l.stats.MissingLength++
	} else if length, ok := parseLength(raw); !ok {
		l.stats.MalformedLength++
	} else {
		rec.Length = Int(length)
	}

	l.records = append(l.records, rec)
}

// RecordSet finalizes the loader
func (l *Loader) RecordSet() *RecordSet {
	rs := &RecordSet{records: l.records, stats: l.stats}
	for _, f := range AllFields() {
		rs.columns[f] = l.idx[f] >= 0
	}
	return rs
}

// Load builds a record set from a header and its rows
func Load(header []string, rows [][]string, cols ColumnMap) (*RecordSet, error) {
	loader, err := NewLoader(header, cols)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		loader.Add(row)
	}
	return loader.RecordSet(), nil
}

// parseLength accepts non-negative integers, including integral floats
// such as "60.0" written by spreadsheet tools
func parseLength(raw string) (int64, bool) {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if v < 0 {
			return 0, false
		}
		return v, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
