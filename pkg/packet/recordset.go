package packet

type (
	// LoadStats counts the cells which could not be used while loading a table
	LoadStats struct {
		Rows               int `json:"rows"`
		MissingTimestamp   int `json:"missing_timestamp"`
		MalformedTimestamp int `json:"malformed_timestamp"`
		MissingLength      int `json:"missing_length"`
		MalformedLength    int `json:"malformed_length"`
		MalformedSequence  int `json:"malformed_sequence"`
	}

	// RecordSet is an immutable, ordered collection of packet records.
	// It is safe for concurrent readers.
	RecordSet struct {
		records []Record
		columns [numFields]bool
		stats   LoadStats
	}
)

func (s *LoadStats) add(o LoadStats) {
	s.Rows += o.Rows
	s.MissingTimestamp += o.MissingTimestamp
	s.MalformedTimestamp += o.MalformedTimestamp
	s.MissingLength += o.MissingLength
	s.MalformedLength += o.MalformedLength
	s.MalformedSequence += o.MalformedSequence
}

// New creates a record set from typed records. The columns argument lists
// the fields the source table carried. If no columns are given every
// field is considered present.
func New(records []Record, columns ...Field) *RecordSet {
	rs := &RecordSet{
		records: make([]Record, len(records)),
	}
	copy(rs.records, records)

	if len(columns) == 0 {
		columns = AllFields()
	}
	for _, f := range columns {
		if f >= 0 && f < numFields {
			rs.columns[f] = true
		}
	}

	rs.stats.Rows = len(records)
	for i := range rs.records {
		if _, ok := rs.records[i].Time(); !ok {
			rs.stats.MissingTimestamp++
		}
		if _, ok := rs.records[i].Size(); !ok {
			rs.stats.MissingLength++
		}
	}
	return rs
}

// Len returns the number of records in the set
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// At returns a pointer to the i-th record. Callers must not modify it.
func (rs *RecordSet) At(i int) *Record {
	return &rs.records[i]
}

// Each calls fn for every record in load order
func (rs *RecordSet) Each(fn func(i int, r *Record)) {
	if rs == nil {
		return
	}
	for i := range rs.records {
		fn(i, &rs.records[i])
	}
}

// Records returns a copy of the records in load order
func (rs *RecordSet) Records() []Record {
	out := make([]Record, rs.Len())
	if rs != nil {
		copy(out, rs.records)
	}
	return out
}

// HasColumn reports whether the source table carried the field
func (rs *RecordSet) HasColumn(f Field) bool {
	if rs == nil || f < 0 || f >= numFields {
		return false
	}
	return rs.columns[f]
}

// Columns returns the fields carried by the source table
func (rs *RecordSet) Columns() []Field {
	var fields []Field
	for _, f := range AllFields() {
		if rs.HasColumn(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Require returns a *SchemaError naming the first of the given fields
// that the record set does not carry
func (rs *RecordSet) Require(analysis string, fields ...Field) error {
	for _, f := range fields {
		if !rs.HasColumn(f) {
			return &SchemaError{Analysis: analysis, Field: f}
		}
	}
	return nil
}

// Column projects a single field of every record as text. Missing values
// are returned as empty strings.
func (rs *RecordSet) Column(f Field) []string {
	out := make([]string, 0, rs.Len())
	rs.Each(func(_ int, r *Record) {
		out = append(out, r.value(f))
	})
	return out
}

// Stats returns the load statistics of the set
func (rs *RecordSet) Stats() LoadStats {
	if rs == nil {
		return LoadStats{}
	}
	return rs.stats
}

// Derive creates a new record set from records taken out of rs. It carries
// the columns and the load statistics of rs.
func (rs *RecordSet) Derive(records []Record) *RecordSet {
	out := New(records)
	if rs != nil {
		out.columns = rs.columns
		out.stats = rs.stats
	}
	return out
}

// ShiftTime returns a copy of rs with delta seconds added to every usable
// timestamp. Untimed records stay untimed.
func (rs *RecordSet) ShiftTime(delta float64) *RecordSet {
	records := rs.Records()
	if delta == 0 {
		return rs.Derive(records)
	}
	for i := range records {
		if ts, ok := records[i].Time(); ok {
			records[i].Timestamp = Float(ts + delta)
		}
	}
	return rs.Derive(records)
}

// Concat joins record sets in order. The result carries every column
// present in any of the inputs and the summed load statistics.
func Concat(sets ...*RecordSet) *RecordSet {
	out := &RecordSet{}
	for _, rs := range sets {
		if rs == nil {
			continue
		}
		out.records = append(out.records, rs.records...)
		for f := range rs.columns {
			out.columns[f] = out.columns[f] || rs.columns[f]
		}
		out.stats.add(rs.stats)
	}
	return out
}
