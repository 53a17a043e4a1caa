package packet

import (
	"math"
	"strconv"
)

// Field names a column of a packet record
type Field int

const (
	//FieldSequence is the ordinal of the packet within the capture
	FieldSequence Field = iota
	//FieldTimestamp is the capture relative time in seconds
	FieldTimestamp
	//FieldSource is the sending address
	FieldSource
	//FieldDestination is the receiving address
	FieldDestination
	//FieldProtocol is the protocol label
	FieldProtocol
	//FieldLength is the packet length in bytes
	FieldLength

	numFields
)

var fieldNames = [numFields]string{
	"sequence", "timestamp", "source", "destination", "protocol", "length",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// AllFields lists every record field in column order
func AllFields() []Field {
	fields := make([]Field, numFields)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// NullFloat is a float64 which may be absent
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a present NullFloat. NaN and infinities are never valid.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// NullInt is an int64 which may be absent
type NullInt struct {
	Value int64
	Valid bool
}

// Int returns a present NullInt
func Int(v int64) NullInt {
	return NullInt{Value: v, Valid: true}
}

// Record is a single observed packet. Empty address and protocol strings
// are treated as missing values.
type Record struct {
	Sequence    int64
	Timestamp   NullFloat
	Source      string
	Destination string
	Protocol    string
	Length      NullInt
}

// Time returns the timestamp of the record and whether it is usable
func (r *Record) Time() (float64, bool) {
	if !r.Timestamp.Valid || math.IsNaN(r.Timestamp.Value) || math.IsInf(r.Timestamp.Value, 0) {
		return 0, false
	}
	return r.Timestamp.Value, true
}

// Size returns the length of the record and whether it is usable
func (r *Record) Size() (int64, bool) {
	if !r.Length.Valid || r.Length.Value < 0 {
		return 0, false
	}
	return r.Length.Value, true
}

// value renders a field of the record as text, missing values render empty
func (r *Record) value(f Field) string {
	switch f {
	case FieldSequence:
		return strconv.FormatInt(r.Sequence, 10)
	case FieldTimestamp:
		if ts, ok := r.Time(); ok {
			return strconv.FormatFloat(ts, 'f', -1, 64)
		}
	case FieldSource:
		return r.Source
	case FieldDestination:
		return r.Destination
	case FieldProtocol:
		return r.Protocol
	case FieldLength:
		if r.Length.Valid {
			return strconv.FormatInt(r.Length.Value, 10)
		}
	}
	return ""
}
