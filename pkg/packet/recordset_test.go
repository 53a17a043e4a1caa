package packet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeclaresColumns(t *testing.T) {
	records := []Record{
		{Sequence: 1, Source: "a", Destination: "b", Timestamp: Float(1)},
	}

	all := New(records)
	assert.Equal(t, AllFields(), all.Columns())

	partial := New(records, FieldSource, FieldDestination)
	assert.NoError(t, partial.Require("graph", FieldSource, FieldDestination))
	assert.True(t, IsSchemaError(partial.Require("jitter", FieldTimestamp)))
}

func TestRecordSetIsImmutable(t *testing.T) {
	records := []Record{{Source: "a"}, {Source: "b"}}
	rs := New(records)

	records[0].Source = "changed"
	assert.Equal(t, "a", rs.At(0).Source, "New copies its input")

	out := rs.Records()
	out[1].Source = "changed"
	assert.Equal(t, "b", rs.At(1).Source, "Records returns a copy")
}

func TestColumnProjection(t *testing.T) {
	rs := New([]Record{
		{Sequence: 1, Timestamp: Float(0.25), Source: "a", Length: Int(60)},
		{Sequence: 2, Timestamp: Float(math.NaN()), Source: "b"},
	})

	assert.Equal(t, []string{"0.25", ""}, rs.Column(FieldTimestamp))
	assert.Equal(t, []string{"a", "b"}, rs.Column(FieldSource))
	assert.Equal(t, []string{"60", ""}, rs.Column(FieldLength))
	assert.Equal(t, []string{"1", "2"}, rs.Column(FieldSequence))
	assert.Equal(t, 1, rs.Stats().MissingTimestamp)
}

func TestNilRecordSet(t *testing.T) {
	var rs *RecordSet
	assert.Equal(t, 0, rs.Len())
	assert.False(t, rs.HasColumn(FieldSource))
	assert.Empty(t, rs.Records())
}

func TestKeys(t *testing.T) {
	r := &Record{Source: "a", Destination: "b", Protocol: "TCP"}

	v, ok := ConnectionKey.Value(r)
	assert.True(t, ok)
	assert.Equal(t, "a → b", v)

	v, ok = ProtocolKey.Value(r)
	assert.True(t, ok)
	assert.Equal(t, "TCP", v)

	_, ok = ConnectionKey.Value(&Record{Source: "a"})
	assert.False(t, ok)

	key, err := ParseKey("Conn")
	assert.NoError(t, err)
	assert.Equal(t, "connection", key.Name)

	_, err = ParseKey("port")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestDeriveKeepsColumns(t *testing.T) {
	none := New([]Record{{Source: "a"}}, FieldSequence)
	derived := none.Derive([]Record{{Source: "b"}})
	assert.False(t, derived.HasColumn(FieldSource))
	assert.True(t, derived.HasColumn(FieldSequence))
}

func TestConcat(t *testing.T) {
	first, err := Load([]string{"Time", "Source"}, [][]string{{"1", "a"}, {"x", "b"}}, DefaultColumns())
	assert.NoError(t, err)
	second, err := Load([]string{"Source", "Length"}, [][]string{{"c", "60"}}, DefaultColumns())
	assert.NoError(t, err)

	joined := Concat(first, nil, second)
	assert.Equal(t, 3, joined.Len())
	assert.Equal(t, []string{"a", "b", "c"}, joined.Column(FieldSource))
	assert.True(t, joined.HasColumn(FieldTimestamp))
	assert.True(t, joined.HasColumn(FieldLength))
	assert.False(t, joined.HasColumn(FieldProtocol))

	stats := joined.Stats()
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 1, stats.MalformedTimestamp)
	assert.Equal(t, 1, stats.MissingTimestamp)
	assert.Equal(t, 2, stats.MissingLength)
}

func TestShiftTime(t *testing.T) {
	rs, err := Load([]string{"Time", "Source"}, [][]string{{"0.5", "a"}, {"", "b"}, {"2", "c"}}, DefaultColumns())
	assert.NoError(t, err)

	shifted := rs.ShiftTime(10)
	assert.Equal(t, 3, shifted.Len())
	assert.Equal(t, rs.Stats(), shifted.Stats())
	assert.True(t, shifted.HasColumn(FieldTimestamp))
	assert.False(t, shifted.HasColumn(FieldLength))

	ts, ok := shifted.At(0).Time()
	assert.True(t, ok)
	assert.Equal(t, 10.5, ts)
	_, ok = shifted.At(1).Time()
	assert.False(t, ok)
	ts, _ = shifted.At(2).Time()
	assert.Equal(t, 12.0, ts)

	// the source set is left untouched
	ts, _ = rs.At(0).Time()
	assert.Equal(t, 0.5, ts)
}
