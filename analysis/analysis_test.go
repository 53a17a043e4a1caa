package analysis

import (
	"testing"

	"github.com/activecm/trafficlens/config"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/pkg/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *packet.RecordSet {
	rows := []struct {
		ts       float64
		src, dst string
		proto    string
		length   int64
	}{
		{0.0, "a", "b", "TCP", 60},
		{0.5, "a", "b", "TCP", 1500},
		{1.0, "b", "a", "TCP", 60},
		{1.5, "a", "c", "DNS", 80},
		{2.5, "d", "e", "UDP", 120},
		{61.0, "a", "b", "TCP", 60},
	}
	records := make([]packet.Record, len(rows))
	for i, r := range rows {
		records[i] = packet.Record{
			Sequence:    int64(i + 1),
			Timestamp:   packet.Float(r.ts),
			Source:      r.src,
			Destination: r.dst,
			Protocol:    r.proto,
			Length:      packet.Int(r.length),
		}
	}
	return packet.New(records)
}

func testParams(t *testing.T) Params {
	conf, err := config.LoadTestingConfig()
	require.NoError(t, err)
	return ParamsFromConfig(conf)
}

func TestParamsFromConfig(t *testing.T) {
	p := testParams(t)
	assert.Equal(t, 5, p.TopN)
	assert.Equal(t, int64(100), p.BinSize)
	assert.Equal(t, "connection", p.JitterKey.Name)
	assert.Equal(t, int64(42), p.Layout.Seed)
}

func TestAllAnalysesRun(t *testing.T) {
	p := testParams(t)
	rs := sample()

	seen := make(map[string]bool)
	for _, a := range All() {
		assert.False(t, seen[a.Name], "duplicate analysis %s", a.Name)
		seen[a.Name] = true

		result, err := a.Run(rs, p)
		assert.NoError(t, err, a.Name)
		assert.NotNil(t, result, a.Name)
	}
}

func TestAllAnalysesReportMissingColumns(t *testing.T) {
	p := testParams(t)
	rs := packet.New([]packet.Record{{Sequence: 1}}, packet.FieldSequence)

	for _, a := range All() {
		_, err := a.Run(rs, p)
		assert.True(t, packet.IsSchemaError(err), a.Name)
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("graph")
	assert.True(t, ok)
	assert.Equal(t, "graph", a.Name)

	_, ok = Lookup("beacons")
	assert.False(t, ok)
}

func TestConversations(t *testing.T) {
	rs := sample()

	dropped, err := Conversations(rs, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a → b", "b → a", "a → c"}, dropped.Keys())

	relabeled, err := Conversations(rs, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a → b", "b → a", "a → " + ranking.OtherLabel, ranking.OtherLabel + " → " + ranking.OtherLabel}, relabeled.Keys())
	assert.Equal(t, int64(rs.Len()), relabeled.Total())
}
