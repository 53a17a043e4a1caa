package ranking

import (
	"testing"

	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(src, dst, proto string) packet.Record {
	return packet.Record{Source: src, Destination: dst, Protocol: proto}
}

func TestCountByKeyOrdering(t *testing.T) {
	rs := packet.New([]packet.Record{
		rec("c", "x", "UDP"),
		rec("a", "x", "TCP"),
		rec("b", "x", "TCP"),
		rec("a", "x", "UDP"),
		rec("b", "x", "ARP"),
		rec("", "x", "ARP"),
		rec("c", "x", "TCP"),
	})

	set, err := CountByKey(rs, packet.SourceKey)
	require.NoError(t, err)

	// all three sources have two records, so first appearance decides
	assert.Equal(t, []string{"c", "a", "b"}, set.Keys())
	assert.Equal(t, int64(6), set.Total(), "the record without a source is not counted")

	for i := 1; i < len(set); i++ {
		assert.True(t, set[i-1].Count >= set[i].Count, "counts must be non-increasing")
	}

	again, err := CountByKey(rs, packet.SourceKey)
	require.NoError(t, err)
	assert.Equal(t, set, again, "ranking must be identical across calls")
}

func TestCountByKeyShares(t *testing.T) {
	rs := packet.New([]packet.Record{
		rec("a", "b", "TCP"), rec("a", "b", "TCP"), rec("a", "b", "UDP"), rec("a", "b", "TCP"),
	})
	set, err := ProtocolBreakdown(rs)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "TCP", set[0].Key)
	assert.InDelta(t, 0.75, set[0].Share, 1e-12)
	assert.InDelta(t, 0.25, set[1].Share, 1e-12)
}

func TestCountByKeySchema(t *testing.T) {
	rs := packet.New([]packet.Record{rec("a", "b", "")}, packet.FieldSource, packet.FieldDestination)
	_, err := CountByKey(rs, packet.ProtocolKey)
	assert.True(t, packet.IsSchemaError(err))
}

func TestTopN(t *testing.T) {
	set := RankedSet{{Key: "a", Count: 3}, {Key: "b", Count: 2}, {Key: "c", Count: 1}}
	assert.Equal(t, []string{"a", "b"}, TopN(set, 2))
	assert.Equal(t, []string{"a", "b", "c"}, TopN(set, 10))
	assert.Empty(t, TopN(set, 0))
	assert.Len(t, set.Head(-1), 3)
}

func TestTopSources(t *testing.T) {
	rs := packet.New([]packet.Record{
		rec("a", "z", ""), rec("b", "z", ""), rec("b", "z", ""), rec("c", "z", ""),
	})
	set, err := TopSources(rs, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, set.Keys())
}

func TestRankNodesBidirectional(t *testing.T) {
	rs := packet.New([]packet.Record{
		rec("a", "b", ""),
		rec("c", "b", ""),
		rec("a", "d", ""),
		rec("d", "d", ""),
	})

	set, err := RankNodes(rs)
	require.NoError(t, err)
	// d: 3 (self loop counts twice), a: 2, b: 2, c: 1
	assert.Equal(t, []string{"d", "a", "b", "c"}, set.Keys())
	assert.Equal(t, int64(8), set.Total())

	top, err := RankNodesBidirectional(rs, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a"}, top)
}

func TestFilterByNodeSetDrop(t *testing.T) {
	rs := packet.New([]packet.Record{
		rec("a", "b", ""),
		rec("c", "d", ""),
		rec("d", "a", ""),
	})
	out := FilterByNodeSet(rs, []string{"a"}, false)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "b", out.At(0).Destination)
	assert.Equal(t, "d", out.At(1).Source)
	assert.Equal(t, 3, rs.Len(), "the input set is untouched")
}

func TestFilterByNodeSetRelabel(t *testing.T) {
	rs := packet.New([]packet.Record{
		rec("a", "b", ""),
		rec("c", "d", ""),
		rec("d", "", ""),
	})
	out := FilterByNodeSet(rs, []string{"a", "d"}, true)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, OtherLabel, out.At(0).Destination)
	assert.Equal(t, OtherLabel, out.At(1).Source)
	assert.Equal(t, "d", out.At(1).Destination)
	assert.Equal(t, "", out.At(2).Destination, "missing endpoints stay missing")
	assert.Equal(t, "c", rs.At(1).Source)
}

func TestRelabelPreservesRanking(t *testing.T) {
	rs := packet.New([]packet.Record{
		rec("e", "a", ""), rec("a", "b", ""), rec("c", "a", ""), rec("b", "c", ""),
		rec("d", "e", ""), rec("b", "a", ""), rec("e", "f", ""), rec("f", "g", ""),
	})
	const n = 3

	direct, err := RankNodes(rs)
	require.NoError(t, err)
	top := TopN(direct, n)

	filtered := FilterByNodeSet(rs, top, true)
	relabeled, err := RankNodes(filtered)
	require.NoError(t, err)

	var members RankedSet
	for _, e := range relabeled {
		if e.Key != OtherLabel {
			members = append(members, e)
		}
	}
	assert.Equal(t, top, members.Keys())
	for i := range members {
		assert.Equal(t, direct[i].Count, members[i].Count)
	}

	// the same holds for one sided rankings
	sources, err := CountByKey(rs, packet.SourceKey)
	require.NoError(t, err)
	topSources := TopN(sources, n)
	relabeledSources, err := CountByKey(FilterByNodeSet(rs, topSources, true), packet.SourceKey)
	require.NoError(t, err)
	var sourceMembers []string
	for _, e := range relabeledSources {
		if e.Key != OtherLabel {
			sourceMembers = append(sourceMembers, e.Key)
		}
	}
	assert.Equal(t, topSources, sourceMembers)
}
