package ranking

import (
	"github.com/activecm/trafficlens/pkg/packet"
)

// RankNodes ranks addresses by the number of times they appear as either
// endpoint. A record whose source equals its destination counts twice.
func RankNodes(rs *packet.RecordSet) (RankedSet, error) {
	err := rs.Require("rank nodes", packet.FieldSource, packet.FieldDestination)
	if err != nil {
		return nil, err
	}
	c := newCounter()
	rs.Each(func(i int, r *packet.Record) {
		// the source of a record is seen before its destination
		if r.Source != "" {
			c.add(r.Source, 2*i)
		}
		if r.Destination != "" {
			c.add(r.Destination, 2*i+1)
		}
	})
	return c.ranked(), nil
}

// RankNodesBidirectional returns the n most active addresses
func RankNodesBidirectional(rs *packet.RecordSet, n int) ([]string, error) {
	set, err := RankNodes(rs)
	if err != nil {
		return nil, err
	}
	return TopN(set, n), nil
}
