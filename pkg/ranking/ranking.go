package ranking

import (
	"sort"

	"github.com/activecm/trafficlens/pkg/packet"
)

type (
	// Entry is a key and the number of records carrying it
	Entry struct {
		Key       string  `json:"key"`
		Count     int64   `json:"count"`
		Share     float64 `json:"share"`
		FirstSeen int     `json:"first_seen"`
	}

	// RankedSet is ordered by descending count. Equal counts keep the order
	// in which the keys first appeared in the record set.
	RankedSet []Entry
)

// counter accumulates key frequencies while remembering first appearance
type counter struct {
	index   map[string]int
	entries []Entry
	total   int64
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

// add counts one occurrence of key observed at position pos
func (c *counter) add(key string, pos int) {
	c.total++
	if i, ok := c.index[key]; ok {
		c.entries[i].Count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: key, Count: 1, FirstSeen: pos})
}

func (c *counter) ranked() RankedSet {
	out := make(RankedSet, len(c.entries))
	copy(out, c.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].FirstSeen < out[j].FirstSeen
	})
	if c.total > 0 {
		for i := range out {
			out[i].Share = float64(out[i].Count) / float64(c.total)
		}
	}
	return out
}

// CountByKey counts records per key value. Records without a value for the
// key are not counted.
func CountByKey(rs *packet.RecordSet, key packet.Key) (RankedSet, error) {
	if err := rs.Require("count by "+key.Name, key.Requires...); err != nil {
		return nil, err
	}
	c := newCounter()
	rs.Each(func(i int, r *packet.Record) {
		if v, ok := key.Value(r); ok {
			c.add(v, i)
		}
	})
	return c.ranked(), nil
}

// TopN returns the first n keys of the ranked set
func TopN(set RankedSet, n int) []string {
	head := set.Head(n)
	keys := make([]string, len(head))
	for i, e := range head {
		keys[i] = e.Key
	}
	return keys
}

// Head returns the first n entries. A negative n returns every entry.
func (s RankedSet) Head(n int) RankedSet {
	if n < 0 || n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// Total sums the counts of the set
func (s RankedSet) Total() int64 {
	var total int64
	for _, e := range s {
		total += e.Count
	}
	return total
}

// Keys returns the keys of the set in rank order
func (s RankedSet) Keys() []string {
	return TopN(s, -1)
}

// ProtocolBreakdown ranks protocols by packet count. Shares add up to one.
func ProtocolBreakdown(rs *packet.RecordSet) (RankedSet, error) {
	return CountByKey(rs, packet.ProtocolKey)
}

// TopSources returns the n most active sending addresses
func TopSources(rs *packet.RecordSet, n int) (RankedSet, error) {
	set, err := CountByKey(rs, packet.SourceKey)
	if err != nil {
		return nil, err
	}
	return set.Head(n), nil
}
