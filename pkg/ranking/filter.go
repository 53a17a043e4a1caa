package ranking

import (
	"github.com/activecm/trafficlens/pkg/packet"
)

// OtherLabel replaces endpoints outside of the node set when relabeling
const OtherLabel = "Other"

// NodeSet is a set of addresses
type NodeSet map[string]struct{}

// NewNodeSet builds a set from a list of addresses
func NewNodeSet(nodes []string) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s.Insert(n)
	}
	return s
}

//Insert adds an address to the set
func (s NodeSet) Insert(node string) {
	s[node] = struct{}{}
}

//Contains checks if a given address is in the set
func (s NodeSet) Contains(node string) bool {
	_, ok := s[node]
	return ok
}

// FilterByNodeSet bounds the cardinality of the record set to the given
// nodes. With keepOthers unset, records where neither endpoint is a member
// are dropped. With keepOthers set, every record is kept and non-member
// endpoints are relabeled to OtherLabel. The input set is not modified.
func FilterByNodeSet(rs *packet.RecordSet, nodes []string, keepOthers bool) *packet.RecordSet {
	set := NewNodeSet(nodes)
	out := make([]packet.Record, 0, rs.Len())

	rs.Each(func(_ int, r *packet.Record) {
		if !keepOthers {
			if set.Contains(r.Source) || set.Contains(r.Destination) {
				out = append(out, *r)
			}
			return
		}
		rec := *r
		if rec.Source != "" && !set.Contains(rec.Source) {
			rec.Source = OtherLabel
		}
		if rec.Destination != "" && !set.Contains(rec.Destination) {
			rec.Destination = OtherLabel
		}
		out = append(out, rec)
	})
	return rs.Derive(out)
}
