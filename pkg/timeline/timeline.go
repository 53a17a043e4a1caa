package timeline

import (
	"sort"

	"github.com/activecm/trafficlens/pkg/packet"
)

type (
	// Connection is a directional source/destination pair and the id it was
	// assigned in order of first appearance
	Connection struct {
		ID          int    `json:"id"`
		Label       string `json:"label"`
		Source      string `json:"source"`
		Destination string `json:"destination"`
		Packets     int64  `json:"packets"`
	}

	// Point places one packet of a connection on the time axis
	Point struct {
		Time         float64 `json:"time"`
		ConnectionID int     `json:"connection_id"`
		Sequence     int64   `json:"sequence"`
	}

	// Timeline is the scatter of packets over time per connection
	Timeline struct {
		Connections []Connection `json:"connections"`
		Points      []Point      `json:"points"`
		Excluded    int          `json:"excluded"`
	}
)

// Build numbers the connections of the record set in the order they first
// appear and emits one point per timestamped packet, sorted by time. Records
// missing an endpoint or a usable timestamp are counted as excluded.
func Build(rs *packet.RecordSet) (*Timeline, error) {
	err := rs.Require("connection timeline", packet.FieldTimestamp, packet.FieldSource, packet.FieldDestination)
	if err != nil {
		return nil, err
	}

	tl := &Timeline{
		Connections: []Connection{},
		Points:      []Point{},
	}
	ids := make(map[string]int)

	rs.Each(func(_ int, r *packet.Record) {
		label, ok := packet.ConnectionKey.Value(r)
		if !ok {
			tl.Excluded++
			return
		}
		id, seen := ids[label]
		if !seen {
			id = len(tl.Connections)
			ids[label] = id
			tl.Connections = append(tl.Connections, Connection{
				ID:          id,
				Label:       label,
				Source:      r.Source,
				Destination: r.Destination,
			})
		}

		ts, ok := r.Time()
		if !ok {
			tl.Excluded++
			return
		}
		tl.Connections[id].Packets++
		tl.Points = append(tl.Points, Point{Time: ts, ConnectionID: id, Sequence: r.Sequence})
	})

	sort.SliceStable(tl.Points, func(i, j int) bool {
		return tl.Points[i].Time < tl.Points[j].Time
	})
	return tl, nil
}
