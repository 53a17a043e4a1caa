package analysis

import (
	"time"

	"github.com/activecm/trafficlens/config"
	"github.com/activecm/trafficlens/pkg/distribution"
	"github.com/activecm/trafficlens/pkg/jitter"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/pkg/ranking"
	"github.com/activecm/trafficlens/pkg/timeline"
	"github.com/activecm/trafficlens/pkg/topology"
	"github.com/activecm/trafficlens/pkg/window"
)

type (
	// Params holds the parameters of every analysis
	Params struct {
		TopN         int
		GraphTopN    int
		KeepOthers   bool
		WindowSize   time.Duration
		BinSize      int64
		JitterKey    packet.Key
		JitterMode   jitter.Mode
		JitterGroups int
		EntropyKey   packet.Key
		Layout       topology.LayoutOptions
	}

	// Analysis is a named computation over a record set
	Analysis struct {
		Name        string
		Description string
		Run         func(rs *packet.RecordSet, p Params) (interface{}, error)
	}
)

// ParamsFromConfig reads the analysis parameters from the configuration
func ParamsFromConfig(conf *config.Config) Params {
	return Params{
		TopN:         conf.S.Analysis.TopN,
		GraphTopN:    conf.S.Analysis.GraphTopN,
		KeepOthers:   conf.S.Analysis.KeepOthers,
		WindowSize:   conf.R.Analysis.WindowSize,
		BinSize:      conf.S.Analysis.BinSize,
		JitterKey:    conf.R.Analysis.JitterKey,
		JitterMode:   conf.R.Analysis.JitterMode,
		JitterGroups: conf.S.Analysis.JitterGroups,
		EntropyKey:   conf.R.Analysis.EntropyKey,
		Layout:       conf.R.Analysis.Layout,
	}
}

// All returns every analysis in report order
func All() []Analysis {
	return []Analysis{
		{
			Name:        "protocols",
			Description: "Packet count and share per protocol",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return ranking.ProtocolBreakdown(rs)
			},
		},
		{
			Name:        "top-sources",
			Description: "Addresses sending the most packets",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return ranking.TopSources(rs, p.TopN)
			},
		},
		{
			Name:        "top-talkers",
			Description: "Addresses appearing most often as either endpoint",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				set, err := ranking.RankNodes(rs)
				if err != nil {
					return nil, err
				}
				return set.Head(p.TopN), nil
			},
		},
		{
			Name:        "conversations",
			Description: "Connections between the top talkers",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return Conversations(rs, p.TopN, p.KeepOthers)
			},
		},
		{
			Name:        "jitter",
			Description: "Inter-arrival jitter of the busiest groups",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return jitter.Compute(rs, p.JitterKey, p.JitterGroups, p.JitterMode)
			},
		},
		{
			Name:        "heatmap",
			Description: "Packets per second within each time window",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return window.ActivityHeatmap(rs, p.WindowSize)
			},
		},
		{
			Name:        "entropy",
			Description: "Shannon entropy per time window",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return window.EntropyOverTime(rs, p.WindowSize, p.EntropyKey)
			},
		},
		{
			Name:        "lengths",
			Description: "Packet length distribution",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return distribution.LengthHistogram(rs, p.BinSize)
			},
		},
		{
			Name:        "graph",
			Description: "Communication graph of the most active addresses",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return topology.BuildTopologyGraph(rs, p.GraphTopN, p.Layout)
			},
		},
		{
			Name:        "timeline",
			Description: "Packets over time per connection",
			Run: func(rs *packet.RecordSet, p Params) (interface{}, error) {
				return timeline.Build(rs)
			},
		},
	}
}

// Lookup finds an analysis by name
func Lookup(name string) (Analysis, bool) {
	for _, a := range All() {
		if a.Name == name {
			return a, true
		}
	}
	return Analysis{}, false
}

// Conversations counts the connections of the record set after bounding it
// to the n most active addresses. With keepOthers set, endpoints outside of
// the top addresses are folded into ranking.OtherLabel.
func Conversations(rs *packet.RecordSet, n int, keepOthers bool) (ranking.RankedSet, error) {
	top, err := ranking.RankNodesBidirectional(rs, n)
	if err != nil {
		return nil, err
	}
	return ranking.CountByKey(ranking.FilterByNodeSet(rs, top, keepOthers), packet.ConnectionKey)
}
