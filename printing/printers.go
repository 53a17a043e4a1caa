package printing

import (
	"io"
	"strconv"

	"github.com/activecm/trafficlens/pkg/distribution"
	"github.com/activecm/trafficlens/pkg/jitter"
	"github.com/activecm/trafficlens/pkg/ranking"
	"github.com/activecm/trafficlens/pkg/timeline"
	"github.com/activecm/trafficlens/pkg/topology"
	"github.com/activecm/trafficlens/pkg/window"
)

// Ranked prints a ranked set under the given key column name
func Ranked(w io.Writer, format Format, keyHeader string, set ranking.RankedSet) error {
	rows := make([][]string, 0, len(set))
	for _, e := range set {
		rows = append(rows, []string{e.Key, i(e.Count), pct(e.Share)})
	}
	return write(w, format, set, section{
		header: []string{keyHeader, "Packets", "Share %"},
		rows:   rows,
	})
}

// Jitter prints one row per arrival of every selected group
func Jitter(w io.Writer, format Format, res *jitter.Result) error {
	var rows [][]string
	for _, s := range res.Series {
		for _, p := range s.Points {
			rows = append(rows, []string{s.Key, f(p.Time), f(p.InterArrival), f(p.Jitter)})
		}
	}
	return write(w, format, res, section{
		header: []string{"Group", "Time", "Inter-Arrival", "Jitter"},
		rows:   rows,
	})
}

// JitterSummary prints one row per selected group
func JitterSummary(w io.Writer, format Format, res *jitter.Result) error {
	rows := make([][]string, 0, len(res.Series))
	for _, s := range res.Series {
		var peak float64
		for _, p := range s.Points {
			if p.Jitter > peak {
				peak = p.Jitter
			}
		}
		rows = append(rows, []string{s.Key, i(int64(s.Count)), f(s.MeanInterArrival), f(peak)})
	}
	return write(w, format, res, section{
		header: []string{"Group", "Packets", "Mean Inter-Arrival", "Peak Jitter"},
		rows:   rows,
	})
}

// Heatmap prints one row per window and one column per second offset
func Heatmap(w io.Writer, format Format, hm *window.Heatmap) error {
	header := make([]string, 0, len(hm.Columns)+1)
	header = append(header, "Window")
	for _, c := range hm.Columns {
		header = append(header, strconv.Itoa(c))
	}

	rows := make([][]string, 0, len(hm.Rows))
	for _, r := range hm.Rows {
		row := make([]string, 0, len(r.Counts)+1)
		row = append(row, r.Label)
		for _, c := range r.Counts {
			row = append(row, i(c))
		}
		rows = append(rows, row)
	}
	return write(w, format, hm, section{header: header, rows: rows})
}

// Entropy prints the entropy of every window
func Entropy(w io.Writer, format Format, res *window.EntropyResult) error {
	rows := make([][]string, 0, len(res.Points))
	for _, p := range res.Points {
		rows = append(rows, []string{p.Label, i(p.Records), strconv.Itoa(p.Categories), f(p.Entropy)})
	}
	return write(w, format, res, section{
		header: []string{"Window", "Packets", "Distinct " + res.Key, "Entropy (bits)"},
		rows:   rows,
	})
}

// Histogram prints the bins of a packet length distribution
func Histogram(w io.Writer, format Format, hist *distribution.Histogram) error {
	rows := make([][]string, 0, len(hist.Bins))
	for _, b := range hist.Bins {
		rows = append(rows, []string{i(b.Start), i(b.End), i(b.Count)})
	}
	return write(w, format, hist, section{
		header: []string{"From", "To", "Packets"},
		rows:   rows,
	})
}

// Graph prints the node list followed by the edge list
func Graph(w io.Writer, format Format, g *topology.Graph) error {
	nodes := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, []string{n.ID, i(n.Count), strconv.FormatBool(n.Top), f(n.X), f(n.Y)})
	}
	edges := make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, []string{e.Source, e.Target, i(e.Packets)})
	}
	return write(w, format, g,
		section{header: []string{"Node", "Packets", "Top", "X", "Y"}, rows: nodes},
		section{header: []string{"Source", "Target", "Packets"}, rows: edges},
	)
}

// Timeline prints one row per timestamped packet
func Timeline(w io.Writer, format Format, tl *timeline.Timeline) error {
	rows := make([][]string, 0, len(tl.Points))
	for _, p := range tl.Points {
		conn := tl.Connections[p.ConnectionID]
		rows = append(rows, []string{f(p.Time), strconv.Itoa(p.ConnectionID), conn.Label, i(p.Sequence)})
	}
	return write(w, format, tl, section{
		header: []string{"Time", "Connection ID", "Connection", "Packet"},
		rows:   rows,
	})
}
