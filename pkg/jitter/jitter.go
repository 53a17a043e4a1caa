package jitter

import (
	"fmt"
	"math"
	"sort"

	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/pkg/ranking"
)

// Mode selects how the jitter of an inter-arrival time is measured
type Mode int

const (
	// MeanDeviation measures the absolute deviation of every inter-arrival
	// time from the mean inter-arrival time of its group
	MeanDeviation Mode = iota

	// Successive measures the absolute change between consecutive
	// inter-arrival times
	Successive
)

func (m Mode) String() string {
	switch m {
	case MeanDeviation:
		return "mean"
	case Successive:
		return "successive"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode resolves a mode by name
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "mean":
		return MeanDeviation, nil
	case "successive", "delta":
		return Successive, nil
	}
	return MeanDeviation, fmt.Errorf("unknown jitter mode %q: %w", name, packet.ErrInvalidArgument)
}

type (
	// Point is the jitter observed when a packet arrived
	Point struct {
		Time         float64 `json:"time"`
		InterArrival float64 `json:"inter_arrival"`
		Jitter       float64 `json:"jitter"`
	}

	// Series is the chronological jitter of a single group
	Series struct {
		Key              string  `json:"key"`
		Count            int64   `json:"count"`
		MeanInterArrival float64 `json:"mean_inter_arrival"`
		Points           []Point `json:"points"`
	}

	// Result holds one series per selected group, in descending count order
	Result struct {
		Key      string   `json:"key"`
		Mode     string   `json:"mode"`
		Series   []Series `json:"series"`
		Excluded int      `json:"excluded"`
	}
)

// JitterSeries computes the deviation from the mean inter-arrival time for
// the maxGroups largest groups of the record set
func JitterSeries(rs *packet.RecordSet, key packet.Key, maxGroups int) (*Result, error) {
	return Compute(rs, key, maxGroups, MeanDeviation)
}

// Compute selects the maxGroups largest groups by record count and derives
// the jitter series of each using the given mode
func Compute(rs *packet.RecordSet, key packet.Key, maxGroups int, mode Mode) (*Result, error) {
	const analysis = "jitter"

	if maxGroups < 0 {
		return nil, fmt.Errorf("%s: negative group count %d: %w", analysis, maxGroups, packet.ErrInvalidArgument)
	}
	if err := rs.Require(analysis, packet.FieldTimestamp); err != nil {
		return nil, err
	}
	if err := rs.Require(analysis, key.Requires...); err != nil {
		return nil, err
	}

	groups, err := ranking.CountByKey(rs, key)
	if err != nil {
		return nil, err
	}
	groups = groups.Head(maxGroups)

	selected := make(map[string]int, len(groups))
	for i, g := range groups {
		selected[g.Key] = i
	}

	// gather the usable timestamps of each selected group in load order
	times := make([][]float64, len(groups))
	result := &Result{Key: key.Name, Mode: mode.String()}
	usable := 0
	rs.Each(func(_ int, r *packet.Record) {
		ts, ok := r.Time()
		if !ok {
			result.Excluded++
			return
		}
		usable++
		v, ok := key.Value(r)
		if !ok {
			return
		}
		if i, ok := selected[v]; ok {
			times[i] = append(times[i], ts)
		}
	})

	if rs.Len() > 0 && usable == 0 {
		return nil, &packet.EmptyResultError{Analysis: analysis, Reason: "no record has a usable timestamp"}
	}

	result.Series = make([]Series, len(groups))
	for i, g := range groups {
		result.Series[i] = series(g.Key, g.Count, times[i], mode)
	}
	return result, nil
}

// series derives the jitter of a single group from its timestamps
func series(key string, count int64, ts []float64, mode Mode) Series {
	s := Series{Key: key, Count: count, Points: []Point{}}
	if len(ts) < 2 {
		return s
	}

	// records with equal timestamps keep their relative order
	sort.SliceStable(ts, func(i, j int) bool { return ts[i] < ts[j] })

	interArrival := make([]float64, len(ts)-1)
	var sum float64
	for i := 1; i < len(ts); i++ {
		interArrival[i-1] = ts[i] - ts[i-1]
		sum += interArrival[i-1]
	}
	s.MeanInterArrival = sum / float64(len(interArrival))

	switch mode {
	case Successive:
		for i := 1; i < len(interArrival); i++ {
			s.Points = append(s.Points, Point{
				Time:         ts[i+1],
				InterArrival: interArrival[i],
				Jitter:       math.Abs(interArrival[i] - interArrival[i-1]),
			})
		}
	default:
		for i, ia := range interArrival {
			s.Points = append(s.Points, Point{
				Time:         ts[i+1],
				InterArrival: ia,
				Jitter:       math.Abs(ia - s.MeanInterArrival),
			})
		}
	}
	return s
}
