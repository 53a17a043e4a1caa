package window

import (
	"math"
	"sort"
	"time"

	"github.com/activecm/trafficlens/pkg/packet"
)

type (
	// EntropyPoint is the Shannon entropy of one window, in bits
	EntropyPoint struct {
		WindowStart float64 `json:"window_start"`
		Label       string  `json:"label"`
		Entropy     float64 `json:"entropy"`
		Records     int64   `json:"records"`
		Categories  int     `json:"categories"`
	}

	// EntropyResult is the chronological entropy series of a record set
	EntropyResult struct {
		Key        string         `json:"key"`
		WindowSize float64        `json:"window_size"`
		Points     []EntropyPoint `json:"points"`
		Excluded   int            `json:"excluded"`
	}
)

// windowCounts tallies categories of a single window in first-seen order
type windowCounts struct {
	index  map[string]int
	counts []int64
	total  int64
}

func (w *windowCounts) add(category string) {
	w.total++
	if i, ok := w.index[category]; ok {
		w.counts[i]++
		return
	}
	w.index[category] = len(w.counts)
	w.counts = append(w.counts, 1)
}

// entropy computes -Σ p·log2(p) over the observed categories. Every
// observed category has p > 0, so log2 is never applied to zero.
func (w *windowCounts) entropy() float64 {
	h := 0.0
	for _, c := range w.counts {
		p := float64(c) / float64(w.total)
		h -= p * math.Log2(p)
	}
	if h < 0 {
		h = 0
	}
	return h
}

// EntropyOverTime computes the Shannon entropy of the key's categories
// within every window of the given size. Windows without qualifying
// records are omitted.
func EntropyOverTime(rs *packet.RecordSet, windowSize time.Duration, key packet.Key) (*EntropyResult, error) {
	const analysis = "entropy over time"

	width, err := seconds(analysis, windowSize)
	if err != nil {
		return nil, err
	}
	if err := rs.Require(analysis, packet.FieldTimestamp); err != nil {
		return nil, err
	}
	if err := rs.Require(analysis, key.Requires...); err != nil {
		return nil, err
	}

	res := &EntropyResult{Key: key.Name, WindowSize: width, Points: []EntropyPoint{}}
	windows := make(map[int64]*windowCounts)
	usable := 0
	rs.Each(func(_ int, r *packet.Record) {
		ts, ok := r.Time()
		if !ok {
			res.Excluded++
			return
		}
		usable++
		category, ok := key.Value(r)
		if !ok {
			res.Excluded++
			return
		}
		bucket := bucketOf(ts, width)
		w, ok := windows[bucket]
		if !ok {
			w = &windowCounts{index: make(map[string]int)}
			windows[bucket] = w
		}
		w.add(category)
	})

	if rs.Len() > 0 && usable == 0 {
		return nil, &packet.EmptyResultError{Analysis: analysis, Reason: "no record has a usable timestamp"}
	}

	buckets := make([]int64, 0, len(windows))
	for b := range windows {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	for _, b := range buckets {
		w := windows[b]
		start := float64(b) * width
		res.Points = append(res.Points, EntropyPoint{
			WindowStart: start,
			Label:       Label(start),
			Entropy:     w.entropy(),
			Records:     w.total,
			Categories:  len(w.counts),
		})
	}
	return res, nil
}
