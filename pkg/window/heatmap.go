package window

import (
	"math"
	"sort"
	"time"

	"github.com/activecm/trafficlens/pkg/packet"
)

type (
	// HeatmapRow counts the packets of one window per second offset
	HeatmapRow struct {
		Label  string  `json:"label"`
		Start  float64 `json:"start"`
		Counts []int64 `json:"counts"`
	}

	// Heatmap is a rectangular grid of packet counts. Every row has one
	// column per whole second of the window.
	Heatmap struct {
		WindowSize float64      `json:"window_size"`
		Columns    []int        `json:"columns"`
		Rows       []HeatmapRow `json:"rows"`
		Excluded   int          `json:"excluded"`
		NoData     bool         `json:"no_data"`
	}
)

// ActivityHeatmap buckets packets into windows of the given size and
// sub-buckets each window by whole second offset. Timestamps are elapsed
// seconds from an arbitrary epoch.
func ActivityHeatmap(rs *packet.RecordSet, windowSize time.Duration) (*Heatmap, error) {
	const analysis = "activity heatmap"

	width, err := seconds(analysis, windowSize)
	if err != nil {
		return nil, err
	}
	if err := rs.Require(analysis, packet.FieldTimestamp); err != nil {
		return nil, err
	}

	numColumns := int(math.Ceil(width))
	if numColumns < 1 {
		numColumns = 1
	}
	hm := &Heatmap{
		WindowSize: width,
		Columns:    make([]int, numColumns),
		Rows:       []HeatmapRow{},
	}
	for i := range hm.Columns {
		hm.Columns[i] = i
	}

	if rs.Len() == 0 {
		hm.NoData = true
		return hm, nil
	}

	rows := make(map[int64]*HeatmapRow)
	rs.Each(func(_ int, r *packet.Record) {
		ts, ok := r.Time()
		if !ok {
			hm.Excluded++
			return
		}
		bucket := bucketOf(ts, width)
		row, ok := rows[bucket]
		if !ok {
			start := float64(bucket) * width
			row = &HeatmapRow{
				Label:  Label(start),
				Start:  start,
				Counts: make([]int64, numColumns),
			}
			rows[bucket] = row
		}
		offset := int(math.Floor(ts - row.Start))
		if offset < 0 {
			offset = 0
		} else if offset >= numColumns {
			offset = numColumns - 1
		}
		row.Counts[offset]++
	})

	if len(rows) == 0 {
		return nil, &packet.EmptyResultError{Analysis: analysis, Reason: "no record has a usable timestamp"}
	}

	buckets := make([]int64, 0, len(rows))
	for b := range rows {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })
	for _, b := range buckets {
		hm.Rows = append(hm.Rows, *rows[b])
	}
	return hm, nil
}
