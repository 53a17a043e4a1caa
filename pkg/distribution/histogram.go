package distribution

import (
	"fmt"
	"math"

	"github.com/activecm/trafficlens/pkg/packet"
)

const (
	// DefaultBinSize is the default histogram bucket width in bytes
	DefaultBinSize = 50

	// MaxBins bounds the number of bins a histogram may span
	MaxBins = 100000
)

type (
	// Bin counts the packets whose length falls in [Start, End)
	Bin struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
		Count int64 `json:"count"`
	}

	// Histogram is the fixed width packet size distribution of a record set.
	// Counted is the sum of the bin counts, Excluded the number of records
	// whose length was missing or unusable.
	Histogram struct {
		BinSize  int64 `json:"bin_size"`
		Bins     []Bin `json:"bins"`
		Max      int64 `json:"max"`
		Counted  int64 `json:"counted"`
		Excluded int   `json:"excluded"`
	}
)

// LengthHistogram bins packet lengths into buckets of binSize bytes starting
// at zero. The last bin is the one holding the largest observed length. A
// histogram spanning more than MaxBins bins is rejected with
// packet.ErrInvalidArgument; a larger bin size brings it back in range.
func LengthHistogram(rs *packet.RecordSet, binSize int64) (*Histogram, error) {
	const analysis = "length histogram"

	if binSize <= 0 {
		return nil, fmt.Errorf("%s: bin size must be positive, got %d: %w", analysis, binSize, packet.ErrInvalidArgument)
	}
	if err := rs.Require(analysis, packet.FieldLength); err != nil {
		return nil, err
	}

	hist := &Histogram{BinSize: binSize}
	lengths := make([]int64, 0, rs.Len())
	rs.Each(func(_ int, r *packet.Record) {
		size, ok := r.Size()
		if !ok {
			hist.Excluded++
			return
		}
		if size > hist.Max {
			hist.Max = size
		}
		lengths = append(lengths, size)
	})

	if len(lengths) == 0 {
		return nil, &packet.EmptyResultError{Analysis: analysis, Reason: "no record has a usable length"}
	}

	// compared by division so the bin count never overflows
	if hist.Max/binSize >= MaxBins {
		return nil, fmt.Errorf("%s: largest length %d spans more than %d bins of %d bytes: %w",
			analysis, hist.Max, MaxBins, binSize, packet.ErrInvalidArgument)
	}

	numBins := hist.Max/binSize + 1
	hist.Bins = make([]Bin, numBins)
	for i := range hist.Bins {
		start := int64(i) * binSize
		end := start + binSize
		if start > math.MaxInt64-binSize {
			end = math.MaxInt64
		}
		hist.Bins[i] = Bin{Start: start, End: end}
	}
	for _, size := range lengths {
		hist.Bins[size/binSize].Count++
	}
	hist.Counted = int64(len(lengths))
	return hist, nil
}
