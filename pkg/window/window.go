package window

import (
	"fmt"
	"math"
	"time"

	"github.com/activecm/trafficlens/pkg/packet"
)

// DefaultSize is the default bucket width of windowed statistics
const DefaultSize = time.Minute

// seconds validates a window size and converts it to seconds
func seconds(analysis string, size time.Duration) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%s: window size must be positive, got %s: %w", analysis, size, packet.ErrInvalidArgument)
	}
	return size.Seconds(), nil
}

// bucketOf returns the index of the half-open window [k*w, (k+1)*w) holding ts
func bucketOf(ts, width float64) int64 {
	return int64(math.Floor(ts / width))
}

// Label renders the start of a window as elapsed hours, minutes and seconds
func Label(start float64) string {
	sign := ""
	if start < 0 {
		sign = "-"
		start = -start
	}
	d := time.Duration(math.Round(start * float64(time.Second)))
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}
