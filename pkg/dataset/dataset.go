package dataset

import (
	"time"

	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/google/uuid"
)

// Dataset is a handle on one loaded capture. Every analysis of an invocation
// receives the same handle rather than consulting shared state.
type Dataset struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Sources  []string          `json:"sources"`
	LoadedAt time.Time         `json:"loaded_at"`
	Records  *packet.RecordSet `json:"-"`
}

// Summary describes a dataset for reports
type Summary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Sources  []string         `json:"sources"`
	LoadedAt string           `json:"loaded_at"`
	Records  int              `json:"records"`
	Columns  []string         `json:"columns"`
	Stats    packet.LoadStats `json:"stats"`
}

// New wraps a record set in a fresh dataset handle
func New(name string, sources []string, records *packet.RecordSet) *Dataset {
	if records == nil {
		records = packet.New(nil)
	}
	src := make([]string, len(sources))
	copy(src, sources)
	return &Dataset{
		ID:       uuid.New(),
		Name:     name,
		Sources:  src,
		LoadedAt: time.Now(),
		Records:  records,
	}
}

// Summary returns the report friendly description of the dataset
func (d *Dataset) Summary() Summary {
	columns := d.Records.Columns()
	names := make([]string, len(columns))
	for i, f := range columns {
		names[i] = f.String()
	}
	return Summary{
		ID:       d.ID.String(),
		Name:     d.Name,
		Sources:  d.Sources,
		LoadedAt: d.LoadedAt.Format(time.RFC3339),
		Records:  d.Records.Len(),
		Columns:  names,
		Stats:    d.Records.Stats(),
	}
}
