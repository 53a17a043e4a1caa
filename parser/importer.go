package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/activecm/trafficlens/pkg/dataset"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/resources"
	"github.com/activecm/trafficlens/util"
	"github.com/pbnjay/memory"
	log "github.com/sirupsen/logrus"
)

// ErrNoInput is returned when none of the given paths holds a capture file
var ErrNoInput = errors.New("no .csv, .pcap or .pcapng files found")

type (
	// Importer reads capture exports and captures into a dataset
	Importer struct {
		log            *log.Logger
		columns        packet.ColumnMap
		delimiter      rune
		memoryFraction float64
		filter         filter
		totalMemory    func() uint64
	}
)

// NewImporter creates a new importer from the resource bundle
func NewImporter(res *resources.Resources) (*Importer, error) {
	delimiter, err := parseDelimiter(res.Config.S.Import.Delimiter)
	if err != nil {
		return nil, err
	}
	return &Importer{
		log:            res.Log,
		columns:        res.Config.R.Columns,
		delimiter:      delimiter,
		memoryFraction: res.Config.S.Import.MemoryFraction,
		filter:         newFilter(res.Config),
		totalMemory:    memory.TotalMemory,
	}, nil
}

// SetDelimiter overrides the configured csv delimiter
func (im *Importer) SetDelimiter(delimiter string) error {
	r, err := parseDelimiter(delimiter)
	if err != nil {
		return err
	}
	im.delimiter = r
	return nil
}

// Import gathers the capture files under paths, reads them in order and
// returns them as a single dataset
func (im *Importer) Import(paths []string) (*dataset.Dataset, error) {
	files := GatherFiles(paths, im.log)
	if len(files) == 0 {
		return nil, ErrNoInput
	}

	im.checkMemory(files)

	sets := make([]*packet.RecordSet, 0, len(files))
	starts := make([]time.Time, 0, len(files))
	for _, file := range files {
		rs, start, err := im.readFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %v", file, err)
		}
		im.log.WithFields(log.Fields{
			"path":    file,
			"records": rs.Len(),
		}).Info("Read capture file")
		sets = append(sets, rs)
		starts = append(starts, start)
	}

	alignCaptures(sets, starts)
	records := packet.Concat(sets...)
	records, dropped := im.filter.apply(records)
	if dropped > 0 {
		im.log.WithFields(log.Fields{
			"dropped": dropped,
		}).Info("Filtered records involving never included addresses")
	}

	stats := records.Stats()
	if stats.MalformedTimestamp+stats.MalformedLength+stats.MalformedSequence > 0 {
		im.log.WithFields(log.Fields{
			"malformed_timestamp": stats.MalformedTimestamp,
			"malformed_length":    stats.MalformedLength,
			"malformed_sequence":  stats.MalformedSequence,
		}).Warn("Some cells could not be parsed and were treated as missing")
	}

	return dataset.New(datasetName(files), files, records), nil
}

// ReadFile reads a single capture export or capture. Capture timestamps
// are seconds since the first packet of the file.
func (im *Importer) ReadFile(file string) (*packet.RecordSet, error) {
	rs, _, err := im.readFile(file)
	return rs, err
}

// readFile also returns the capture time of the first packet of a capture.
// It is zero for csv exports, which only carry relative time.
func (im *Importer) readFile(file string) (*packet.RecordSet, time.Time, error) {
	reader, closer, err := openFile(file)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer closer()

	switch kindOf(file) {
	case csvFile:
		rs, err := ReadCSV(reader, im.columns, im.delimiter)
		return rs, time.Time{}, err
	case pcapFile:
		return readPcap(reader, im.log)
	case pcapngFile:
		return readPcapNg(reader, im.log)
	}
	return nil, time.Time{}, fmt.Errorf("unsupported file type: %s", file)
}

// alignCaptures moves every capture onto the time axis of the earliest
// capture, so packets of captures taken side by side interleave. Csv
// exports keep their own relative time.
func alignCaptures(sets []*packet.RecordSet, starts []time.Time) {
	var origin time.Time
	for _, start := range starts {
		if !start.IsZero() && (origin.IsZero() || start.Before(origin)) {
			origin = start
		}
	}
	for i, start := range starts {
		if start.IsZero() || start.Equal(origin) {
			continue
		}
		sets[i] = sets[i].ShiftTime(start.Sub(origin).Seconds())
	}
}

// checkMemory warns when the input is large compared to the system memory.
// Every record is held in memory for the duration of the analysis.
func (im *Importer) checkMemory(files []string) {
	total := im.totalMemory()
	if total == 0 || im.memoryFraction <= 0 {
		return
	}

	var size int64
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		size += info.Size()
	}

	limit := uint64(float64(total) * im.memoryFraction)
	if uint64(size) > limit {
		im.log.WithFields(log.Fields{
			"input_bytes":  size,
			"memory_bytes": total,
		}).Warn("Input files are large compared to the available memory")
	}
}

// datasetName derives a name from the first input file
func datasetName(files []string) string {
	base := filepath.Base(files[0])
	for {
		ext := filepath.Ext(base)
		if ext == "" || !isCaptureExt(ext) {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	if len(files) > 1 {
		return fmt.Sprintf("%s+%d", base, len(files)-1)
	}
	return base
}

// captureExts are the extensions stripped from a dataset name
var captureExts = []string{".gz", ".csv", ".pcap", ".pcapng", ".cap"}

func isCaptureExt(ext string) bool {
	return util.StringInSlice(strings.ToLower(ext), captureExts)
}
