package parser

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/resources"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	dir, err := ioutil.TempDir("", "trafficlens-import")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	csvPath := filepath.Join(dir, "office.csv")
	require.NoError(t, ioutil.WriteFile(csvPath, []byte(
		"No.,Time,Source,Destination,Protocol,Length\n"+
			"1,0.1,10.0.0.1,8.8.8.8,DNS,70\n"+
			"2,0.2,10.0.0.1,8.8.4.4,DNS,70\n"), 0644))

	pcapPath := filepath.Join(dir, "office.pcap")
	capture := writeCapture(t, time.Unix(0, 0), udpPacket(t, "10.0.0.2", "10.0.0.3", 100))
	require.NoError(t, ioutil.WriteFile(pcapPath, capture.Bytes(), 0644))

	res := resources.InitTestResources(t)
	im, err := NewImporter(res)
	require.NoError(t, err)

	ds, err := im.Import([]string{csvPath, pcapPath})
	require.NoError(t, err)

	// the testing config never includes 8.8.4.4
	assert.Equal(t, 2, ds.Records.Len())
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, ds.Records.Column(packet.FieldSource))
	assert.Equal(t, "office+1", ds.Name)
	assert.Equal(t, []string{csvPath, pcapPath}, ds.Sources)
}

func TestImportNoInput(t *testing.T) {
	res := resources.InitTestResources(t)
	im, err := NewImporter(res)
	require.NoError(t, err)

	_, err = im.Import([]string{"missing.log"})
	assert.Equal(t, ErrNoInput, err)
}

func TestCheckMemory(t *testing.T) {
	dir, err := ioutil.TempDir("", "trafficlens-memory")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "big.csv")
	require.NoError(t, ioutil.WriteFile(file, make([]byte, 1000), 0644))

	logger, hook := test.NewNullLogger()
	im := &Importer{
		log:            logger,
		memoryFraction: 0.25,
		totalMemory:    func() uint64 { return 2000 },
	}

	im.checkMemory([]string{file})
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)

	hook.Reset()
	im.totalMemory = func() uint64 { return 1 << 30 }
	im.checkMemory([]string{file})
	assert.Empty(t, hook.Entries)
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "capture", datasetName([]string{"/tmp/capture.pcap.gz"}))
	assert.Equal(t, "office.backup", datasetName([]string{"office.backup.csv"}))
	assert.Equal(t, "a+2", datasetName([]string{"a.csv", "b.csv", "c.csv"}))
	assert.Equal(t, "Trace", datasetName([]string{"Trace.PCAPNG"}))
}

func TestImportAlignsCaptures(t *testing.T) {
	dir, err := ioutil.TempDir("", "trafficlens-align")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	start := time.Unix(1700000000, 0)
	late := writeCapture(t, start.Add(10*time.Second),
		udpPacket(t, "10.0.1.1", "10.0.1.2", 10),
		udpPacket(t, "10.0.1.1", "10.0.1.2", 10),
	)
	early := writeCapture(t, start,
		udpPacket(t, "10.0.2.1", "10.0.2.2", 10),
		udpPacket(t, "10.0.2.1", "10.0.2.2", 10),
	)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "late.pcap"), late.Bytes(), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "early.pcap"), early.Bytes(), 0644))

	res := resources.InitTestResources(t)
	im, err := NewImporter(res)
	require.NoError(t, err)

	ds, err := im.Import([]string{filepath.Join(dir, "late.pcap"), filepath.Join(dir, "early.pcap")})
	require.NoError(t, err)
	require.Equal(t, 4, ds.Records.Len())

	times := make(map[string][]float64)
	ds.Records.Each(func(_ int, r *packet.Record) {
		ts, ok := r.Time()
		require.True(t, ok)
		times[r.Source] = append(times[r.Source], ts)
	})
	assert.Equal(t, []float64{0, 0.5}, times["10.0.2.1"])
	assert.Equal(t, []float64{10, 10.5}, times["10.0.1.1"])

	// a single file keeps its own time axis
	rs, err := im.ReadFile(filepath.Join(dir, "late.pcap"))
	require.NoError(t, err)
	ts, _ := rs.At(0).Time()
	assert.Equal(t, 0.0, ts)
}

func TestAlignCapturesSkipsCSV(t *testing.T) {
	csvSet := packet.New([]packet.Record{{Timestamp: packet.Float(3)}})
	later := packet.New([]packet.Record{{Timestamp: packet.Float(1)}})
	earlier := packet.New([]packet.Record{{Timestamp: packet.Float(2)}})

	start := time.Unix(1700000000, 0)
	sets := []*packet.RecordSet{csvSet, later, earlier}
	alignCaptures(sets, []time.Time{{}, start.Add(1500 * time.Millisecond), start})

	ts, _ := sets[0].At(0).Time()
	assert.Equal(t, 3.0, ts)
	ts, _ = sets[1].At(0).Time()
	assert.Equal(t, 2.5, ts)
	ts, _ = sets[2].At(0).Time()
	assert.Equal(t, 2.0, ts)
}
