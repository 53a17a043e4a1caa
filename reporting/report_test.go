package reporting

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/activecm/trafficlens/analysis"
	"github.com/activecm/trafficlens/pkg/dataset"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/resources"
	"github.com/activecm/trafficlens/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(columns ...packet.Field) *dataset.Dataset {
	var records []packet.Record
	for i := 0; i < 20; i++ {
		src, dst := "10.0.0.1", "10.0.0.2"
		if i%3 == 0 {
			src, dst = dst, src
		}
		records = append(records, packet.Record{
			Sequence:    int64(i + 1),
			Timestamp:   packet.Float(float64(i) * 0.7),
			Source:      src,
			Destination: dst,
			Protocol:    "TCP",
			Length:      packet.Int(int64(60 + i*10)),
		})
	}
	return dataset.New("office", []string{"office.csv"}, packet.New(records, columns...))
}

func TestReport(t *testing.T) {
	dir, err := ioutil.TempDir("", "trafficlens-report")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	res := resources.InitTestResources(t)
	res.Config.S.Report.OutputDirectory = dir

	outFolder, index, err := Report(res, sampleDataset(), ioutil.Discard)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "office"), outFolder)

	require.Len(t, index.Analyses, 10)
	for _, status := range index.Analyses {
		assert.Equal(t, StatusOK, status.Status, status.Name)
		assert.NotEmpty(t, status.Duration, status.Name)
		exists, err := util.Exists(filepath.Join(outFolder, status.File))
		assert.NoError(t, err)
		assert.True(t, exists, status.File)
	}
	assert.Equal(t, "protocols", index.Analyses[0].Name)
	assert.Equal(t, 20, index.Dataset.Records)

	for _, name := range []string{"index.json", "index.html", "style.css"} {
		exists, err := util.Exists(filepath.Join(outFolder, name))
		assert.NoError(t, err)
		assert.True(t, exists, name)
	}

	second, _, err := Report(res, sampleDataset(), ioutil.Discard)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "office1"), second)
}

func TestReportRecordsFailures(t *testing.T) {
	dir, err := ioutil.TempDir("", "trafficlens-report")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	res := resources.InitTestResources(t)
	res.Config.S.Report.OutputDirectory = dir

	ds := sampleDataset(packet.FieldSequence, packet.FieldTimestamp, packet.FieldSource, packet.FieldDestination)
	outFolder, index, err := Report(res, ds, ioutil.Discard)
	require.NoError(t, err)

	statuses := make(map[string]Status)
	for _, s := range index.Analyses {
		statuses[s.Name] = s
	}
	assert.Equal(t, StatusMissingColumn, statuses["protocols"].Status)
	assert.Equal(t, StatusMissingColumn, statuses["lengths"].Status)
	assert.Empty(t, statuses["lengths"].File)
	assert.NotEmpty(t, statuses["lengths"].Error)
	assert.Equal(t, StatusOK, statuses["graph"].Status)

	exists, err := util.Exists(filepath.Join(outFolder, "lengths.json"))
	assert.NoError(t, err)
	assert.False(t, exists)

	page, err := ioutil.ReadFile(filepath.Join(outFolder, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `class="failed"`)
	style, err := ioutil.ReadFile(filepath.Join(outFolder, "style.css"))
	require.NoError(t, err)
	assert.Contains(t, string(style), "tr.failed")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOK, statusOf(nil))
	assert.Equal(t, StatusMissingColumn, statusOf(&packet.SchemaError{Analysis: "x", Field: packet.FieldLength}))
	assert.Equal(t, StatusNoData, statusOf(&packet.EmptyResultError{Analysis: "x", Reason: "y"}))
	assert.Equal(t, StatusError, statusOf(errors.New("boom")))
}

func TestRunAllSurvivesPanics(t *testing.T) {
	analyses := []analysis.Analysis{
		{
			Name: "broken",
			Run: func(rs *packet.RecordSet, p analysis.Params) (interface{}, error) {
				var bins []int
				return bins[rs.Len()], nil
			},
		},
		{
			Name: "count",
			Run: func(rs *packet.RecordSet, p analysis.Params) (interface{}, error) {
				return rs.Len(), nil
			},
		},
	}

	outcomes := runAll(sampleDataset().Records, analysis.Params{}, analyses, ioutil.Discard)
	require.Len(t, outcomes, 2)
	for _, out := range outcomes {
		switch analyses[out.index].Name {
		case "broken":
			assert.Error(t, out.err)
			assert.Nil(t, out.result)
			assert.Equal(t, StatusError, statusOf(out.err))
		case "count":
			assert.NoError(t, out.err)
			assert.Equal(t, 20, out.result)
		}
	}
}

func TestReportHugeLength(t *testing.T) {
	dir, err := ioutil.TempDir("", "trafficlens-report")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	res := resources.InitTestResources(t)
	res.Config.S.Report.OutputDirectory = dir

	ds := sampleDataset()
	records := ds.Records.Records()
	records[0].Length = packet.Int(9000000000000000000)
	ds.Records = ds.Records.Derive(records)

	_, index, err := Report(res, ds, ioutil.Discard)
	require.NoError(t, err)

	statuses := make(map[string]Status)
	for _, s := range index.Analyses {
		statuses[s.Name] = s
	}
	assert.Equal(t, StatusError, statuses["lengths"].Status)
	assert.Equal(t, StatusOK, statuses["protocols"].Status)
	assert.Equal(t, StatusOK, statuses["graph"].Status)
}
