package reporting

import (
	"fmt"
	"html/template"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/activecm/trafficlens/analysis"
	"github.com/activecm/trafficlens/pkg/dataset"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/printing"
	htmlTempl "github.com/activecm/trafficlens/reporting/templates"
	"github.com/activecm/trafficlens/resources"
	"github.com/activecm/trafficlens/util"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

// Analysis outcomes recorded in the report index
const (
	StatusOK            = "ok"
	StatusMissingColumn = "missing-column"
	StatusNoData        = "no-data"
	StatusError         = "error"
)

type (
	// Status records the outcome of one analysis
	Status struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Error       string `json:"error,omitempty"`
		File        string `json:"file,omitempty"`
		Duration    string `json:"duration"`
	}

	// Index is written to index.json and rendered into index.html
	Index struct {
		Dataset   dataset.Summary `json:"dataset"`
		Version   string          `json:"version"`
		Generated string          `json:"generated"`
		Analyses  []Status        `json:"analyses"`
	}

	// outcome is the raw result of running one analysis
	outcome struct {
		index    int
		result   interface{}
		err      error
		duration time.Duration
	}
)

// Report runs every analysis over the dataset concurrently and writes the
// results into a fresh folder below the configured output directory. A
// failing analysis is recorded in the index and never aborts the report.
// Progress is drawn on the given writer.
func Report(res *resources.Resources, ds *dataset.Dataset, progress io.Writer) (string, *Index, error) {
	outFolder, err := createOutFolder(res.Config.S.Report.OutputDirectory, ds.Name)
	if err != nil {
		return "", nil, err
	}

	analyses := analysis.All()
	outcomes := runAll(ds.Records, analysis.ParamsFromConfig(res.Config), analyses, progress)

	index := &Index{
		Dataset:   ds.Summary(),
		Version:   res.Config.S.Version,
		Generated: time.Now().Format(time.RFC3339),
		Analyses:  make([]Status, len(analyses)),
	}

	for _, out := range outcomes {
		a := analyses[out.index]
		status := Status{
			Name:        a.Name,
			Description: a.Description,
			Status:      statusOf(out.err),
			Duration:    util.FormatDuration(out.duration),
		}
		if out.err != nil {
			status.Error = out.err.Error()
			res.Log.WithFields(log.Fields{
				"analysis": a.Name,
				"dataset":  ds.Name,
				"error":    out.err.Error(),
			}).Warn("Analysis produced no result")
		} else {
			status.File = a.Name + ".json"
			if err := writeJSON(filepath.Join(outFolder, status.File), out.result); err != nil {
				return outFolder, nil, err
			}
		}
		index.Analyses[out.index] = status
	}

	if err := writeJSON(filepath.Join(outFolder, "index.json"), index); err != nil {
		return outFolder, nil, err
	}
	if err := writeIndexPage(outFolder, index); err != nil {
		return outFolder, nil, err
	}
	return outFolder, index, nil
}

// runAll runs the analyses on a pool of workers sharing the record set
func runAll(rs *packet.RecordSet, params analysis.Params, analyses []analysis.Analysis, progress io.Writer) []outcome {
	jobs := make(chan int)
	results := make(chan outcome)
	wg := new(sync.WaitGroup)

	workers := util.Min(len(analyses), util.Max(1, runtime.NumCPU()/2))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				start := time.Now()
				result, err := runOne(analyses[idx], rs, params)
				results <- outcome{index: idx, result: result, err: err, duration: time.Since(start)}
			}
		}()
	}

	go func() {
		for idx := range analyses {
			jobs <- idx
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// progress bar for troubleshooting
	p := mpb.New(mpb.WithWidth(20), mpb.WithOutput(progress))
	bar := p.AddBar(int64(len(analyses)),
		mpb.PrependDecorators(
			decor.Name("\t[-] Running Analyses:", decor.WC{W: 30, C: decor.DidentRight}),
			decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	outcomes := make([]outcome, 0, len(analyses))
	for out := range results {
		outcomes = append(outcomes, out)
		bar.IncrBy(1, out.duration)
	}
	p.Wait()
	return outcomes
}

// runOne runs a single analysis, turning a panic into an error so the
// remaining analyses still finish
func runOne(a analysis.Analysis, rs *packet.RecordSet, params analysis.Params) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%s: analysis failed: %v", a.Name, r)
		}
	}()
	return a.Run(rs, params)
}

// statusOf classifies an analysis error
func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case packet.IsSchemaError(err):
		return StatusMissingColumn
	case packet.IsEmptyResult(err):
		return StatusNoData
	}
	return StatusError
}

// createOutFolder creates <dir>/<name>, appending a counter while the
// folder already exists
func createOutFolder(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	base := filepath.Join(dir, name)
	outFolder := base
	counter := 1

	//while the file exists, append the next counter
	for {
		exists, err := util.Exists(outFolder)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		outFolder = base + strconv.Itoa(counter)
		counter++
	}

	if err := os.Mkdir(outFolder, 0755); err != nil {
		return "", err
	}
	return outFolder, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := printing.WriteJSON(f, v); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

func writeIndexPage(outFolder string, index *Index) error {
	err := ioutil.WriteFile(filepath.Join(outFolder, "style.css"), htmlTempl.CSStempl, 0644)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(outFolder, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := template.New("index.html").Parse(htmlTempl.IndexTempl)
	if err != nil {
		return err
	}
	return out.Execute(f, index)
}
