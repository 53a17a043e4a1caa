package commands

import (
	"errors"
	"fmt"

	"github.com/activecm/trafficlens/analysis"
	"github.com/activecm/trafficlens/parser"
	"github.com/activecm/trafficlens/pkg/dataset"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/printing"
	"github.com/activecm/trafficlens/resources"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// session bundles what a command needs to run an analysis
type session struct {
	res    *resources.Resources
	ds     *dataset.Dataset
	params analysis.Params
	format printing.Format
}

// openSession validates the output switches, loads the configuration and
// reads the capture files named on the command line
func openSession(c *cli.Context) (*session, error) {
	if c.NArg() == 0 {
		return nil, cli.NewExitError("Specify at least one capture file or directory", -1)
	}

	format, err := printing.ParseFormat(c.Bool("human-readable"), c.Bool("json"))
	if err != nil {
		return nil, cli.NewExitError(err.Error(), -1)
	}

	res := resources.InitResources(c.String("config"))

	ds, err := loadDataset(res, c.Args(), c.String("delimiter"))
	if err != nil {
		return nil, err
	}

	params := analysis.ParamsFromConfig(res.Config)
	if c.IsSet("limit") {
		params.TopN = c.Int("limit")
	}
	if c.IsSet("window") {
		params.WindowSize = c.Duration("window")
	}

	return &session{res: res, ds: ds, params: params, format: format}, nil
}

// loadDataset reads the capture files into a dataset
func loadDataset(res *resources.Resources, paths []string, delimiter string) (*dataset.Dataset, error) {
	importer, err := parser.NewImporter(res)
	if err != nil {
		return nil, cli.NewExitError(err.Error(), -1)
	}
	if delimiter != "" {
		if err := importer.SetDelimiter(delimiter); err != nil {
			return nil, cli.NewExitError(err.Error(), -1)
		}
	}

	ds, err := importer.Import(paths)
	if err != nil {
		res.Log.WithFields(log.Fields{
			"paths": paths,
			"error": err.Error(),
		}).Error("Failed to load capture files")
		return nil, cli.NewExitError(err.Error(), -1)
	}

	res.Log.WithFields(log.Fields{
		"dataset": ds.Name,
		"id":      ds.ID.String(),
		"records": ds.Records.Len(),
	}).Info("Loaded dataset")
	return ds, nil
}

// analysisError turns an analysis failure into a message for the user
func (s *session) analysisError(name string, err error) error {
	s.res.Log.WithFields(log.Fields{
		"analysis": name,
		"dataset":  s.ds.Name,
		"error":    err.Error(),
	}).Warn("Analysis produced no result")
	return cli.NewExitError(describeError(s.ds.Name, err), -1)
}

// describeError renders the typed analysis errors for the user
func describeError(datasetName string, err error) string {
	var schemaErr *packet.SchemaError
	if errors.As(err, &schemaErr) {
		return fmt.Sprintf("The capture files of %s have no %q column, which %s requires",
			datasetName, schemaErr.Field.String(), schemaErr.Analysis)
	}
	if packet.IsEmptyResult(err) {
		return "No results were found for " + datasetName + ": " + err.Error()
	}
	return err.Error()
}

// print writes a result and turns write failures into exit errors
func (s *session) print(write func() error) error {
	if err := write(); err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}
