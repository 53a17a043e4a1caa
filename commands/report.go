package commands

import (
	"fmt"
	"os"

	"github.com/activecm/trafficlens/reporting"
	"github.com/activecm/trafficlens/resources"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "report",
		Usage:     "Run every analysis and write the results with an html index",
		ArgsUsage: "<capture files or directories>",
		Flags: []cli.Flag{
			configFlag,
			delimiterFlag,
			cli.StringFlag{
				Name:  "output, o",
				Usage: "Write the report below `DIR`, defaults to Report.OutputDirectory",
			},
		},
		Action: writeReport,
	}

	bootstrapCommands(command)
}

func writeReport(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.NewExitError("Specify at least one capture file or directory", -1)
	}

	res := resources.InitResources(c.String("config"))
	if c.IsSet("output") {
		res.Config.S.Report.OutputDirectory = c.String("output")
	}

	ds, err := loadDataset(res, c.Args(), c.String("delimiter"))
	if err != nil {
		return err
	}

	outFolder, index, err := reporting.Report(res, ds, os.Stdout)
	if err != nil {
		res.Log.WithFields(log.Fields{
			"dataset": ds.Name,
			"error":   err.Error(),
		}).Error("Failed to write report")
		return cli.NewExitError(err.Error(), -1)
	}

	failed := 0
	for _, a := range index.Analyses {
		if a.Status != reporting.StatusOK {
			failed++
		}
	}
	fmt.Printf("Wrote %d analyses of %s to %s", len(index.Analyses), ds.Name, outFolder)
	if failed > 0 {
		fmt.Printf(" (%d without results)", failed)
	}
	fmt.Println()
	return nil
}
