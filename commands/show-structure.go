package commands

import (
	"os"

	"github.com/activecm/trafficlens/pkg/distribution"
	"github.com/activecm/trafficlens/pkg/timeline"
	"github.com/activecm/trafficlens/pkg/topology"
	"github.com/activecm/trafficlens/printing"
	"github.com/urfave/cli"
)

func init() {
	lengths := cli.Command{
		Name:      "show-lengths",
		Usage:     "Print the packet length distribution",
		ArgsUsage: "<capture files or directories>",
		Flags: analysisFlags(
			cli.Int64Flag{
				Name:  "bin-size, b",
				Usage: "Count lengths in bins of `BYTES`, defaults to Analysis.BinSize",
			},
		),
		Action: showLengths,
	}

	graph := cli.Command{
		Name:      "show-graph",
		Usage:     "Print the laid out communication graph of the most active addresses",
		ArgsUsage: "<capture files or directories>",
		Flags: analysisFlags(
			cli.IntFlag{
				Name:  "top, t",
				Usage: "Keep the `N` most active addresses, defaults to Analysis.GraphTopN",
			},
			cli.IntFlag{
				Name:  "iterations",
				Usage: "Run the layout for `N` iterations, defaults to Analysis.LayoutIterations",
			},
			cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed the initial layout positions with `SEED`",
			},
		),
		Action: showGraph,
	}

	timelineCmd := cli.Command{
		Name:      "show-timeline",
		Usage:     "Print every timed packet against its connection",
		ArgsUsage: "<capture files or directories>",
		Flags:     analysisFlags(),
		Action:    showTimeline,
	}

	bootstrapCommands(lengths, graph, timelineCmd)
}

func showLengths(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	binSize := s.params.BinSize
	if c.IsSet("bin-size") {
		binSize = c.Int64("bin-size")
	}

	hist, err := distribution.LengthHistogram(s.ds.Records, binSize)
	if err != nil {
		return s.analysisError("lengths", err)
	}
	return s.print(func() error {
		return printing.Histogram(os.Stdout, s.format, hist)
	})
}

func showGraph(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	topN := s.params.GraphTopN
	if c.IsSet("top") {
		topN = c.Int("top")
	}
	opts := s.params.Layout
	if c.IsSet("iterations") {
		opts.Iterations = c.Int("iterations")
	}
	if c.IsSet("seed") {
		opts.Seed = c.Int64("seed")
	}

	g, err := topology.BuildTopologyGraph(s.ds.Records, topN, opts)
	if err != nil {
		return s.analysisError("graph", err)
	}
	return s.print(func() error {
		return printing.Graph(os.Stdout, s.format, g)
	})
}

func showTimeline(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	tl, err := timeline.Build(s.ds.Records)
	if err != nil {
		return s.analysisError("timeline", err)
	}
	return s.print(func() error {
		return printing.Timeline(os.Stdout, s.format, tl)
	})
}
