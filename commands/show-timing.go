package commands

import (
	"os"

	"github.com/activecm/trafficlens/pkg/jitter"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/pkg/window"
	"github.com/activecm/trafficlens/printing"
	"github.com/urfave/cli"
)

func init() {
	jitterCmd := cli.Command{
		Name:      "show-jitter",
		Usage:     "Print the inter-arrival jitter of the busiest groups",
		ArgsUsage: "<capture files or directories>",
		Flags: analysisFlags(
			cli.StringFlag{
				Name:  "key",
				Usage: "Group records by `KEY` (source, destination, protocol, connection)",
			},
			cli.StringFlag{
				Name:  "mode",
				Usage: "Measure jitter as `MODE` (mean, successive)",
			},
			cli.IntFlag{
				Name:  "groups, g",
				Usage: "Follow the `N` largest groups, defaults to Analysis.JitterGroups",
			},
			cli.BoolFlag{
				Name:  "summary, s",
				Usage: "Print one row per group instead of one row per arrival",
			},
		),
		Action: showJitter,
	}

	heatmap := cli.Command{
		Name:      "show-heatmap",
		Usage:     "Print the packets per second within each time window",
		ArgsUsage: "<capture files or directories>",
		Flags:     analysisFlags(windowFlag),
		Action:    showHeatmap,
	}

	entropy := cli.Command{
		Name:      "show-entropy",
		Usage:     "Print the Shannon entropy of a key per time window",
		ArgsUsage: "<capture files or directories>",
		Flags: analysisFlags(windowFlag,
			cli.StringFlag{
				Name:  "key",
				Usage: "Measure the entropy of `KEY` (source, destination, protocol, connection)",
			},
		),
		Action: showEntropy,
	}

	bootstrapCommands(jitterCmd, heatmap, entropy)
}

func showJitter(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	key := s.params.JitterKey
	if c.IsSet("key") {
		if key, err = packet.ParseKey(c.String("key")); err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
	}
	mode := s.params.JitterMode
	if c.IsSet("mode") {
		if mode, err = jitter.ParseMode(c.String("mode")); err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
	}
	groups := s.params.JitterGroups
	if c.IsSet("groups") {
		groups = c.Int("groups")
	}

	res, err := jitter.Compute(s.ds.Records, key, groups, mode)
	if err != nil {
		return s.analysisError("jitter", err)
	}
	if c.Bool("summary") {
		return s.print(func() error {
			return printing.JitterSummary(os.Stdout, s.format, res)
		})
	}
	return s.print(func() error {
		return printing.Jitter(os.Stdout, s.format, res)
	})
}

func showHeatmap(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	hm, err := window.ActivityHeatmap(s.ds.Records, s.params.WindowSize)
	if err != nil {
		return s.analysisError("heatmap", err)
	}
	if hm.NoData {
		return cli.NewExitError("No results were found for "+s.ds.Name, -1)
	}
	return s.print(func() error {
		return printing.Heatmap(os.Stdout, s.format, hm)
	})
}

func showEntropy(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	key := s.params.EntropyKey
	if c.IsSet("key") {
		if key, err = packet.ParseKey(c.String("key")); err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
	}

	res, err := window.EntropyOverTime(s.ds.Records, s.params.WindowSize, key)
	if err != nil {
		return s.analysisError("entropy", err)
	}
	return s.print(func() error {
		return printing.Entropy(os.Stdout, s.format, res)
	})
}
