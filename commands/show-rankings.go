package commands

import (
	"os"

	"github.com/activecm/trafficlens/analysis"
	"github.com/activecm/trafficlens/pkg/ranking"
	"github.com/activecm/trafficlens/printing"
	"github.com/urfave/cli"
)

func init() {
	protocols := cli.Command{
		Name:      "show-protocols",
		Usage:     "Print the packet count and share of every protocol",
		ArgsUsage: "<capture files or directories>",
		Flags:     analysisFlags(),
		Action:    showProtocols,
	}

	sources := cli.Command{
		Name:      "show-top-sources",
		Usage:     "Print the addresses sending the most packets",
		ArgsUsage: "<capture files or directories>",
		Flags:     analysisFlags(limitFlag),
		Action:    showTopSources,
	}

	talkers := cli.Command{
		Name:      "show-top-talkers",
		Usage:     "Print the addresses appearing most often as either endpoint",
		ArgsUsage: "<capture files or directories>",
		Flags:     analysisFlags(limitFlag),
		Action:    showTopTalkers,
	}

	conversations := cli.Command{
		Name:      "show-conversations",
		Usage:     "Print the connections between the most active addresses",
		ArgsUsage: "<capture files or directories>",
		Flags: analysisFlags(limitFlag,
			cli.BoolFlag{
				Name:  "keep-others, k",
				Usage: "Fold addresses outside of the top addresses into " + ranking.OtherLabel,
			},
		),
		Action: showConversations,
	}

	bootstrapCommands(protocols, sources, talkers, conversations)
}

func showProtocols(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	set, err := ranking.ProtocolBreakdown(s.ds.Records)
	if err != nil {
		return s.analysisError("protocols", err)
	}
	return s.print(func() error {
		return printing.Ranked(os.Stdout, s.format, "Protocol", set)
	})
}

func showTopSources(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	set, err := ranking.TopSources(s.ds.Records, s.params.TopN)
	if err != nil {
		return s.analysisError("top-sources", err)
	}
	return s.print(func() error {
		return printing.Ranked(os.Stdout, s.format, "Source", set)
	})
}

func showTopTalkers(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	set, err := ranking.RankNodes(s.ds.Records)
	if err != nil {
		return s.analysisError("top-talkers", err)
	}
	return s.print(func() error {
		return printing.Ranked(os.Stdout, s.format, "Address", set.Head(s.params.TopN))
	})
}

func showConversations(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}

	keepOthers := s.params.KeepOthers || c.Bool("keep-others")
	set, err := analysis.Conversations(s.ds.Records, s.params.TopN, keepOthers)
	if err != nil {
		return s.analysisError("conversations", err)
	}
	return s.print(func() error {
		return printing.Ranked(os.Stdout, s.format, "Connection", set)
	})
}
