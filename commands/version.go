package commands

import (
	"fmt"

	"github.com/activecm/trafficlens/config"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:   "version",
		Usage:  "Show trafficlens version",
		Action: showVersion,
	}

	bootstrapCommands(command)
}

func showVersion(c *cli.Context) error {
	fmt.Println(config.ExactVersion)
	return nil
}
