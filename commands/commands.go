package commands

import (
	"github.com/urfave/cli"
)

var (
	allCommands []cli.Command

	// below are some prebuilt flags that get used often in various commands

	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	humanFlag = cli.BoolFlag{
		Name:  "human-readable, H",
		Usage: "Print a report instead of csv",
	}

	jsonFlag = cli.BoolFlag{
		Name:  "json, j",
		Usage: "Print the result as a JSON document",
	}

	limitFlag = cli.IntFlag{
		Name:  "limit, l",
		Usage: "Print only the top `N` entries, defaults to Analysis.TopN",
	}

	delimiterFlag = cli.StringFlag{
		Name:  "delimiter, d",
		Usage: "Read csv files separated by `DELIM`, defaults to Import.Delimiter",
	}

	windowFlag = cli.DurationFlag{
		Name:  "window, w",
		Usage: "Bucket records into windows of `DURATION`, defaults to Analysis.WindowSize",
	}
)

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}

// analysisFlags are shared by every command reading capture files
func analysisFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{configFlag, delimiterFlag, humanFlag, jsonFlag}
	return append(flags, extra...)
}
