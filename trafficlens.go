package main

import (
	"os"
	"runtime"

	"github.com/activecm/trafficlens/commands"
	"github.com/activecm/trafficlens/config"
	"github.com/urfave/cli"
)

// Entry point of trafficlens
func main() {
	app := cli.NewApp()
	app.Name = "trafficlens"
	app.Usage = "Rank, time and graph the packets of network captures."

	// Change the version string with updates so that a quick help command will
	// let the testers know what version they're on
	app.Version = config.ExactVersion

	// Print the version and check for newer releases
	cli.VersionPrinter = commands.GetVersionPrinter()

	// Define commands used with this application
	app.Commands = commands.Commands()

	runtime.GOMAXPROCS(runtime.NumCPU())
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
