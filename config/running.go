package config

import (
	"fmt"
	"net"
	"time"

	"github.com/activecm/trafficlens/pkg/jitter"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/pkg/topology"
	"github.com/activecm/trafficlens/util"
	"github.com/blang/semver"
)

type (
	//RunningCfg holds configuration options that are parsed at run time
	RunningCfg struct {
		Columns   packet.ColumnMap
		Analysis  AnalysisRunningCfg
		Filtering FilteringRunningCfg
		Version   semver.Version
	}

	//AnalysisRunningCfg holds the parsed analysis parameters
	AnalysisRunningCfg struct {
		WindowSize time.Duration
		JitterKey  packet.Key
		JitterMode jitter.Mode
		EntropyKey packet.Key
		Layout     topology.LayoutOptions
	}

	//FilteringRunningCfg contains the parsed address filters
	FilteringRunningCfg struct {
		AlwaysIncludedSubnets []*net.IPNet
		NeverIncludedSubnets  []*net.IPNet
	}
)

// initRunningConfig uses data in the static config to initialize
// the passed in running config
func initRunningConfig(static *StaticCfg, running *RunningCfg) error {
	var err error

	running.Columns = packet.ColumnMap{
		Sequence:    static.Columns.Sequence,
		Time:        static.Columns.Time,
		Source:      static.Columns.Source,
		Destination: static.Columns.Destination,
		Protocol:    static.Columns.Protocol,
		Length:      static.Columns.Length,
	}

	running.Analysis.WindowSize, err = time.ParseDuration(static.Analysis.WindowSize)
	if err != nil {
		return fmt.Errorf("invalid Analysis.WindowSize %q: %v", static.Analysis.WindowSize, err)
	}
	if running.Analysis.WindowSize <= 0 {
		return fmt.Errorf("invalid Analysis.WindowSize %q: must be positive", static.Analysis.WindowSize)
	}

	if static.Analysis.BinSize <= 0 {
		return fmt.Errorf("invalid Analysis.BinSize %d: must be positive", static.Analysis.BinSize)
	}

	running.Analysis.JitterKey, err = packet.ParseKey(static.Analysis.JitterKey)
	if err != nil {
		return fmt.Errorf("invalid Analysis.JitterKey: %v", err)
	}

	running.Analysis.JitterMode, err = jitter.ParseMode(static.Analysis.JitterMode)
	if err != nil {
		return fmt.Errorf("invalid Analysis.JitterMode: %v", err)
	}

	running.Analysis.EntropyKey, err = packet.ParseKey(static.Analysis.EntropyKey)
	if err != nil {
		return fmt.Errorf("invalid Analysis.EntropyKey: %v", err)
	}

	running.Analysis.Layout = topology.LayoutOptions{
		Iterations: static.Analysis.LayoutIterations,
		Seed:       static.Analysis.LayoutSeed,
	}

	running.Filtering.AlwaysIncludedSubnets, err = util.ParseSubnets(static.Filtering.AlwaysInclude)
	if err != nil {
		return fmt.Errorf("invalid Filtering.AlwaysInclude: %v", err)
	}
	running.Filtering.NeverIncludedSubnets, err = util.ParseSubnets(static.Filtering.NeverInclude)
	if err != nil {
		return fmt.Errorf("invalid Filtering.NeverInclude: %v", err)
	}

	running.Version, err = semver.ParseTolerant(static.Version)
	if err != nil {
		return err
	}
	return nil
}
