package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"

	"github.com/creasty/defaults"
	yaml "gopkg.in/yaml.v2"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		Log          LogStaticCfg       `yaml:"LogConfig"`
		UserConfig   UserCfgStaticCfg   `yaml:"UserConfig"`
		Columns      ColumnsStaticCfg   `yaml:"Columns"`
		Import       ImportStaticCfg    `yaml:"Import"`
		Analysis     AnalysisStaticCfg  `yaml:"Analysis"`
		Filtering    FilteringStaticCfg `yaml:"Filtering"`
		Report       ReportStaticCfg    `yaml:"Report"`
		Version      string             `yaml:"-"`
		ExactVersion string             `yaml:"-"`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"1"`
		LogPath   string `yaml:"LogPath" default:"/var/lib/trafficlens/logs"`
		LogToFile bool   `yaml:"LogToFile" default:"false"`
	}

	//UserCfgStaticCfg contains the settings for the update check
	UserCfgStaticCfg struct {
		UpdateCheckFrequency int    `yaml:"UpdateCheckFrequency" default:"14"`
		UpdateOwner          string `yaml:"UpdateOwner" default:"activecm"`
		UpdateRepository     string `yaml:"UpdateRepository" default:"trafficlens"`
	}

	//ColumnsStaticCfg maps the header names of a capture export onto record fields
	ColumnsStaticCfg struct {
		Sequence    string `yaml:"Sequence" default:"No."`
		Time        string `yaml:"Time" default:"Time"`
		Source      string `yaml:"Source" default:"Source"`
		Destination string `yaml:"Destination" default:"Destination"`
		Protocol    string `yaml:"Protocol" default:"Protocol"`
		Length      string `yaml:"Length" default:"Length"`
	}

	//ImportStaticCfg controls how input files are read
	ImportStaticCfg struct {
		// warn when the input is larger than this share of the system memory
		MemoryFraction float64 `yaml:"MemoryFraction" default:"0.25"`
		Delimiter      string  `yaml:"Delimiter" default:","`
	}

	//AnalysisStaticCfg holds the default parameters of every analysis
	AnalysisStaticCfg struct {
		TopN             int    `yaml:"TopN" default:"10"`
		GraphTopN        int    `yaml:"GraphTopN" default:"20"`
		KeepOthers       bool   `yaml:"KeepOthers" default:"false"`
		WindowSize       string `yaml:"WindowSize" default:"1m"`
		BinSize          int64  `yaml:"BinSize" default:"50"`
		JitterKey        string `yaml:"JitterKey" default:"connection"`
		JitterMode       string `yaml:"JitterMode" default:"mean"`
		JitterGroups     int    `yaml:"JitterGroups" default:"10"`
		EntropyKey       string `yaml:"EntropyKey" default:"source"`
		LayoutIterations int    `yaml:"LayoutIterations" default:"50"`
		LayoutSeed       int64  `yaml:"LayoutSeed" default:"42"`
	}

	//FilteringStaticCfg controls which addresses are analyzed
	FilteringStaticCfg struct {
		AlwaysInclude []string `yaml:"AlwaysInclude"`
		NeverInclude  []string `yaml:"NeverInclude"`
	}

	//ReportStaticCfg controls where reports are written
	ReportStaticCfg struct {
		OutputDirectory string `yaml:"OutputDirectory" default:"."`
	}
)

// loadStaticConfig attempts to parse a config file
func loadStaticConfig(cfgPath string) (*StaticCfg, error) {
	var config = new(StaticCfg)
	_, err := os.Stat(cfgPath)

	if os.IsNotExist(err) {
		return config, err
	}

	cfgFile, err := ioutil.ReadFile(cfgPath)
	if err != nil {
		return config, err
	}

	if err := parseStaticConfig(cfgFile, config); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %s\n", err.Error())
		return config, err
	}
	return config, nil
}

// parseStaticConfig fills the config with its defaults and then overlays the
// yaml document
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	if err := defaults.Set(config); err != nil {
		return err
	}

	if err := yaml.Unmarshal(cfgFile, config); err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	// clean all filepaths
	config.Log.LogPath = filepath.Clean(config.Log.LogPath)
	config.Report.OutputDirectory = filepath.Clean(config.Report.OutputDirectory)

	// grab the version constants set by the build process
	config.Version = Version
	config.ExactVersion = ExactVersion

	return nil
}
