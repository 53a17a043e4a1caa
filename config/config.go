package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
)

// Version and ExactVersion are filled at compile time with the git version
// of trafficlens
var (
	Version      = "v0.0.0+undefined"
	ExactVersion = "undefined"
)

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
	}
)

// globalConfigPath is consulted when neither a path nor a user config is present
const globalConfigPath = "/etc/trafficlens/config.yaml"

// LoadConfig retrieves a configuration in order of precedence: the given
// path, the user's ~/.trafficlens/config.yaml, the global config and finally
// the built in defaults
func LoadConfig(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		return loadSystemConfig(cfgPath)
	}

	// Get the user's homedir
	usr, err := user.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not get user info: %s\n", err.Error())
	} else {
		userPath := filepath.Join(usr.HomeDir, ".trafficlens", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return loadSystemConfig(userPath)
		}
	}

	if _, err := os.Stat(globalConfigPath); err == nil {
		return loadSystemConfig(globalConfigPath)
	}

	return loadDefaultConfig()
}

// loadSystemConfig attempts to parse a config file
func loadSystemConfig(cfgPath string) (*Config, error) {
	var config = new(Config)
	static, err := loadStaticConfig(cfgPath)
	if err != nil {
		return config, err
	}
	config.S = *static

	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return config, err
	}
	return config, nil
}

// loadDefaultConfig builds a configuration purely from the default tags
func loadDefaultConfig() (*Config, error) {
	var config = new(Config)
	if err := parseStaticConfig(nil, &config.S); err != nil {
		return config, err
	}
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return config, err
	}
	return config, nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		}
	}
}
