package commands

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/activecm/trafficlens/config"
	"github.com/activecm/trafficlens/resources"
	"github.com/blang/semver"
	"github.com/google/go-github/github"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	yaml "gopkg.in/yaml.v2"
)

//Strings used for informing the user of a new version.
var informFmtStr = "\nTheres a new %s version of trafficlens %s available at:\nhttps://github.com/%s/%s/releases\n"
var versions = []string{"Major", "Minor", "Patch"}

// updateState remembers the outcome of the last remote version check
type updateState struct {
	LastCheck     string `yaml:"LastCheck"`
	NewestVersion string `yaml:"NewestVersion"`
}

// updateStatePath is where the last version check is remembered
var updateStatePath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".trafficlens", "update-check.yaml")
}

func init() {
	command := cli.Command{
		Name:   "update-check",
		Usage:  "Check for a newer release of trafficlens",
		Flags:  []cli.Flag{configFlag},
		Action: checkForUpdate,
	}

	bootstrapCommands(command)
}

// checkForUpdate queries the repository right away, regardless of when it
// was last checked
func checkForUpdate(c *cli.Context) error {
	res := resources.InitResources(c.String("config"))
	userCfg := res.Config.S.UserConfig

	remote, err := getRemoteVersion(userCfg.UpdateOwner, userCfg.UpdateRepository)
	if err != nil {
		return cli.NewExitError("Failed to check for a new version: "+err.Error(), -1)
	}
	rememberVersion(res, updateStatePath(), remote)

	local, err := semver.ParseTolerant(config.Version)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if remote.GT(local) {
		fmt.Print(informUser(local, remote, userCfg.UpdateOwner, userCfg.UpdateRepository))
		return nil
	}
	fmt.Printf("trafficlens %s is up to date\n", local)
	return nil
}

// GetVersionPrinter prints the version and, if due, a notice about newer releases
func GetVersionPrinter() func(*cli.Context) {
	return func(c *cli.Context) {
		fmt.Printf("%s version %s\n", c.App.Name, c.App.Version)
		fmt.Print(updateCheck(c.String("config")))
	}
}

// updateCheck checks for a new version of trafficlens against the git
// repository and returns a string indicating the new version if available
func updateCheck(configFile string) string {
	res := resources.InitResources(configFile)
	userCfg := res.Config.S.UserConfig
	delta := userCfg.UpdateCheckFrequency

	if delta <= 0 {
		return ""
	}

	statePath := updateStatePath()
	state := readUpdateState(statePath)
	timestamp, newVersion := state.parse()

	days := time.Since(timestamp).Hours() / 24

	if days > float64(delta) {
		remote, err := getRemoteVersion(userCfg.UpdateOwner, userCfg.UpdateRepository)
		if err != nil {
			res.Log.WithFields(log.Fields{
				"error": err.Error(),
			}).Debug("Failed to check for new version")
			return ""
		}
		newVersion = remote

		//Log checked version.
		res.Log.WithFields(log.Fields{
			"Message":         "Checking versions...",
			"LastUpdateCheck": time.Now(),
			"NewestVersion":   fmt.Sprint(newVersion),
		}).Info("Checking for new version")

		rememberVersion(res, statePath, newVersion)
	}

	configVersion, err := semver.ParseTolerant(config.Version)
	if err != nil {
		return ""
	}

	if newVersion.GT(configVersion) {
		return informUser(configVersion, newVersion, userCfg.UpdateOwner, userCfg.UpdateRepository)
	}

	return ""
}

// parse returns the zero time and version for missing or unreadable fields,
// which forces a fresh remote check
func (s updateState) parse() (time.Time, semver.Version) {
	timestamp, err := time.Parse(time.RFC3339, s.LastCheck)
	if err != nil {
		timestamp = time.Time{}
	}
	version, err := semver.ParseTolerant(s.NewestVersion)
	if err != nil {
		version = semver.Version{}
	}
	return timestamp, version
}

// rememberVersion stores the newest release so the next check can wait
func rememberVersion(res *resources.Resources, path string, newest semver.Version) {
	state := updateState{
		LastCheck:     time.Now().Format(time.RFC3339),
		NewestVersion: newest.String(),
	}
	if err := writeUpdateState(path, state); err != nil {
		res.Log.WithFields(log.Fields{
			"path":  path,
			"error": err.Error(),
		}).Debug("Failed to remember version check")
	}
}

func readUpdateState(path string) updateState {
	var state updateState
	if path == "" {
		return state
	}
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return state
	}
	if err := yaml.Unmarshal(contents, &state); err != nil {
		return updateState{}
	}
	return state
}

func writeUpdateState(path string, state updateState) error {
	if path == "" {
		return fmt.Errorf("no location for the update check state")
	}
	contents, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return ioutil.WriteFile(path, contents, 0644)
}

// Returns the first index where v1 is greater than v2
func versionDiffIndex(v1 semver.Version, v2 semver.Version) int {

	if v1.Major > v2.Major {
		return 0
	}
	if v1.Minor > v2.Minor {
		return 1
	}

	return 2
}

func getRemoteVersion(owner, repository string) (semver.Version, error) {
	client := github.NewClient(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	refs, _, err := client.Git.GetRefs(ctx, owner, repository, "refs/tags/v")
	if err != nil {
		return semver.Version{}, err
	}
	if len(refs) == 0 {
		return semver.Version{}, fmt.Errorf("no release tags found in %s/%s", owner, repository)
	}

	s := strings.TrimPrefix(refs[len(refs)-1].GetRef(), "refs/tags/")
	return semver.ParseTolerant(s)
}

// Assembles a notice for the user informing them of an upgrade.
// The return value is printed regardless so, "" is returned on error.
func informUser(local semver.Version, remote semver.Version, owner, repository string) string {

	return fmt.Sprintf(informFmtStr,
		versions[versionDiffIndex(remote, local)],
		fmt.Sprint(remote), owner, repository)
}
