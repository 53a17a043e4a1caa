package resources

import (
	"io/ioutil"
	"testing"

	"github.com/activecm/trafficlens/config"
)

//InitTestResources creates a default testing resource bundle.
//Log output is discarded.
func InitTestResources(t *testing.T) *Resources {
	conf, err := config.LoadTestingConfig()
	if err != nil {
		t.Fatal(err)
	}

	// Fire up the logging system
	log := initLogger(&conf.S.Log)
	log.Out = ioutil.Discard

	//bundle up the system resources
	r := &Resources{
		Config: conf,
		Log:    log,
	}
	return r
}
