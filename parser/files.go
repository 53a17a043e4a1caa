package parser

import (
	"compress/gzip"
	"io"
	"io/ioutil"
	"os"
	"path"
	"strings"

	"github.com/activecm/trafficlens/util"
	log "github.com/sirupsen/logrus"
)

// fileKind identifies the format of an input file
type fileKind int

const (
	unknownFile fileKind = iota
	csvFile
	pcapFile
	pcapngFile
)

// kindOf classifies a path by its extension. A trailing .gz is ignored.
func kindOf(filePath string) fileKind {
	name := strings.TrimSuffix(strings.ToLower(filePath), ".gz")
	switch {
	case strings.HasSuffix(name, ".csv"):
		return csvFile
	case strings.HasSuffix(name, ".pcapng"):
		return pcapngFile
	case strings.HasSuffix(name, ".pcap"), strings.HasSuffix(name, ".cap"):
		return pcapFile
	}
	return unknownFile
}

// GatherFiles reads the files and directories looking for capture exports
// and captures, optionally gzip compressed
func GatherFiles(paths []string, logger *log.Logger) []string {
	var toReturn []string

	for _, path := range paths {
		if util.IsDir(path) {
			toReturn = append(toReturn, gatherDir(path, logger)...)
		} else if kindOf(path) != unknownFile {
			toReturn = append(toReturn, path)
		} else {
			logger.WithFields(log.Fields{
				"path": path,
			}).Warn("Ignoring file which is not a .csv, .pcap or .pcapng capture")
		}
	}

	return toReturn
}

// gatherDir reads the directory looking for capture files
func gatherDir(cpath string, logger *log.Logger) []string {
	var toReturn []string
	files, err := ioutil.ReadDir(cpath)
	if err != nil {
		logger.WithFields(log.Fields{
			"error": err.Error(),
			"path":  cpath,
		}).Error("Error when reading directory")
	}

	for _, file := range files {
		if !file.IsDir() && kindOf(file.Name()) != unknownFile {
			toReturn = append(toReturn, path.Join(cpath, file.Name()))
		}
	}
	return toReturn
}

// openFile returns a reader over the decompressed contents of a file and a
// function closing the underlying streams
func openFile(filePath string) (io.Reader, func() error, error) {
	fileHandle, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".gz") {
		return fileHandle, fileHandle.Close, nil
	}

	gzipReader, err := gzip.NewReader(fileHandle)
	if err != nil {
		fileHandle.Close()
		return nil, nil, err
	}
	closer := func() error {
		gzErr := gzipReader.Close()
		if err := fileHandle.Close(); err != nil {
			return err
		}
		return gzErr
	}
	return gzipReader, closer, nil
}
