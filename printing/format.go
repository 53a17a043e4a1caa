package printing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/activecm/trafficlens/util"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
)

// Format selects how results are written
type Format int

const (
	// CSV writes comma separated rows with a header
	CSV Format = iota
	// Table writes a human readable table
	Table
	// JSON writes the result document itself
	JSON
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseFormat picks the format from the command line switches
func ParseFormat(humanReadable, asJSON bool) (Format, error) {
	if humanReadable && asJSON {
		return CSV, fmt.Errorf("--human-readable and --json are incompatible")
	}
	if asJSON {
		return JSON, nil
	}
	if humanReadable {
		return Table, nil
	}
	return CSV, nil
}

// WriteJSON writes v as an indented JSON document
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// section is a header and its rows
type section struct {
	header []string
	rows   [][]string
}

// write renders the sections in the requested format. JSON ignores the
// sections and encodes doc.
func write(w io.Writer, format Format, doc interface{}, sections ...section) error {
	switch format {
	case JSON:
		return WriteJSON(w, doc)
	case Table:
		for i, s := range sections {
			if i > 0 {
				fmt.Fprintln(w)
			}
			table := tablewriter.NewWriter(w)
			table.SetHeader(s.header)
			table.AppendBulk(s.rows)
			table.Render()
		}
		return nil
	}

	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		csvWriter := csv.NewWriter(w)
		csvWriter.Write(s.header)
		csvWriter.WriteAll(s.rows)
		if err := csvWriter.Error(); err != nil {
			return err
		}
	}
	return nil
}

// helper functions for formatting floats and integers
func f(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
func i(i int64) string {
	return strconv.FormatInt(i, 10)
}
func pct(share float64) string {
	return strconv.FormatFloat(util.RoundTo(share*100, 2), 'f', 2, 64)
}
