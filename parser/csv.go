package parser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/activecm/trafficlens/pkg/packet"
)

// utf8BOM is written in front of the header by some spreadsheet exports
const utf8BOM = "\ufeff"

// ReadCSV parses a delimited capture export. The first row is the header.
// Malformed cells are counted in the load statistics and never fail the read.
func ReadCSV(r io.Reader, cols packet.ColumnMap, delimiter rune) (*packet.RecordSet, error) {
	buffered := bufio.NewReader(r)
	if bom, err := buffered.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		buffered.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("capture export is empty")
	}
	if err != nil {
		return nil, err
	}

	loader, err := packet.NewLoader(header, cols)
	if err != nil {
		return nil, err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		loader.Add(row)
	}
	return loader.RecordSet(), nil
}

// parseDelimiter turns a configured delimiter into a rune. "\t" and "tab"
// select a tab.
func parseDelimiter(delimiter string) (rune, error) {
	switch delimiter {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(delimiter)
	if r == utf8.RuneError || size != len(delimiter) || r == '\n' || r == '\r' || r == '"' {
		return 0, fmt.Errorf("invalid delimiter %q", delimiter)
	}
	return r, nil
}
