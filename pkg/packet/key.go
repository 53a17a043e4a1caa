package packet

import (
	"fmt"
	"strings"
)

// ConnectionSeparator joins the endpoints of a connection label
const ConnectionSeparator = " → "

// Key extracts a categorical value from a record. Value reports false when
// the record has no value for the key.
type Key struct {
	Name     string
	Requires []Field
	Value    func(r *Record) (string, bool)
}

var (
	//SourceKey groups records by sending address
	SourceKey = KeyForField(FieldSource)

	//DestinationKey groups records by receiving address
	DestinationKey = KeyForField(FieldDestination)

	//ProtocolKey groups records by protocol label
	ProtocolKey = KeyForField(FieldProtocol)

	//ConnectionKey groups records by directional (source, destination) pair
	ConnectionKey = Key{
		Name:     "connection",
		Requires: []Field{FieldSource, FieldDestination},
		Value: func(r *Record) (string, bool) {
			if r.Source == "" || r.Destination == "" {
				return "", false
			}
			return ConnectionLabel(r.Source, r.Destination), true
		},
	}
)

// ConnectionLabel renders a directional connection
func ConnectionLabel(src, dst string) string {
	return src + ConnectionSeparator + dst
}

// KeyForField returns a key reading a single field of the record as text
func KeyForField(f Field) Key {
	return Key{
		Name:     f.String(),
		Requires: []Field{f},
		Value: func(r *Record) (string, bool) {
			v := r.value(f)
			return v, v != ""
		},
	}
}

// ParseKey resolves a key by name
func ParseKey(name string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "source", "src":
		return SourceKey, nil
	case "destination", "dst":
		return DestinationKey, nil
	case "protocol", "proto":
		return ProtocolKey, nil
	case "connection", "conn":
		return ConnectionKey, nil
	}
	return Key{}, fmt.Errorf("unknown grouping key %q: %w", name, ErrInvalidArgument)
}
