// Package packing parses the serialized packing-requirements description
// stored on structured kits. The stored shape has drifted over time:
// current kits store {"pouches": [...], "packets": [...]}, older kits store
// a bare container array. Parsing always yields a well-formed structure;
// unreadable input degrades to an empty one so a single bad kit cannot
// blank a report.
package packing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/pkg/logger"
)

// Material is one material line inside a pouch or packet
type Material struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Notes    string          `json:"notes,omitempty"`
}

// Container is a named group of materials (a pouch or a sealed packet)
type Container struct {
	Name      string     `json:"name"`
	Materials []Material `json:"materials"`
}

// Structure is the normalized packing layout of a kit
type Structure struct {
	Pouches []Container `json:"pouches"`
	Packets []Container `json:"packets"`
}

// Empty returns a structure with no pouches or packets
func Empty() Structure {
	return Structure{Pouches: []Container{}, Packets: []Container{}}
}

// IsEmpty reports whether the structure contains no containers
func (s Structure) IsEmpty() bool {
	return len(s.Pouches) == 0 && len(s.Packets) == 0
}

// Parse deserializes a packing-requirements string into a Structure.
//
//   - an object carrying "pouches" and/or "packets" keys uses those arrays,
//     a missing key defaulting to empty
//   - a bare array is the legacy shape and becomes the pouches
//   - any other well-formed JSON value yields an empty structure
//
// Only malformed JSON returns an error.
func Parse(raw string) (Structure, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty(), nil
	}

	var probe interface{}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return Empty(), fmt.Errorf("malformed packing requirements: %w", err)
	}

	switch probe.(type) {
	case map[string]interface{}:
		var keyed struct {
			Pouches []Container `json:"pouches"`
			Packets []Container `json:"packets"`
		}
		if err := json.Unmarshal([]byte(trimmed), &keyed); err != nil {
			return Empty(), fmt.Errorf("malformed packing containers: %w", err)
		}
		result := Structure{Pouches: keyed.Pouches, Packets: keyed.Packets}
		if result.Pouches == nil {
			result.Pouches = []Container{}
		}
		if result.Packets == nil {
			result.Packets = []Container{}
		}
		return result, nil

	case []interface{}:
		// Legacy shape: a bare container array is the pouch list
		var pouches []Container
		if err := json.Unmarshal([]byte(trimmed), &pouches); err != nil {
			return Empty(), fmt.Errorf("malformed legacy packing list: %w", err)
		}
		return Structure{Pouches: pouches, Packets: []Container{}}, nil

	default:
		return Empty(), nil
	}
}

// ParseOrEmpty parses a kit's optional packing requirements and never fails:
// nil input and parse errors both degrade to an empty structure. Parse
// errors are logged with the kit id so bad data is traceable without
// failing the report.
func ParseOrEmpty(raw *string, kitID string, log *logger.Logger) Structure {
	if raw == nil {
		return Empty()
	}

	structure, err := Parse(*raw)
	if err != nil {
		if log != nil {
			log.Warn().
				Err(err).
				Str("kit_id", kitID).
				Msg("unreadable packing requirements, treating as empty")
		}
		return Empty()
	}

	return structure
}
