package yard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PartType classifies a yard part.
type PartType string

const (
	RailRoad      PartType = "RailRoad"
	Switch        PartType = "Switch"
	EnglishSwitch PartType = "EnglishSwitch"
)

// Routable reports whether parts of this type become graph nodes.
func (t PartType) Routable() bool {
	return t == RailRoad || t == Switch || t == EnglishSwitch
}

// PartID identifies a part inside a yard description. Descriptions use either
// numbers or strings for ids.
type PartID string

func (id *PartID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = PartID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("part id: %w", err)
	}
	*id = PartID(n.String())
	return nil
}

// TrackPart is one element of the yard: a track segment, a switch, a bumper...
type TrackPart struct {
	ID    PartID   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Type  PartType `json:"type" yaml:"type"`
	ASide []PartID `json:"aSide" yaml:"aSide"`
	BSide []PartID `json:"bSide,omitempty" yaml:"bSide,omitempty"`
}

// Description is a yard layout.
type Description struct {
	TrackParts []TrackPart `json:"trackParts" yaml:"trackParts"`
}

// LoadDescription reads a yard description from a JSON or YAML file.
func LoadDescription(path string) (Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return Description{}, err
	}
	defer func() { _ = f.Close() }()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeDescription(f, format)
}

// DecodeDescription decodes a yard description in the given format.
func DecodeDescription(r io.Reader, format string) (Description, error) {
	var d Description
	switch strings.ToLower(format) {
	case "json":
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return d, fmt.Errorf("decode yard: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			return d, fmt.Errorf("decode yard: %w", err)
		}
	default:
		return d, fmt.Errorf("unsupported yard format: %q", format)
	}
	return d, nil
}
