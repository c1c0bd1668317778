package model

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadScenarioFromJSON parses a JSON-encoded Scenario, the JSON
// counterpart to the YAML tags on Scenario — adapted from the
// teacher's own JSON-topology loader (which decoded a stops/pins file
// the same way) onto this module's node/link/demand topology.
func LoadScenarioFromJSON(r io.Reader) (Scenario, error) {
	dec := json.NewDecoder(r)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}

// LoadScenarioFromYAML parses a YAML-encoded Scenario.
func LoadScenarioFromYAML(r io.Reader) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}
