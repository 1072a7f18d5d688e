package config

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// decodeYAML decodes a YAML scenario.
func decodeYAML(data []byte, target interface{}) error {
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("YAML_PARSE_ERROR: %v", err)
	}
	return nil
}

// decodeHJSON parses Human-friendly JSON (comments, unquoted keys, optional
// commas) and decodes it through the json tags of target.
func decodeHJSON(data []byte, target interface{}) error {
	var generic interface{}
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	normalized, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	if err := json.Unmarshal(normalized, target); err != nil {
		return fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	return nil
}

// decodeJSON decodes strict JSON, or a repaired version of the input for
// hand-edited files (trailing commas, single quotes, comments).
func decodeJSON(data []byte, target interface{}) (repaired bool, err error) {
	if !json.Valid(data) {
		fixed, err := jsonrepair.RepairJSON(string(data))
		if err != nil {
			return false, fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
		}
		data, repaired = []byte(fixed), true
	}
	if err := json.Unmarshal(data, target); err != nil {
		return repaired, fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	return repaired, nil
}
