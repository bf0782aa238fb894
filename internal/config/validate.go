package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema constrains the effective configuration. Regex compilability
// is checked separately, when the extractor and labeler are constructed.
const configSchema = `{
  "type": "object",
  "required": ["detect", "label", "checkpoint", "batch"],
  "properties": {
    "detect": {
      "type": "object",
      "required": ["page_of_patterns", "standalone_patterns", "header_types"],
      "properties": {
        "page_of_patterns": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
        "standalone_patterns": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
        "header_types": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
        "page_of_window": {"type": "integer", "minimum": 1},
        "standalone_window": {"type": "integer", "minimum": 1},
        "tail_window": {"type": "integer", "minimum": 0},
        "header_window": {"type": "integer", "minimum": 1},
        "title_window": {"type": "integer", "minimum": 1},
        "title_max_lines": {"type": "integer", "minimum": 1},
        "min_title_length": {"type": "integer", "minimum": 1},
        "max_title_length": {"type": "integer", "minimum": 1},
        "min_text_length": {"type": "integer", "minimum": 1},
        "max_standalone_page": {"type": "integer", "minimum": 1}
      }
    },
    "label": {
      "type": "object",
      "required": ["types", "default_type"],
      "properties": {
        "types": {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object",
            "required": ["keyword", "name"],
            "properties": {
              "keyword": {"type": "string", "minLength": 1},
              "name": {"type": "string", "minLength": 1}
            }
          }
        },
        "case_patterns": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "default_type": {"type": "string", "minLength": 1}
      }
    },
    "checkpoint": {
      "type": "object",
      "properties": {
        "interval": {"type": "integer", "minimum": 1},
        "dir": {"type": "string"}
      }
    },
    "batch": {
      "type": "object",
      "properties": {
        "skip_pattern": {"type": "string"},
        "workers": {"type": "integer", "minimum": 1}
      }
    }
  }
}`

// Validate checks the configuration against the embedded JSON schema.
func (c *Config) Validate() error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config for validation: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.json", bytes.NewReader([]byte(configSchema))); err != nil {
		return fmt.Errorf("failed to load config schema: %w", err)
	}
	schema, err := compiler.Compile("config.json")
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode config for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Detect.MinTitleLength > c.Detect.MaxTitleLength {
		return fmt.Errorf("invalid configuration: min_title_length %d exceeds max_title_length %d",
			c.Detect.MinTitleLength, c.Detect.MaxTitleLength)
	}

	return nil
}
