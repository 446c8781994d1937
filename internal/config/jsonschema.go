package config

import (
	"fmt"

	"github.com/wesleyorama2/listbench/pkg/jsonschema"
)

// configSchema describes the accepted configuration document. Semantic
// constraints that span fields live in Validate.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "modes": {
      "type": "array",
      "items": {"type": "string", "enum": ["serial", "mutex", "rwlock"]}
    },
    "cases": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["number", "member", "insert", "delete"],
        "properties": {
          "number": {"type": "integer", "minimum": 1},
          "name": {"type": "string"},
          "member": {"type": "number", "minimum": 0, "maximum": 1},
          "insert": {"type": "number", "minimum": 0, "maximum": 1},
          "delete": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    },
    "threads": {
      "type": "array",
      "items": {"type": "integer", "minimum": 1}
    },
    "runs": {"type": "integer", "minimum": 1},
    "operations": {"type": "integer", "minimum": 1},
    "initialSize": {"type": "integer", "minimum": 0},
    "keySpace": {"type": "integer", "minimum": 1},
    "capacity": {"type": "integer", "minimum": 0},
    "seed": {"type": "integer"},
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "csv": {"type": "string"},
        "report": {"type": "string"},
        "plot": {"type": "string"}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompile("config.schema.json", configSchema)

// CheckSchema validates a decoded document against the configuration schema.
// doc must use the value model of encoding/json.
func CheckSchema(doc interface{}) error {
	if errs := compiledSchema.Validate(doc); errs != nil {
		return fmt.Errorf("config does not match schema: %w", errs)
	}
	return nil
}
