package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// LoadConfig loads a benchmark configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//
// The document is checked against the configuration schema before it is
// decoded. Defaults are not applied.
func LoadConfig(path string) (*BenchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (*BenchConfig, error) {
	isJSON := strings.ToLower(filepath.Ext(path)) == ".json"

	doc, err := decodeDocument(data, isJSON)
	if err != nil {
		return nil, err
	}
	if err := CheckSchema(doc); err != nil {
		return nil, err
	}

	var config BenchConfig
	if len(bytes.TrimSpace(data)) == 0 {
		return &config, nil
	}

	if isJSON {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return &config, nil
}

// decodeDocument decodes data into the generic JSON value model used by the
// schema validator. YAML documents are round-tripped through JSON so that
// numbers arrive as json.Number.
func decodeDocument(data []byte, isJSON bool) (interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, nil
	}

	raw := data
	if !isJSON {
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
		if generic == nil {
			return map[string]interface{}{}, nil
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML config: %w", err)
		}
		raw = converted
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return doc, nil
}

// ApplyDefaults applies default values to a BenchConfig.
func ApplyDefaults(config *BenchConfig) {
	if len(config.Modes) == 0 {
		for _, m := range executor.Modes() {
			config.Modes = append(config.Modes, string(m))
		}
	}
	if len(config.Cases) == 0 {
		config.Cases = DefaultCases()
	}
	if len(config.Threads) == 0 {
		config.Threads = DefaultThreads()
	}
	if config.Runs == 0 {
		config.Runs = DefaultRuns
	}
	if config.Operations == 0 {
		config.Operations = DefaultOperations
	}
	if config.InitialSize == nil {
		config.InitialSize = Int(DefaultInitialSize)
	}
	if config.KeySpace == 0 {
		config.KeySpace = workload.DefaultKeySpace
	}
	if config.Name == "" {
		config.Name = "listbench"
	}
}

// ParseIntList parses a comma-separated list such as "1,2,4,8".
func ParseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer in list: %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
