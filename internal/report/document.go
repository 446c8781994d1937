package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/listbench/internal/runner"
)

// Format is a report document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", path)
	}
}

// Marshal renders the report in format.
func Marshal(rep *runner.Report, format Format) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(rep, "", "  ")
	case FormatYAML:
		return yaml.Marshal(rep)
	case FormatHTML:
		html, err := GenerateHTMLString(rep)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile writes the report to path in the format chosen by its extension.
func WriteFile(rep *runner.Report, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Marshal(rep, format)
	if err != nil {
		return fmt.Errorf("failed to render %s report: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
