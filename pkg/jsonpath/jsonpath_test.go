package jsonpath

import (
	"testing"
)

const reportJSON = `{
	"name": "nightly",
	"seed": 42,
	"complete": true,
	"description": null,
	"config": {"runs": 30, "threads": [1, 2, 4, 8]},
	"summaries": [
		{"mode": "serial", "case": 1, "threads": 1, "mean": 1234.5},
		{"mode": "mutex", "case": 1, "threads": 4, "mean": 2000}
	]
}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
		wantErr  bool
	}{
		{name: "simple property", path: "$.name", expected: "nightly"},
		{name: "without dollar", path: "name", expected: "nightly"},
		{name: "number", path: "$.seed", expected: "42"},
		{name: "boolean", path: "$.complete", expected: "true"},
		{name: "null", path: "$.description", expected: "null"},
		{name: "nested", path: "$.config.runs", expected: "30"},
		{name: "array element", path: "$.config.threads[2]", expected: "4"},
		{name: "object in array", path: "$.summaries[1].mode", expected: "mutex"},
		{name: "single-quoted key", path: "$['name']", expected: "nightly"},
		{name: "double-quoted key", path: `$["config"]["runs"]`, expected: "30"},
		{name: "array length", path: "$.summaries.#", expected: "2"},
		{name: "missing", path: "$.nope", wantErr: true},
		{name: "index out of range", path: "$.summaries[5].mode", wantErr: true},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(reportJSON, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Extract(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	if _, err := Extract("", "$.name"); err == nil {
		t.Error("Extract on empty document should fail")
	}
}

func TestExtractFloat(t *testing.T) {
	got, err := ExtractFloat(reportJSON, "$.summaries[0].mean")
	if err != nil {
		t.Fatalf("ExtractFloat error = %v", err)
	}
	if got != 1234.5 {
		t.Errorf("ExtractFloat = %v, want 1234.5", got)
	}

	if _, err := ExtractFloat(reportJSON, "$.name"); err == nil {
		t.Error("ExtractFloat on a string should fail")
	}
}

func TestExtractInt(t *testing.T) {
	got, err := ExtractInt(reportJSON, "$.summaries[1].threads")
	if err != nil {
		t.Fatalf("ExtractInt error = %v", err)
	}
	if got != 4 {
		t.Errorf("ExtractInt = %d, want 4", got)
	}

	if _, err := ExtractInt(reportJSON, "$.summaries[0].mean"); err == nil {
		t.Error("ExtractInt on a fractional number should fail")
	}
}

func TestExtractArray(t *testing.T) {
	elems, err := ExtractArray(reportJSON, "$.summaries")
	if err != nil {
		t.Fatalf("ExtractArray error = %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("len = %d, want 2", len(elems))
	}

	mode, err := Extract(elems[1], "$.mode")
	if err != nil || mode != "mutex" {
		t.Errorf("element mode = %q, %v; want mutex", mode, err)
	}

	if _, err := ExtractArray(reportJSON, "$.name"); err == nil {
		t.Error("ExtractArray on a string should fail")
	}
}

func TestExtractMultiple(t *testing.T) {
	got, err := ExtractMultiple(reportJSON, map[string]string{
		"name": "$.name",
		"runs": "$.config.runs",
	})
	if err != nil {
		t.Fatalf("ExtractMultiple error = %v", err)
	}
	if got["name"] != "nightly" || got["runs"] != "30" {
		t.Errorf("ExtractMultiple = %v", got)
	}

	partial, err := ExtractMultiple(reportJSON, map[string]string{
		"name":    "$.name",
		"missing": "$.missing",
	})
	if err == nil {
		t.Error("expected error for missing path")
	}
	if partial["name"] != "nightly" {
		t.Errorf("partial results lost: %v", partial)
	}

	if _, err := ExtractMultiple(reportJSON, nil); err == nil {
		t.Error("expected error for no paths")
	}
}

func TestValid(t *testing.T) {
	if !Valid(reportJSON) {
		t.Error("report document reported invalid")
	}
	if Valid("{not json") {
		t.Error("malformed document reported valid")
	}
}

func TestConvertToGjsonPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "$", expected: "@this"},
		{path: "$.", expected: "@this"},
		{path: "$.summaries[0].mean", expected: "summaries.0.mean"},
		{path: "$[1]", expected: "1"},
		{path: "$['config']['runs']", expected: "config.runs"},
		{path: "config.threads", expected: "config.threads"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := convertToGjsonPath(tt.path); got != tt.expected {
				t.Errorf("convertToGjsonPath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
