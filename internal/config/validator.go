package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wesleyorama2/listbench/internal/executor"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the entire benchmark configuration. Call it after
// ApplyDefaults.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *BenchConfig) Validate() error {
	errs := &ValidationErrors{}

	if len(c.Modes) == 0 {
		errs.Add("modes", "at least one mode is required")
	}
	for i, m := range c.Modes {
		if !executor.IsValidMode(m) {
			errs.Add(fmt.Sprintf("modes[%d]", i), fmt.Sprintf("unknown mode: %s", m))
		}
	}

	if len(c.Cases) == 0 {
		errs.Add("cases", "at least one case is required")
	}
	seen := make(map[int]bool, len(c.Cases))
	for i, cs := range c.Cases {
		validateCase(fmt.Sprintf("cases[%d]", i), cs, c.Operations, seen, errs)
	}

	if len(c.Threads) == 0 {
		errs.Add("threads", "at least one thread count is required")
	}
	for i, t := range c.Threads {
		if t <= 0 {
			errs.Add(fmt.Sprintf("threads[%d]", i), "thread count must be greater than 0")
		}
	}

	if c.Runs <= 0 {
		errs.Add("runs", "runs must be greater than 0")
	}
	if c.Operations <= 0 {
		errs.Add("operations", "operations must be greater than 0")
	}

	validatePopulation(c, errs)
	validateOutput(&c.Output, errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// validateCase validates one operation mix.
func validateCase(prefix string, cs CaseConfig, ops int, seen map[int]bool, errs *ValidationErrors) {
	if cs.Number <= 0 {
		errs.Add(prefix+".number", "case number must be greater than 0")
	} else if seen[cs.Number] {
		errs.Add(prefix+".number", fmt.Sprintf("duplicate case number: %d", cs.Number))
	}
	seen[cs.Number] = true

	// A non-positive op count is reported once at the top level.
	if ops <= 0 {
		ops = 1
	}
	if err := cs.Spec(ops).Validate(); err != nil {
		errs.Add(prefix, err.Error())
	}
}

// validatePopulation checks that the initial population fits the key space
// and the node capacity.
func validatePopulation(c *BenchConfig, errs *ValidationErrors) {
	if c.KeySpace <= 0 {
		errs.Add("keySpace", "keySpace must be greater than 0")
	}
	population := c.Population()
	if population < 0 {
		errs.Add("initialSize", "initialSize cannot be negative")
	} else if c.KeySpace > 0 && population > c.KeySpace {
		errs.Add("initialSize", fmt.Sprintf("initialSize %d exceeds keySpace %d", population, c.KeySpace))
	}

	if c.Capacity < 0 {
		errs.Add("capacity", "capacity cannot be negative")
	} else if c.Capacity > 0 && c.Capacity < population {
		errs.Add("capacity", fmt.Sprintf("capacity %d is smaller than initialSize %d", c.Capacity, population))
	}
}

// validateOutput checks that output paths have supported extensions.
func validateOutput(o *OutputConfig, errs *ValidationErrors) {
	if o.Report != "" {
		switch strings.ToLower(filepath.Ext(o.Report)) {
		case ".json", ".yaml", ".yml", ".html", ".htm":
		default:
			errs.Add("output.report", fmt.Sprintf("unsupported report format: %s", o.Report))
		}
	}

	if o.Plot != "" {
		switch strings.ToLower(filepath.Ext(o.Plot)) {
		case ".png", ".svg", ".pdf":
		default:
			errs.Add("output.plot", fmt.Sprintf("unsupported plot format: %s", o.Plot))
		}
	}
}
