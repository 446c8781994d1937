package report

import (
	"fmt"
	"os"

	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/pkg/jsonpath"
)

// Delta compares the mean elapsed time of one series across two reports.
type Delta struct {
	metrics.Key

	OldMean float64 `json:"oldMean"`
	NewMean float64 `json:"newMean"`

	// Change is (new - old) / old in percent; negative is faster.
	Change float64 `json:"change"`

	// Missing names the report a series is absent from: "old", "new" or "".
	Missing string `json:"missing,omitempty"`
}

// SeriesMean is the mean elapsed time of one series read from a JSON report.
type SeriesMean struct {
	metrics.Key
	Mean float64
}

// ReadMeans extracts the per-series means of a JSON report document.
func ReadMeans(doc string) ([]SeriesMean, error) {
	if !jsonpath.Valid(doc) {
		return nil, fmt.Errorf("report is not valid JSON")
	}

	elems, err := jsonpath.ExtractArray(doc, "$.summaries")
	if err != nil {
		return nil, fmt.Errorf("report has no summaries: %w", err)
	}

	out := make([]SeriesMean, 0, len(elems))
	for i, e := range elems {
		mode, err := jsonpath.Extract(e, "$.mode")
		if err != nil {
			return nil, fmt.Errorf("summaries[%d]: %w", i, err)
		}
		cs, err := jsonpath.ExtractInt(e, "$.case")
		if err != nil {
			return nil, fmt.Errorf("summaries[%d]: %w", i, err)
		}
		threads, err := jsonpath.ExtractInt(e, "$.threads")
		if err != nil {
			return nil, fmt.Errorf("summaries[%d]: %w", i, err)
		}
		mean, err := jsonpath.ExtractFloat(e, "$.mean")
		if err != nil {
			return nil, fmt.Errorf("summaries[%d]: %w", i, err)
		}

		out = append(out, SeriesMean{
			Key:  metrics.Key{Mode: mode, Case: int(cs), Threads: int(threads)},
			Mean: mean,
		})
	}
	return out, nil
}

// Compare pairs the series of two JSON report documents. Series are listed
// in the old report's order, followed by series only the new report has.
func Compare(oldDoc, newDoc string) ([]Delta, error) {
	oldMeans, err := ReadMeans(oldDoc)
	if err != nil {
		return nil, fmt.Errorf("old report: %w", err)
	}
	newMeans, err := ReadMeans(newDoc)
	if err != nil {
		return nil, fmt.Errorf("new report: %w", err)
	}

	newByKey := make(map[metrics.Key]float64, len(newMeans))
	for _, m := range newMeans {
		newByKey[m.Key] = m.Mean
	}

	seen := make(map[metrics.Key]bool, len(oldMeans))
	deltas := make([]Delta, 0, len(oldMeans))
	for _, m := range oldMeans {
		seen[m.Key] = true
		d := Delta{Key: m.Key, OldMean: m.Mean}
		if nm, ok := newByKey[m.Key]; ok {
			d.NewMean = nm
			if m.Mean != 0 {
				d.Change = (nm - m.Mean) / m.Mean * 100
			}
		} else {
			d.Missing = "new"
		}
		deltas = append(deltas, d)
	}

	for _, m := range newMeans {
		if !seen[m.Key] {
			deltas = append(deltas, Delta{Key: m.Key, NewMean: m.Mean, Missing: "old"})
		}
	}
	return deltas, nil
}

// CompareFiles reads two JSON reports and compares them.
func CompareFiles(oldPath, newPath string) ([]Delta, error) {
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	newData, err := os.ReadFile(newPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return Compare(string(oldData), string(newData))
}
