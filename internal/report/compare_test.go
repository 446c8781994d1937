package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/listbench/internal/metrics"
)

func TestCompare(t *testing.T) {
	oldDoc := `{"summaries": [
		{"mode": "serial", "case": 1, "threads": 1, "mean": 1000},
		{"mode": "mutex", "case": 1, "threads": 4, "mean": 2000},
		{"mode": "rwlock", "case": 1, "threads": 4, "mean": 1500}
	]}`
	newDoc := `{"summaries": [
		{"mode": "mutex", "case": 1, "threads": 4, "mean": 1500},
		{"mode": "serial", "case": 1, "threads": 1, "mean": 1100},
		{"mode": "rwlock", "case": 2, "threads": 8, "mean": 700}
	]}`

	deltas, err := Compare(oldDoc, newDoc)
	require.NoError(t, err)
	require.Len(t, deltas, 4)

	assert.Equal(t, metrics.Key{Mode: "serial", Case: 1, Threads: 1}, deltas[0].Key)
	assert.InDelta(t, 10.0, deltas[0].Change, 1e-9)

	assert.Equal(t, "mutex", deltas[1].Mode)
	assert.InDelta(t, -25.0, deltas[1].Change, 1e-9)

	assert.Equal(t, "rwlock", deltas[2].Mode)
	assert.Equal(t, "new", deltas[2].Missing)

	assert.Equal(t, metrics.Key{Mode: "rwlock", Case: 2, Threads: 8}, deltas[3].Key)
	assert.Equal(t, "old", deltas[3].Missing)
	assert.Equal(t, 700.0, deltas[3].NewMean)
}

func TestCompare_Errors(t *testing.T) {
	valid := `{"summaries": []}`

	tests := []struct {
		name   string
		oldDoc string
		newDoc string
	}{
		{name: "malformed old", oldDoc: "{", newDoc: valid},
		{name: "no summaries", oldDoc: valid, newDoc: `{"name": "x"}`},
		{name: "mean not a number", oldDoc: `{"summaries": [{"mode": "serial", "case": 1, "threads": 1, "mean": "fast"}]}`, newDoc: valid},
		{name: "missing threads", oldDoc: valid, newDoc: `{"summaries": [{"mode": "serial", "case": 1, "mean": 1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(tt.oldDoc, tt.newDoc)
			assert.Error(t, err)
		})
	}
}

func TestCompareFiles_RoundTripsWrittenReports(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.json")
	newPath := filepath.Join(dir, "new.json")

	older := sampleReport()
	require.NoError(t, WriteFile(older, oldPath))

	newer := sampleReport()
	newer.Summaries = sampleSummaries()
	newer.Summaries[0].Mean = 2469
	require.NoError(t, WriteFile(newer, newPath))

	deltas, err := CompareFiles(oldPath, newPath)
	require.NoError(t, err)
	require.Len(t, deltas, 4)
	assert.InDelta(t, 100.0, deltas[0].Change, 1e-9)
	for _, d := range deltas[1:] {
		assert.Zero(t, d.Change)
		assert.Empty(t, d.Missing)
	}

	_, err = CompareFiles(filepath.Join(dir, "absent.json"), newPath)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(oldPath, []byte("not json"), 0o644))
	_, err = CompareFiles(oldPath, newPath)
	assert.Error(t, err)
}
