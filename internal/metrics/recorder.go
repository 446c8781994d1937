// Package metrics aggregates per-experiment elapsed times into summary
// statistics.
//
// Samples are grouped by series (mode, case, thread count). Each series keeps
// the raw samples for exact mean, standard deviation, extremes and the 95%
// confidence interval, and an HDR histogram for percentiles.
//
// # Thread Safety
//
// Recorder is safe for concurrent use.
package metrics

import (
	"fmt"
	"math"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/montanaflynn/stats"
)

const (
	// z95 is the two-sided 95% normal quantile.
	z95 = 1.96

	// relativeAccuracy is the target half-width of the confidence interval
	// as a fraction of the mean, used for the required-sample estimate.
	relativeAccuracy = 0.05
)

// Key identifies one series.
type Key struct {
	Mode    string `json:"mode" yaml:"mode"`
	Case    int    `json:"case" yaml:"case"`
	Threads int    `json:"threads" yaml:"threads"`
}

// Label returns a compact series label.
func (k Key) Label() string {
	return fmt.Sprintf("%s/case-%d/%dt", k.Mode, k.Case, k.Threads)
}

// RecorderConfig contains configuration for the recorder.
type RecorderConfig struct {
	// HistogramMin is the minimum recordable value in microseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in microseconds (default: 3600000000 = 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultRecorderConfig returns the default configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		HistogramMin:     1,
		HistogramMax:     3600000000,
		HistogramSigFigs: 3,
	}
}

type series struct {
	key     Key
	hist    *hdrhistogram.Histogram
	samples []float64
}

// Recorder collects elapsed-time samples per series.
type Recorder struct {
	mu     sync.Mutex
	config RecorderConfig
	series map[Key]*series
	order  []Key
}

// NewRecorder creates a recorder with the default configuration.
func NewRecorder() *Recorder {
	return NewRecorderWithConfig(DefaultRecorderConfig())
}

// NewRecorderWithConfig creates a recorder with a custom configuration.
func NewRecorderWithConfig(config RecorderConfig) *Recorder {
	return &Recorder{
		config: config,
		series: make(map[Key]*series),
	}
}

// Record adds one elapsed time, in microseconds, to key's series.
func (r *Recorder) Record(key Key, micros uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[key]
	if !ok {
		s = &series{
			key:  key,
			hist: hdrhistogram.New(r.config.HistogramMin, r.config.HistogramMax, r.config.HistogramSigFigs),
		}
		r.series[key] = s
		r.order = append(r.order, key)
	}

	// Clamp to the histogram range; the raw sample keeps the exact value.
	v := int64(micros)
	if v < r.config.HistogramMin {
		v = r.config.HistogramMin
	}
	if v > r.config.HistogramMax {
		v = r.config.HistogramMax
	}
	_ = s.hist.RecordValue(v)
	s.samples = append(s.samples, float64(micros))
}

// Samples returns a copy of key's raw samples.
func (r *Recorder) Samples(key Key) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[key]
	if !ok {
		return nil
	}
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Summary returns the statistics of key's series.
func (r *Recorder) Summary(key Key) (Summary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[key]
	if !ok {
		return Summary{}, false
	}
	return summarize(s), true
}

// Summaries returns the statistics of every series in first-recorded order.
func (r *Recorder) Summaries() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Summary, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, summarize(r.series[key]))
	}
	return out
}

// Reset drops every series.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.series = make(map[Key]*series)
	r.order = nil
}

// Summary contains the statistics of one series. Times are microseconds.
type Summary struct {
	Key `yaml:",inline"`

	Runs    int     `json:"runs" yaml:"runs"`
	Mean    float64 `json:"mean" yaml:"mean"`
	StdDev  float64 `json:"stdDev" yaml:"stdDev"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	P50     int64   `json:"p50" yaml:"p50"`
	P90     int64   `json:"p90" yaml:"p90"`
	P99     int64   `json:"p99" yaml:"p99"`
	Margin  float64 `json:"margin" yaml:"margin"`
	CILower float64 `json:"ciLower" yaml:"ciLower"`
	CIUpper float64 `json:"ciUpper" yaml:"ciUpper"`

	// RequiredSamples estimates the runs needed for a 95% confidence
	// interval within 5% of the mean.
	RequiredSamples int `json:"requiredSamples" yaml:"requiredSamples"`
}

func summarize(s *series) Summary {
	sum := Summarize(s.samples)
	sum.Key = s.key
	sum.P50 = s.hist.ValueAtQuantile(50)
	sum.P90 = s.hist.ValueAtQuantile(90)
	sum.P99 = s.hist.ValueAtQuantile(99)
	return sum
}

// Summarize computes the exact statistics of samples. The standard deviation
// is the population deviation. Percentile fields are left zero.
func Summarize(samples []float64) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{}
	}

	mean, _ := stats.Mean(samples)
	stdDev, _ := stats.StandardDeviationPopulation(samples)
	minV, _ := stats.Min(samples)
	maxV, _ := stats.Max(samples)

	margin := z95 * stdDev / math.Sqrt(float64(n))

	return Summary{
		Runs:            n,
		Mean:            mean,
		StdDev:          stdDev,
		Min:             minV,
		Max:             maxV,
		Margin:          margin,
		CILower:         mean - margin,
		CIUpper:         mean + margin,
		RequiredSamples: RequiredSamples(mean, stdDev),
	}
}

// RequiredSamples returns ceil((z·σ / (0.05·μ))²), the number of runs for a
// 95% confidence interval whose half-width is 5% of the mean.
func RequiredSamples(mean, stdDev float64) int {
	if mean <= 0 {
		return 0
	}
	r := (z95 * stdDev) / (relativeAccuracy * mean)
	return int(math.Ceil(r * r))
}
