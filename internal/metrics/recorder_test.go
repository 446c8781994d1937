package metrics

import (
	"math"
	"sync"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2.
	samples := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	s := Summarize(samples)

	if s.Runs != 8 {
		t.Errorf("Runs = %d, want 8", s.Runs)
	}
	if !almostEqual(s.Mean, 5) {
		t.Errorf("Mean = %v, want 5", s.Mean)
	}
	if !almostEqual(s.StdDev, 2) {
		t.Errorf("StdDev = %v, want 2", s.StdDev)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("Min/Max = %v/%v, want 2/9", s.Min, s.Max)
	}

	wantMargin := 1.96 * 2 / math.Sqrt(8)
	if !almostEqual(s.Margin, wantMargin) {
		t.Errorf("Margin = %v, want %v", s.Margin, wantMargin)
	}
	if !almostEqual(s.CILower, 5-wantMargin) || !almostEqual(s.CIUpper, 5+wantMargin) {
		t.Errorf("CI = [%v, %v], want [%v, %v]", s.CILower, s.CIUpper, 5-wantMargin, 5+wantMargin)
	}

	// (1.96*2 / (0.05*5))^2 = 15.68^2 = 245.86 -> 246
	if s.RequiredSamples != 246 {
		t.Errorf("RequiredSamples = %d, want 246", s.RequiredSamples)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Runs != 0 || s.Mean != 0 {
		t.Errorf("Summarize(nil) = %+v, want zero", s)
	}
}

func TestRequiredSamples(t *testing.T) {
	tests := []struct {
		name   string
		mean   float64
		stdDev float64
		want   int
	}{
		{name: "no spread", mean: 100, stdDev: 0, want: 0},
		{name: "zero mean", mean: 0, stdDev: 5, want: 0},
		{name: "ten percent spread", mean: 1000, stdDev: 100, want: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequiredSamples(tt.mean, tt.stdDev); got != tt.want {
				t.Errorf("RequiredSamples(%v, %v) = %d, want %d", tt.mean, tt.stdDev, got, tt.want)
			}
		})
	}
}

func TestRecorder_SeriesOrderAndSummary(t *testing.T) {
	r := NewRecorder()
	mutex := Key{Mode: "mutex", Case: 1, Threads: 4}
	serial := Key{Mode: "serial", Case: 1, Threads: 1}

	r.Record(mutex, 1000)
	r.Record(serial, 500)
	r.Record(mutex, 3000)

	all := r.Summaries()
	if len(all) != 2 {
		t.Fatalf("len(Summaries()) = %d, want 2", len(all))
	}
	if all[0].Key != mutex || all[1].Key != serial {
		t.Errorf("series order = %v, %v; want first-recorded order", all[0].Key, all[1].Key)
	}

	s, ok := r.Summary(mutex)
	if !ok {
		t.Fatal("Summary(mutex) missing")
	}
	if s.Runs != 2 || !almostEqual(s.Mean, 2000) {
		t.Errorf("mutex summary = %+v, want 2 runs, mean 2000", s)
	}
	if s.Min != 1000 || s.Max != 3000 {
		t.Errorf("mutex Min/Max = %v/%v, want 1000/3000", s.Min, s.Max)
	}

	// HDR percentiles are accurate to 3 significant figures.
	if s.P99 < 2990 || s.P99 > 3010 {
		t.Errorf("P99 = %d, want ~3000", s.P99)
	}

	if _, ok := r.Summary(Key{Mode: "rwlock"}); ok {
		t.Error("Summary for unknown key reported ok")
	}
}

func TestRecorder_Samples(t *testing.T) {
	r := NewRecorder()
	k := Key{Mode: "rwlock", Case: 2, Threads: 2}
	r.Record(k, 0)
	r.Record(k, 42)

	got := r.Samples(k)
	if len(got) != 2 || got[0] != 0 || got[1] != 42 {
		t.Errorf("Samples() = %v, want [0 42]", got)
	}

	got[0] = 99
	if r.Samples(k)[0] != 0 {
		t.Error("Samples() returned internal storage")
	}
}

func TestRecorder_ConcurrentRecord(t *testing.T) {
	r := NewRecorder()
	k := Key{Mode: "mutex", Case: 3, Threads: 8}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Record(k, uint64(j+1))
			}
		}()
	}
	wg.Wait()

	s, _ := r.Summary(k)
	if s.Runs != 800 {
		t.Errorf("Runs = %d, want 800", s.Runs)
	}
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	r.Record(Key{Mode: "serial"}, 10)
	r.Reset()

	if len(r.Summaries()) != 0 {
		t.Error("Summaries() not empty after Reset")
	}
}

func TestKey_Label(t *testing.T) {
	k := Key{Mode: "rwlock", Case: 2, Threads: 8}
	if k.Label() != "rwlock/case-2/8t" {
		t.Errorf("Label() = %q", k.Label())
	}
}
