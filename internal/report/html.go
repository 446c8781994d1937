package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"sort"
	"time"

	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/internal/runner"
)

// ReportData contains all data needed to render the HTML report.
type ReportData struct {
	*runner.Report
	Cases      []CaseSection
	SeriesJSON template.JS
}

// CaseSection groups the summaries of one case.
type CaseSection struct {
	Number    int
	Summaries []metrics.Summary
}

// Series is one line of the elapsed-time chart: the mean elapsed time of a
// (mode, case) pair at each thread count.
type Series struct {
	Mode    string    `json:"mode"`
	Label   string    `json:"label"`
	Case    int       `json:"case"`
	Threads []int     `json:"threads"`
	Mean    []float64 `json:"mean"`
}

// GenerateHTML generates an HTML report and writes it to a file.
func GenerateHTML(rep *runner.Report, outputPath string) error {
	html, err := GenerateHTMLString(rep)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString generates an HTML report and returns it as a string.
func GenerateHTMLString(rep *runner.Report) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("report cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	seriesJSON, err := json.Marshal(BuildSeries(rep.Summaries))
	if err != nil {
		return "", fmt.Errorf("failed to convert series: %w", err)
	}

	data := ReportData{
		Report:     rep,
		Cases:      groupByCase(rep.Summaries),
		SeriesJSON: template.JS(seriesJSON),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// BuildSeries groups summaries into chart lines, one per (mode, case), with
// points ordered by thread count.
func BuildSeries(summaries []metrics.Summary) []Series {
	type seriesKey struct {
		mode string
		cs   int
	}

	var out []Series
	index := make(map[seriesKey]int)
	for _, s := range summaries {
		k := seriesKey{mode: s.Mode, cs: s.Case}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Series{
				Mode:  s.Mode,
				Label: fmt.Sprintf("%s case %d", executor.Mode(s.Mode).Label(), s.Case),
				Case:  s.Case,
			})
		}
		out[i].Threads = append(out[i].Threads, s.Threads)
		out[i].Mean = append(out[i].Mean, s.Mean)
	}

	for i := range out {
		sort.Sort(byThreads{&out[i]})
	}
	return out
}

// byThreads sorts a series' points by thread count.
type byThreads struct{ s *Series }

func (b byThreads) Len() int           { return len(b.s.Threads) }
func (b byThreads) Less(i, j int) bool { return b.s.Threads[i] < b.s.Threads[j] }
func (b byThreads) Swap(i, j int) {
	b.s.Threads[i], b.s.Threads[j] = b.s.Threads[j], b.s.Threads[i]
	b.s.Mean[i], b.s.Mean[j] = b.s.Mean[j], b.s.Mean[i]
}

// groupByCase groups summaries by case number, keeping first-seen order
// within each case.
func groupByCase(summaries []metrics.Summary) []CaseSection {
	var sections []CaseSection
	index := make(map[int]int)
	for _, s := range summaries {
		i, ok := index[s.Case]
		if !ok {
			i = len(sections)
			index[s.Case] = i
			sections = append(sections, CaseSection{Number: s.Case})
		}
		sections[i].Summaries = append(sections[i].Summaries, s)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Number < sections[j].Number
	})
	return sections
}

// templateFuncs returns the template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": formatDuration,
		"formatMicros":   formatMicros,
		"modeLabel":      func(m string) string { return executor.Mode(m).Label() },
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// formatMicros formats a microsecond value with two decimals.
func formatMicros(v float64) string {
	return fmt.Sprintf("%.2f µs", v)
}
