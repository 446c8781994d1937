package report

// htmlTemplate is the main HTML template for the report
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - Benchmark Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-secondary: #f8fafc;
            --bg-card: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --text-muted: #94a3b8;
            --border-color: #e2e8f0;
            --accent-success: #22c55e;
            --accent-warning: #f59e0b;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container {
            max-width: 1400px;
            margin: 0 auto;
            padding: 2rem;
        }

        .card {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 1.5rem 2rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
        }

        h1 {
            font-size: 1.75rem;
            font-weight: 700;
        }

        h2 {
            font-size: 1.25rem;
            margin-bottom: 1rem;
        }

        .description {
            color: var(--text-secondary);
        }

        .meta {
            display: flex;
            flex-wrap: wrap;
            gap: 2rem;
            margin-top: 0.75rem;
            font-size: 0.875rem;
            color: var(--text-muted);
        }

        .status {
            display: inline-block;
            padding: 0.25rem 0.75rem;
            border-radius: 8px;
            font-weight: 600;
        }

        .status.complete {
            color: var(--accent-success);
            border: 1px solid rgba(34, 197, 94, 0.3);
        }

        .status.partial {
            color: var(--accent-warning);
            border: 1px solid rgba(245, 158, 11, 0.3);
        }

        table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.9rem;
        }

        th, td {
            text-align: right;
            padding: 0.5rem 0.75rem;
            border-bottom: 1px solid var(--border-color);
        }

        th:first-child, td:first-child {
            text-align: left;
        }

        th {
            color: var(--text-secondary);
            font-weight: 600;
        }

        .chart-container {
            position: relative;
            height: 360px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h1>{{.Name}}</h1>
            {{if .Description}}<p class="description">{{.Description}}</p>{{end}}
            <div class="meta">
                <span>Started: {{.StartTime.Format "2006-01-02 15:04:05"}}</span>
                <span>Duration: {{formatDuration .Duration}}</span>
                <span>Experiments: {{.Experiments}}</span>
                {{if .Config}}<span>Operations: {{.Config.Operations}}</span>
                <span>Initial size: {{.Config.Population}}</span>
                <span>Runs: {{.Config.Runs}}</span>{{end}}
                {{if .Seed}}<span>Seed: {{.Seed}}</span>{{end}}
                {{if .Complete}}<span class="status complete">Complete</span>{{else}}<span class="status partial">Partial</span>{{end}}
            </div>
        </div>

        {{range .Cases}}
        <div class="card">
            <h2>Case {{.Number}}</h2>
            <div class="chart-container"><canvas id="chart-case-{{.Number}}"></canvas></div>
            <table>
                <thead>
                    <tr>
                        <th>Mode</th>
                        <th>Threads</th>
                        <th>Runs</th>
                        <th>Average</th>
                        <th>StdDev</th>
                        <th>Min</th>
                        <th>Max</th>
                        <th>P50</th>
                        <th>P99</th>
                        <th>95% CI</th>
                        <th>Required runs</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Summaries}}
                    <tr>
                        <td>{{modeLabel .Mode}}</td>
                        <td>{{.Threads}}</td>
                        <td>{{.Runs}}</td>
                        <td>{{formatMicros .Mean}}</td>
                        <td>{{formatMicros .StdDev}}</td>
                        <td>{{formatMicros .Min}}</td>
                        <td>{{formatMicros .Max}}</td>
                        <td>{{.P50}} µs</td>
                        <td>{{.P99}} µs</td>
                        <td>[{{formatMicros .CILower}}, {{formatMicros .CIUpper}}]</td>
                        <td>{{.RequiredSamples}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}
    </div>

    <script>
        const series = {{.SeriesJSON}};
        const colors = { serial: '#64748b', mutex: '#ef4444', rwlock: '#3b82f6' };

        const byCase = {};
        for (const s of series) {
            (byCase[s.case] = byCase[s.case] || []).push(s);
        }

        for (const [num, lines] of Object.entries(byCase)) {
            const canvas = document.getElementById('chart-case-' + num);
            if (!canvas || typeof Chart === 'undefined') {
                continue;
            }
            new Chart(canvas, {
                type: 'line',
                data: {
                    datasets: lines.map(s => ({
                        label: s.label,
                        data: s.threads.map((t, i) => ({ x: t, y: s.mean[i] })),
                        borderColor: colors[s.mode] || '#94a3b8',
                        backgroundColor: colors[s.mode] || '#94a3b8',
                        tension: 0.1
                    }))
                },
                options: {
                    responsive: true,
                    maintainAspectRatio: false,
                    scales: {
                        x: { type: 'linear', title: { display: true, text: 'Threads' }, ticks: { stepSize: 1 } },
                        y: { beginAtZero: true, title: { display: true, text: 'Mean elapsed (µs)' } }
                    }
                }
            });
        }
    </script>
</body>
</html>
`
