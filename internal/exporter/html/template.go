package html

// ReportTemplate renders the operation catalogue as a single page.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>GraphQL Operations - {{.AnalysisDate}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: linear-gradient(135deg, #ff4500 0%, #b93a00 100%);
            color: white;
            padding: 40px 20px;
            margin-bottom: 30px;
            border-radius: 8px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
        }

        header h1 {
            font-size: 2.2em;
            margin-bottom: 10px;
        }

        header p {
            font-size: 1.05em;
            opacity: 0.9;
        }

        .summary {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .summary h2 {
            color: #ff4500;
            margin-bottom: 15px;
            font-size: 1.4em;
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 15px;
            margin-top: 15px;
        }

        .stat-card {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 6px;
            border-left: 4px solid #ff4500;
        }

        .stat-card .label {
            font-size: 0.9em;
            color: #6c757d;
            margin-bottom: 5px;
        }

        .stat-card .value {
            font-size: 1.4em;
            font-weight: bold;
            color: #2c3e50;
            word-break: break-all;
        }

        .operation {
            background: white;
            margin-bottom: 20px;
            border-radius: 8px;
            overflow: hidden;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .operation-header {
            padding: 16px 20px;
            background: #f8f9fa;
            border-bottom: 1px solid #e9ecef;
            display: flex;
            align-items: center;
            gap: 15px;
        }

        .kind-badge {
            display: inline-block;
            padding: 4px 10px;
            border-radius: 4px;
            font-weight: bold;
            font-size: 0.8em;
            text-transform: uppercase;
            color: white;
        }

        .kind-query { background: #61affe; }
        .kind-mutation { background: #f93e3e; }
        .kind-subscription { background: #49cc90; }
        .kind-default { background: #6c757d; }

        .operation-name {
            font-size: 1.2em;
            font-weight: 600;
        }

        .operation-id {
            font-family: 'Courier New', monospace;
            color: #e83e8c;
        }

        .note {
            color: #757575;
            font-style: italic;
            font-size: 0.9em;
        }

        pre {
            padding: 20px;
            font-family: 'Courier New', monospace;
            font-size: 0.9em;
            white-space: pre-wrap;
            word-break: break-word;
        }

        .empty-state {
            text-align: center;
            padding: 60px 20px;
            color: #6c757d;
        }

        footer {
            text-align: center;
            padding: 20px;
            color: #6c757d;
            font-size: 0.85em;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>GraphQL Operations</h1>
            <p>Generated on {{.AnalysisDate}}{{if .PackageName}} for {{.PackageName}} {{.VersionName}}{{end}}</p>
        </header>

        <div class="summary">
            <h2>Summary</h2>
            <div class="stats">
                <div class="stat-card">
                    <div class="label">Operations</div>
                    <div class="value">{{len .Rows}}</div>
                </div>
                {{range $kind, $n := .Kinds}}
                <div class="stat-card">
                    <div class="label">{{$kind}}</div>
                    <div class="value">{{$n}}</div>
                </div>
                {{end}}
                <div class="stat-card">
                    <div class="label">OAuth Client ID</div>
                    <div class="value">{{.ClientID}}</div>
                </div>
            </div>
        </div>

        {{if .Rows}}
            {{range .Rows}}
            <div class="operation" id="op-{{.No}}">
                <div class="operation-header">
                    <span class="kind-badge {{kindClass .Kind}}">{{.Kind}}</span>
                    <span class="operation-name">{{.Name}}</span>
                    <span class="operation-id">{{.ID}}</span>
                    {{if .Notes}}<span class="note">{{join .Notes ", "}}</span>{{end}}
                </div>
                <pre>{{.Definition}}</pre>
            </div>
            {{end}}
        {{else}}
            <div class="empty-state">No operations were recovered.</div>
        {{end}}

        <footer>Result digest (xxh3): {{.Digest}}</footer>
    </div>
</body>
</html>
`
