package html

import (
	"html/template"
	"io"
	"strings"

	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/model"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

func (e *HTMLExporter) Name() string { return "html" }

// ReportData is what ReportTemplate renders.
type ReportData struct {
	AnalysisDate string
	PackageName  string
	VersionName  string
	ClientID     string
	Digest       string
	Rows         []common.Row
	Kinds        map[string]int
}

var reportTmpl = template.Must(template.New("gql-report").Funcs(template.FuncMap{
	"kindClass": kindClass,
	"join":      strings.Join,
}).Parse(ReportTemplate))

func (e *HTMLExporter) Export(report *model.Report, cfg *config.Config) error {
	rows := common.Rows(report)
	data := ReportData{
		AnalysisDate: report.AnalysisDate,
		PackageName:  report.App.PackageName,
		VersionName:  report.App.VersionName,
		ClientID:     report.Result.RawOAuthClientID,
		Digest:       report.Digest,
		Rows:         rows,
		Kinds:        common.KindCounts(rows),
	}

	return common.WriteFile(cfg.GetOutputPath(".html"), func(w io.Writer) error {
		return Render(w, data)
	})
}

// Render executes the report template into w.
func Render(w io.Writer, data ReportData) error {
	return reportTmpl.Execute(w, data)
}

// kindClass returns the CSS class for an operation kind
func kindClass(kind string) string {
	switch kind {
	case common.KindQuery, common.KindMutation, common.KindSubscription:
		return "kind-" + kind
	default:
		return "kind-default"
	}
}
