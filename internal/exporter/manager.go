package exporter

import (
	"strings"

	"apk-recon/internal/exporter/html"
	"apk-recon/internal/exporter/sqlite"
	"apk-recon/internal/exporter/word"
)

// GetExporters returns one Exporter per requested format, in request order.
// Unknown formats are skipped; config validation reports them.
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))

		var e Exporter
		switch fmtStr {
		case "json":
			e = NewJSONExporter()
		case "excel", "xlsx":
			e = NewExcelExporter()
		case "html":
			e = html.NewHTMLExporter()
		case "word", "docx":
			e = word.NewWordExporter()
		case "sqlite", "db":
			e = sqlite.NewSQLiteExporter()
		default:
			continue
		}

		if seen[e.Name()] {
			continue
		}
		seen[e.Name()] = true
		exporters = append(exporters, e)
	}

	return exporters
}
