package word

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/model"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Name() string { return "word" }

func (e *WordExporter) Export(report *model.Report, cfg *config.Config) error {
	outFile := cfg.GetOutputPath(".docx")

	tmpl, err := Template()
	if err != nil {
		return fmt.Errorf("failed to build template: %w", err)
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(tmpl), int64(len(tmpl)))
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	rows := common.Rows(report)

	pkg := report.App.PackageName
	if pkg == "" {
		pkg = "-"
	} else if report.App.VersionName != "" {
		pkg += " " + report.App.VersionName
	}

	replacements := []struct{ old, new string }{
		{PlaceholderDate, report.AnalysisDate},
		{PlaceholderPackage, pkg},
		{PlaceholderClientID, report.Result.RawOAuthClientID},
		{PlaceholderCount, fmt.Sprintf("%d", len(rows))},
		{PlaceholderDigest, report.Digest},
		{PlaceholderContent, lineBreaks(buildContent(rows))},
	}
	for _, rp := range replacements {
		if err := doc.Replace(rp.old, rp.new, -1); err != nil {
			return fmt.Errorf("failed to fill %s: %w", rp.old, err)
		}
	}

	return common.WriteFile(outFile, func(w io.Writer) error {
		return doc.Write(w)
	})
}

// buildContent renders the operations as plain text, one block each.
func buildContent(rows []common.Row) string {
	var sb strings.Builder

	if len(rows) == 0 {
		sb.WriteString("No operations were recovered.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-5s %-14s %-13s %s\n", "No", "ID", "Kind", "Name"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-5d %-14s %-13s %s\n", r.No, r.ID, r.Kind, r.Name))
	}

	for _, r := range rows {
		sb.WriteString("\n" + strings.Repeat("=", 80) + "\n")
		sb.WriteString(fmt.Sprintf("[%s] %s (%s)\n", strings.ToUpper(r.Kind), r.Name, r.ID))
		if len(r.Notes) > 0 {
			sb.WriteString("Note: " + strings.Join(r.Notes, ", ") + "\n")
		}
		sb.WriteString("\n")
		sb.WriteString(r.Definition)
		sb.WriteString("\n")
	}

	return sb.String()
}

// lineBreaks turns newlines into the CRLF pairs the docx writer renders as
// line breaks.
func lineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
