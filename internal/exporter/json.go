package exporter

import (
	"fmt"
	"io"

	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/model"
)

// JSONExporter writes the analysis result in its JSON contract form.
type JSONExporter struct{}

// NewJSONExporter creates a new JSONExporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Name() string { return "json" }

// Export writes the result to output.json_path, which must not exist yet,
// or next to the other reports when no explicit path is set.
func (e *JSONExporter) Export(report *model.Report, cfg *config.Config) error {
	write := func(w io.Writer) error {
		return WriteJSON(w, report.Result)
	}
	if cfg.Output.JSONPath != "" {
		return common.CreateFile(cfg.Output.JSONPath, write)
	}
	return common.WriteFile(cfg.GetOutputPath(".json"), write)
}

// WriteJSON writes result as pretty JSON to w.
func WriteJSON(w io.Writer, result *model.AnalysisResult) error {
	data, err := result.MarshalIndent()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
