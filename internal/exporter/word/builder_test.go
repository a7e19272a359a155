package word

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/model"
)

func TestTemplateHasPlaceholders(t *testing.T) {
	data, err := Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("template is not a zip: %v", err)
	}

	var doc string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		doc = string(b)
	}
	for _, p := range []string{PlaceholderDate, PlaceholderPackage, PlaceholderClientID, PlaceholderCount, PlaceholderDigest, PlaceholderContent} {
		if !strings.Contains(doc, p) {
			t.Errorf("document.xml is missing %s", p)
		}
	}
}

func TestBuildContent(t *testing.T) {
	out := buildContent([]common.Row{
		{No: 1, ID: "aaaaaaaaaaaa", Name: "Feed", Kind: common.KindQuery, Definition: "query Feed { a }"},
	})
	for _, want := range []string{"[QUERY] Feed (aaaaaaaaaaaa)", "query Feed { a }"} {
		if !strings.Contains(out, want) {
			t.Errorf("content is missing %q:\n%s", want, out)
		}
	}
	if got := buildContent(nil); !strings.Contains(got, "No operations") {
		t.Errorf("empty content = %q", got)
	}
}

func TestLineBreaks(t *testing.T) {
	if got := lineBreaks("a\nb\r\nc"); got != "a\r\nb\r\nc" {
		t.Errorf("lineBreaks = %q", got)
	}
}

func TestWordExport(t *testing.T) {
	report, err := model.NewReport(model.NewAnalysisResult([]model.GQLOperation{
		{ID: "aaaaaaaaaaaa", Name: "Feed", Definition: "query Feed { a }"},
	}, "cid"), model.Stats{}, "2026-01-02")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Output: config.OutputConfig{Dir: t.TempDir(), FileName: "report"}}

	if err := NewWordExporter().Export(report, cfg); err != nil {
		t.Fatalf("Export: %v", err)
	}

	zr, err := zip.OpenReader(cfg.GetOutputPath(".docx"))
	if err != nil {
		t.Fatalf("output is not a docx: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, _ := f.Open()
		b, _ := io.ReadAll(rc)
		rc.Close()
		doc := string(b)
		if strings.Contains(doc, PlaceholderContent) || !strings.Contains(doc, "Feed") {
			t.Errorf("placeholders not replaced:\n%s", doc)
		}
	}
}
