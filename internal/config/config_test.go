package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	if cfg.Source != "" {
		t.Errorf("Expected no config source, got %s", cfg.Source)
	}
	if !filepath.IsAbs(cfg.Input.Model) {
		t.Errorf("Expected absolute model path, got %s", cfg.Input.Model)
	}
	if cfg.Analysis.OAuthKey != DefaultOAuthKey {
		t.Errorf("OAuthKey = %s, expected %s", cfg.Analysis.OAuthKey, DefaultOAuthKey)
	}
	if cfg.Analysis.Workers < 1 {
		t.Errorf("Expected positive worker count, got %d", cfg.Analysis.Workers)
	}
	if len(cfg.Output.Formats) != 1 || cfg.Output.Formats[0] != "json" {
		t.Errorf("Formats = %v, expected [json]", cfg.Output.Formats)
	}
	if !cfg.StreamsToStdout() {
		t.Error("Default config should stream JSON to stdout")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for an explicit config file that does not exist")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apk-recon.yaml")
	content := `
input:
  model: ./model.yaml
  resources: ./res
analysis:
  oauth_key: reddit_client_id
  workers: 2
output:
  dir: ./reports
  formats: [json, excel, sqlite]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source != path {
		t.Errorf("Source = %s, expected %s", cfg.Source, path)
	}
	if cfg.Analysis.OAuthKey != "reddit_client_id" {
		t.Errorf("OAuthKey = %s", cfg.Analysis.OAuthKey)
	}
	if cfg.Analysis.Workers != 2 {
		t.Errorf("Workers = %d, expected 2", cfg.Analysis.Workers)
	}
	if !cfg.WantsFormat("EXCEL") || !cfg.WantsFormat("sqlite") || cfg.WantsFormat("word") {
		t.Errorf("Unexpected formats: %v", cfg.Output.Formats)
	}
	if cfg.StreamsToStdout() {
		t.Error("Multi-format config must not stream to stdout")
	}
	if got := cfg.GetOutputPath(".xlsx"); filepath.Base(got) != "apk-recon-report.xlsx" {
		t.Errorf("GetOutputPath = %s", got)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			ExcludeDirs: []string{"**/.git/**", "**/build/**", "**/META-INF/**"},
		},
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"/out/resources/META-INF/MANIFEST.xml", true},
		{"/out/sources/.git/config", true},
		{"/out/build/tmp/A.java", true},
		{"/out/sources/com/example/Op.java", false},
		{"/out/resources/res/values/strings.xml", false},
	}

	for _, tt := range tests {
		if got := cfg.ShouldExclude(tt.path); got != tt.expected {
			t.Errorf("ShouldExclude(%s) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.yaml")
	if err := os.WriteFile(model, []byte("version: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	valid := func() *Config {
		return &Config{
			Input:    InputConfig{Model: model, Resources: dir},
			Analysis: AnalysisConfig{OAuthKey: DefaultOAuthKey, Workers: 1},
			Output:   OutputConfig{Dir: dir, FileName: "report", Formats: []string{"json"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing model", func(c *Config) { c.Input.Model = filepath.Join(dir, "nope") }, true},
		{"no resources nor apk", func(c *Config) { c.Input.Resources = "" }, true},
		{"resources is a file", func(c *Config) { c.Input.Resources = model }, true},
		{"empty oauth key", func(c *Config) { c.Analysis.OAuthKey = "" }, true},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, true},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"pdf"} }, true},
		{"empty file name", func(c *Config) { c.Output.FileName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureOutputDir(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Dir: filepath.Join(t.TempDir(), "a", "b")}}
	if err := cfg.EnsureOutputDir(); err != nil {
		t.Fatalf("EnsureOutputDir failed: %v", err)
	}
	if info, err := os.Stat(cfg.Output.Dir); err != nil || !info.IsDir() {
		t.Errorf("Output dir was not created: %v", err)
	}
}
