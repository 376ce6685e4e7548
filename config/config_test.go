package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `
pages:
  - url: https://example.com/report
    label: report
  - url: https://example.com/archive
    paginate:
      param: page
      from: 1
      to: 3
fetcher: http
fetch_timeout_seconds: 10
filter:
  enabled: true
  min_value: 1
  max_value: 1000
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if len(cfg.Pages) != 2 {
		t.Fatalf("len(Pages) = %d, want 2", len(cfg.Pages))
	}
	if cfg.Pages[0].Label != "report" {
		t.Errorf("Pages[0].Label = %q", cfg.Pages[0].Label)
	}
	if cfg.Pages[1].Paginate == nil || cfg.Pages[1].Paginate.To != 3 {
		t.Errorf("Pages[1].Paginate = %+v", cfg.Pages[1].Paginate)
	}
	if cfg.Fetcher != "http" {
		t.Errorf("Fetcher = %q, want http", cfg.Fetcher)
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("FetchTimeout() = %v, want 10s", cfg.FetchTimeout())
	}
	if !cfg.Filter.Enabled || cfg.Filter.MaxValue != 1000 {
		t.Errorf("Filter = %+v", cfg.Filter)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			"valid",
			Config{Pages: []PageConfig{{URL: "https://example.com"}}},
			false,
		},
		{
			"no pages",
			Config{},
			true,
		},
		{
			"page without url",
			Config{Pages: []PageConfig{{Label: "x"}}},
			true,
		},
		{
			"paginate without param",
			Config{Pages: []PageConfig{{URL: "https://example.com", Paginate: &PaginateConfig{From: 1, To: 2}}}},
			true,
		},
		{
			"inverted paginate range",
			Config{Pages: []PageConfig{{URL: "https://example.com", Paginate: &PaginateConfig{Param: "p", From: 5, To: 1}}}},
			true,
		},
		{
			"unknown fetcher",
			Config{Pages: []PageConfig{{URL: "https://example.com"}}, Fetcher: "carrier-pigeon"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchTimeoutDefault(t *testing.T) {
	cfg := &Config{}
	if cfg.FetchTimeout() != DefaultFetchTimeout {
		t.Errorf("FetchTimeout() = %v, want %v", cfg.FetchTimeout(), DefaultFetchTimeout)
	}
}
