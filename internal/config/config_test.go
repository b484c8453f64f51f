package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a3tai/mcp-sds-extractor/internal/sds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "stdio", cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mcp-sds-extractor", cfg.ServerName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, "extracted_msds.xlsx", cfg.OutputPath)
	assert.Equal(t, "SDS_Data", cfg.Sheet)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.MergeDuplicates)
	assert.Equal(t, "none", cfg.DuplicateCheck)

	currentDir, _ := os.Getwd()
	assert.Equal(t, currentDir, cfg.PDFDirectory)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PDFDirectory = t.TempDir()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid stdio", func(c *Config) {}, false},
		{"valid server", func(c *Config) { c.Mode = ModeServer }, false},
		{"invalid mode", func(c *Config) { c.Mode = "http" }, true},
		{"port too low in server mode", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, true},
		{"port too high in server mode", func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, true},
		{"port ignored in stdio mode", func(c *Config) { c.Port = 0 }, false},
		{"empty directory", func(c *Config) { c.PDFDirectory = "" }, true},
		{"empty output", func(c *Config) { c.OutputPath = "" }, true},
		{"csv output", func(c *Config) { c.OutputPath = "out.csv" }, false},
		{"unsupported output", func(c *Config) { c.OutputPath = "out.xls" }, true},
		{"zero file size", func(c *Config) { c.MaxFileSize = 0 }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"duplicate check both", func(c *Config) { c.DuplicateCheck = "both" }, false},
		{"unknown duplicate check", func(c *Config) { c.DuplicateCheck = "name" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"upper case log level", func(c *Config) { c.LogLevel = "DEBUG" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidateCreatesDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.PDFDirectory = filepath.Join(cfg.PDFDirectory, "nested", "pdfs")

	require.NoError(t, cfg.Validate())
	info, err := os.Stat(cfg.PDFDirectory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeDuplicates = true
	cfg.DuplicateCheck = "CAS"
	cfg.Workers = 2

	assert.Equal(t, sds.Options{MergeDuplicates: true, DuplicateCheck: sds.CheckCAS, Workers: 2}, cfg.Options())
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{Mode: ModeServer, Host: "192.168.1.1", Port: 9090, LogLevel: "debug"}
	assert.Equal(t, "192.168.1.1:9090", cfg.Address())
	assert.True(t, cfg.IsDebug())
	assert.True(t, cfg.IsServerMode())
	assert.False(t, cfg.IsStdioMode())

	s := cfg.String()
	assert.Contains(t, s, "Mode: server")
	assert.Contains(t, s, "Port: 9090")
}
