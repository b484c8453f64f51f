package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-sds-extractor/internal/sds"
	"github.com/a3tai/mcp-sds-extractor/internal/table"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultOutput      = "extracted_msds.xlsx"
	DefaultWorkers     = 4

	// EnvPrefix prefixes every environment variable, e.g. SDS_WORKERS.
	EnvPrefix = "SDS"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Flag and environment keys.
const (
	KeyMode            = "mode"
	KeyHost            = "host"
	KeyPort            = "port"
	KeyDir             = "dir"
	KeyOutput          = "output"
	KeyLogLevel        = "loglevel"
	KeyMaxFileSize     = "maxfilesize"
	KeyWorkers         = "workers"
	KeyMergeDuplicates = "merge-duplicates"
	KeyDuplicateCheck  = "duplicate-check"
	KeySheet           = "sheet"
	KeyAllowOutside    = "allow-outside-dir"
)

// Config holds all configuration for the SDS extractor
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Input and output
	PDFDirectory string
	OutputPath   string
	Sheet        string
	MaxFileSize  int64 // Maximum PDF file size in bytes

	// AllowOutsideDir lets MCP tool calls name paths outside PDFDirectory.
	AllowOutsideDir bool

	// Consolidation
	Workers         int
	MergeDuplicates bool
	DuplicateCheck  string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:           ModeStdio, // stdio is what MCP clients launch
		Host:           DefaultHost,
		Port:           DefaultPort,
		PDFDirectory:   currentDir,
		OutputPath:     DefaultOutput,
		Sheet:          table.DefaultSheet,
		MaxFileSize:    DefaultMaxFileSize,
		Workers:        DefaultWorkers,
		DuplicateCheck: string(sds.CheckNone),
		Version:        "1.0.0",
		ServerName:     "mcp-sds-extractor",
		LogLevel:       DefaultLogLevel,
	}
}

// DefineFlags registers every configuration flag on fs with cfg's values as
// defaults.
func DefineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String(KeyMode, cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP (SSE) server")
	fs.String(KeyHost, cfg.Host, "Server host address (server mode only)")
	fs.Int(KeyPort, cfg.Port, "Server port (server mode only)")
	fs.String(KeyDir, cfg.PDFDirectory, "Directory containing SDS PDF files")
	fs.String(KeyOutput, cfg.OutputPath, "Output table (.xlsx or .csv)")
	fs.String(KeySheet, cfg.Sheet, "Worksheet name for .xlsx output")
	fs.String(KeyLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64(KeyMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.Int(KeyWorkers, cfg.Workers, "Number of documents processed concurrently")
	fs.Bool(KeyMergeDuplicates, cfg.MergeDuplicates, "Merge extracted entries sharing a CAS number")
	fs.String(KeyDuplicateCheck, cfg.DuplicateCheck, "Skip entries already in the existing table: none, cas, description or both")
	fs.Bool(KeyAllowOutside, cfg.AllowOutsideDir, "Allow MCP tools to access paths outside the PDF directory")
}

// Load reads the configuration from fs (already parsed) and SDS_*
// environment variables. Flags set on the command line win over the
// environment, which wins over flag defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	v := newViper(cfg)
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	populateConfigFromViper(v, cfg)

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newViper creates a private viper instance with environment binding and
// defaults.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMode, cfg.Mode)
	v.SetDefault(KeyHost, cfg.Host)
	v.SetDefault(KeyPort, cfg.Port)
	v.SetDefault(KeyDir, cfg.PDFDirectory)
	v.SetDefault(KeyOutput, cfg.OutputPath)
	v.SetDefault(KeySheet, cfg.Sheet)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)
	v.SetDefault(KeyMaxFileSize, cfg.MaxFileSize)
	v.SetDefault(KeyWorkers, cfg.Workers)
	v.SetDefault(KeyMergeDuplicates, cfg.MergeDuplicates)
	v.SetDefault(KeyDuplicateCheck, cfg.DuplicateCheck)
	v.SetDefault(KeyAllowOutside, cfg.AllowOutsideDir)
	return v
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString(KeyMode)
	cfg.Host = v.GetString(KeyHost)
	cfg.Port = v.GetInt(KeyPort)
	cfg.PDFDirectory = v.GetString(KeyDir)
	cfg.OutputPath = v.GetString(KeyOutput)
	cfg.Sheet = v.GetString(KeySheet)
	cfg.LogLevel = v.GetString(KeyLogLevel)
	cfg.MaxFileSize = v.GetInt64(KeyMaxFileSize)
	cfg.Workers = v.GetInt(KeyWorkers)
	cfg.MergeDuplicates = v.GetBool(KeyMergeDuplicates)
	cfg.DuplicateCheck = v.GetString(KeyDuplicateCheck)
	cfg.AllowOutsideDir = v.GetBool(KeyAllowOutside)
}

// EnvHelp lists the environment variables understood by Load.
func EnvHelp() string {
	keys := []string{
		KeyMode, KeyHost, KeyPort, KeyDir, KeyOutput, KeySheet, KeyLogLevel,
		KeyMaxFileSize, KeyWorkers, KeyMergeDuplicates, KeyDuplicateCheck, KeyAllowOutside,
	}
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s_%s\n", EnvPrefix, strings.ToUpper(strings.ReplaceAll(k, "-", "_")))
	}
	return b.String()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters in server mode
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Check if PDF directory exists, create if it doesn't
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}
	if !table.Supported(c.OutputPath) {
		return fmt.Errorf("output must be an .xlsx or .csv file: %s", c.OutputPath)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if _, err := sds.ParseDuplicateCheck(c.DuplicateCheck); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Options returns the consolidation options derived from the configuration.
func (c *Config) Options() sds.Options {
	check, _ := sds.ParseDuplicateCheck(c.DuplicateCheck)
	return sds.Options{
		MergeDuplicates: c.MergeDuplicates,
		DuplicateCheck:  check,
		Workers:         c.Workers,
	}
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, Output: %s, LogLevel: %s, "+
		"MaxFileSize: %d, Workers: %d, MergeDuplicates: %t, DuplicateCheck: %s}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.OutputPath, c.LogLevel,
		c.MaxFileSize, c.Workers, c.MergeDuplicates, c.DuplicateCheck)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
