package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a3tai/mcp-sds-extractor/internal/config"
	"github.com/a3tai/mcp-sds-extractor/internal/descriptions"
	"github.com/a3tai/mcp-sds-extractor/internal/pdf"
	"github.com/a3tai/mcp-sds-extractor/internal/pipeline"
	"github.com/a3tai/mcp-sds-extractor/internal/sds"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *pipeline.Service
	mcpServer *server.MCPServer
	paths     pathGuard
	logger    *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *pipeline.Service, logger *zap.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("pipeline service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		paths:     newPathGuard(cfg.PDFDirectory, cfg.AllowOutsideDir),
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	checks := make([]string, 0, len(sds.DuplicateChecks()))
	for _, c := range sds.DuplicateChecks() {
		checks = append(checks, string(c))
	}

	processBatchTool := mcp.NewTool(
		descriptions.ToolProcessBatch,
		mcp.WithDescription(descriptions.ProcessBatchDescription),
		mcp.WithString("inputs",
			mcp.Description("PDF files or directories, separated by commas or newlines (uses default directory if empty)"),
		),
		mcp.WithString("existing",
			mcp.Description("Optional .xlsx or .csv table the new entries are appended to"),
		),
		mcp.WithString("output",
			mcp.Description("Output table path, .xlsx or .csv (uses the configured output if empty)"),
		),
		mcp.WithBoolean("merge_duplicates",
			mcp.Description("Merge extracted entries sharing a CAS number"),
		),
		mcp.WithString("duplicate_check",
			mcp.Description("Skip new entries already present in the existing table"),
			mcp.Enum(checks...),
		),
	)
	s.mcpServer.AddTool(processBatchTool, s.handleProcessBatch)

	extractFileTool := mcp.NewTool(
		descriptions.ToolExtractFile,
		mcp.WithDescription(descriptions.ExtractFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF or .txt file"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	listFilesTool := mcp.NewTool(
		descriptions.ToolListFiles,
		mcp.WithDescription(descriptions.ListFilesDescription),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(listFilesTool, s.handleListFiles)

	serverInfoTool := mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.ServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleProcessBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	opts := s.config.Options()
	if v, ok := args["merge_duplicates"].(bool); ok {
		opts.MergeDuplicates = v
	}
	if v, ok := args["duplicate_check"].(string); ok && v != "" {
		check, err := sds.ParseDuplicateCheck(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.DuplicateCheck = check
	}

	inputs := splitList(stringArg(args, "inputs"))
	if len(inputs) == 0 {
		inputs = []string{s.config.PDFDirectory}
	}

	output := stringArg(args, "output")
	if output == "" {
		output = s.config.OutputPath
	}

	req := pipeline.Request{Options: opts}
	var err error
	if req.Inputs, err = s.paths.resolveAll(inputs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.Existing, err = s.paths.resolve(stringArg(args, "existing")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.Output, err = s.paths.resolve(output); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Run(ctx, req)
	if err != nil {
		s.logger.Warn("mcp: batch failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatBatchResult(result)), nil
}

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err = s.paths.resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.service.Inspect(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatRecord(filepath.Base(path), &record)), nil
}

func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := s.paths.resolve(stringArg(request.GetArguments(), "directory"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if directory == "" {
		directory = s.config.PDFDirectory
	}

	info, err := os.Stat(directory)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access directory: %v", err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("path is not a directory: %s", directory)), nil
	}

	// An empty directory lists nothing rather than failing.
	files, err := pipeline.ExpandInputs([]string{directory})
	if err != nil && !errors.Is(err, sds.ErrInvalidRequest) {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats := pdf.NewValidator(s.config.MaxFileSize).Summarize(files)
	return mcp.NewToolResultText(s.formatFileList(directory, stats)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

func (s *Server) formatBatchResult(result *pipeline.Result) string {
	st := result.Stats
	text := fmt.Sprintf("✅ %s\n", result.Message)
	text += fmt.Sprintf("🆔 Batch: %s\n", result.BatchID)
	text += fmt.Sprintf("📄 Output: %s\n", result.Output)
	text += fmt.Sprintf("📊 Files: %d total, %d processed, %d skipped\n",
		st.TotalFiles, st.ProcessedFiles, len(st.Skipped))
	text += fmt.Sprintf("📋 Entries: %d new, %d in output\n", st.NewEntriesAdded, st.TotalEntriesInOutput)

	if len(st.Skipped) > 0 {
		text += "\n⚠️  Skipped Files:\n"
		for _, skipped := range st.Skipped {
			text += fmt.Sprintf("  • %s\n", skipped)
		}
	}

	if raw, err := json.MarshalIndent(st, "", "  "); err == nil {
		text += "\nStats:\n" + string(raw) + "\n"
	}

	return text
}

func (s *Server) formatRecord(name string, record *sds.Record) string {
	text := fmt.Sprintf("🧪 Extracted fields for %s\n\n", name)

	found := 0
	for _, c := range sds.Columns() {
		f := record.Get(c)
		if f.Available() {
			found++
		}
		text += fmt.Sprintf("  %s: %s\n", c, f)
	}

	text += fmt.Sprintf("\n%d of %d fields found\n", found, len(sds.Columns()))
	return text
}

func (s *Server) formatFileList(directory string, stats *pdf.FileSetStats) string {
	text := fmt.Sprintf("📁 Directory: %s\n", directory)
	if len(stats.Files) == 0 && len(stats.Rejected) == 0 {
		return text + "📂 No PDF files found\n"
	}

	text += fmt.Sprintf("📂 Found %d PDF files:\n", len(stats.Files))
	for i, f := range stats.Files {
		if i >= 50 {
			text += fmt.Sprintf("   ... and %d more files\n", len(stats.Files)-50)
			break
		}
		text += fmt.Sprintf("  %d. %s (%d bytes)\n", i+1, f.Path, f.Size)
	}

	if len(stats.Files) > 0 {
		text += fmt.Sprintf("\n📏 Total Size: %d bytes, Average: %d bytes\n", stats.TotalSize, stats.AverageSize)
		text += fmt.Sprintf("   Largest: %s (%d bytes)\n", filepath.Base(stats.Largest.Path), stats.Largest.Size)
		text += fmt.Sprintf("   Smallest: %s (%d bytes)\n", filepath.Base(stats.Smallest.Path), stats.Smallest.Size)
	}

	if len(stats.Rejected) > 0 {
		names := make([]string, 0, len(stats.Rejected))
		for name := range stats.Rejected {
			names = append(names, name)
		}
		sort.Strings(names)

		text += "\n⚠️  A batch run would reject:\n"
		for _, name := range names {
			text += fmt.Sprintf("  • %s: %s\n", name, stats.Rejected[name])
		}
	}
	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", s.config.PDFDirectory)
	text += fmt.Sprintf("📄 Default Output: %s\n", s.config.OutputPath)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🔁 Merge Duplicates: %t, Duplicate Check: %s\n\n", s.config.MergeDuplicates, s.config.DuplicateCheck)

	text += "📊 Output Columns:\n"
	for i, c := range sds.Columns() {
		text += fmt.Sprintf("  %d. %s\n", i+1, c)
	}

	text += "\n🔍 Duplicate Check Policies:\n"
	for _, c := range sds.DuplicateChecks() {
		text += fmt.Sprintf("  • %s\n", c)
	}

	text += "\n🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		first, _, _ := strings.Cut(descriptions.GetToolDescription(name), "\n")
		text += fmt.Sprintf("  • %s: %s\n", name, first)
	}

	text += fmt.Sprintf("\nMissing values are written as %q.\n", sds.NDA)
	return text
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// splitList splits a comma or newline separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("mcp: starting stdio mode", zap.String("directory", s.config.PDFDirectory))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events until ctx is
// cancelled.
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mcp: starting SSE server", zap.String("address", addr))
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("mcp: shutting down SSE server")
	if err := sse.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
