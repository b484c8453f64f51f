package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/mcp-sds-extractor/internal/config"
	"github.com/a3tai/mcp-sds-extractor/internal/mcp"
	"github.com/a3tai/mcp-sds-extractor/internal/pdf"
	"github.com/a3tai/mcp-sds-extractor/internal/pipeline"
	"github.com/a3tai/mcp-sds-extractor/internal/sds"
	"github.com/a3tai/mcp-sds-extractor/internal/table"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// app carries the dependencies built once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *pipeline.Service
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sds-extract",
		Short: "Extract safety data from SDS/MSDS PDFs into a spreadsheet",
		Long: "sds-extract reads safety data sheets, extracts key physical, hazard and toxicity\n" +
			"properties and writes one consolidated .xlsx or .csv table. Run without a\n" +
			"subcommand to serve the extractor over MCP.\n\nEnvironment variables:\n" + config.EnvHelp(),
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")
	config.DefineFlags(root.PersistentFlags(), config.DefaultConfig())

	root.AddCommand(
		newServeCommand(a),
		newProcessCommand(a),
		newFieldsCommand(a),
	)
	return root
}

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the extractor over MCP (stdio or SSE)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func newProcessCommand(a *app) *cobra.Command {
	var (
		existing string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "process [file or directory...]",
		Short: "Extract a batch of PDFs into the output table",
		Long:  "Extract every given PDF, or every PDF under the given directories, and write\nthe consolidated table to --output. Defaults to --dir when no input is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.cfg.PDFDirectory}
			}

			result, err := a.service.Run(cmd.Context(), pipeline.Request{
				Inputs:   args,
				Existing: existing,
				Output:   a.cfg.OutputPath,
				Options:  a.cfg.Options(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintln(out, result.Message)
			for _, skipped := range result.Stats.Skipped {
				fmt.Fprintf(out, "skipped: %s\n", skipped)
			}
			fmt.Fprintf(out, "output: %s (%d entries)\n", result.Output, result.Stats.TotalEntriesInOutput)
			return nil
		},
	}

	cmd.Flags().StringVar(&existing, "existing", "", "Existing .xlsx or .csv table to append to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newFieldsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <file>",
		Short: "Print the fields extracted from one PDF or .txt file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.service.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range sds.Columns() {
				fmt.Fprintf(out, "%s: %s\n", c, record.Get(c))
			}
			return nil
		},
	}
}

// setup loads configuration and wires the pipeline.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("main: configuration loaded", zap.String("config", cfg.String()))

	a.cfg = cfg
	a.logger = logger
	a.service = pipeline.NewService(
		pdf.NewTextExtractor(logger, pdf.DefaultEngines()...),
		table.NewFileStore(cfg.Sheet),
		pdf.NewValidator(cfg.MaxFileSize),
		logger,
	)
	return nil
}

func (a *app) serve(ctx context.Context) error {
	server, err := mcp.NewServer(a.cfg, a.service, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

// newLogger writes to stderr in every mode so that stdout stays free for the
// MCP protocol and command output.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if !cfg.IsServerMode() {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

func versionString() string {
	return fmt.Sprintf("%s (built %s, commit %s, %s)", version, buildTime, gitCommit, runtime.Version())
}
