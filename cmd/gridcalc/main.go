// Package main provides the CLI entry point for gridcalc.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/gridcalc/internal/config"
	"github.com/ukaji3/gridcalc/internal/logging"
	"github.com/ukaji3/gridcalc/internal/metrics"
	"github.com/ukaji3/gridcalc/pkg/gridcalc"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/output"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/script"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/selection"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/xlsx"
)

var (
	configPath string
	outputPath string
	format     string
	pretty     bool
	verbosity  int
	quiet      bool
	area       string
	inputPath  string
	exportPath string
	sheetName  string
	assigns    []string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridcalc",
		Short: "Evaluate spreadsheet formulas and replay edit scripts",
		Long: `gridcalc evaluates single-function spreadsheet formulas, keeps
dependent cells up to date and renders the result as JSON or YAML.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./gridcalc.yaml or ~/.config/gridcalc/gridcalc.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Output format: json or yaml (default from config)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all logs")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "Sheet name for workbook import and export (default: sheet.name from config, else the first sheet)")

	runCmd := &cobra.Command{
		Use:   "run [script.yaml]",
		Short: "Replay an edit script and print the resulting sheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	runCmd.Flags().StringVar(&inputPath, "input", "", "Workbook to load before running the script")
	runCmd.Flags().StringVar(&exportPath, "export", "", "Write the resulting sheet to this xlsx file")
	runCmd.Flags().StringVar(&area, "area", "", "Only print cells inside this range, e.g. A1:D10")

	evalCmd := &cobra.Command{
		Use:   "eval [formula]",
		Short: "Evaluate one formula against cells given with --set",
		Args:  cobra.ExactArgs(1),
		RunE:  evalFormula,
	}
	evalCmd.Flags().StringArrayVar(&assigns, "set", nil, "Cell assignment ADDRESS=INPUT (repeatable)")

	convertCmd := &cobra.Command{
		Use:   "convert [input.xlsx]",
		Short: "Render a workbook sheet as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  convertWorkbook,
	}
	convertCmd.Flags().StringVar(&area, "area", "", "Only print cells inside this range, e.g. A1:D10")

	rootCmd.AddCommand(runCmd, evalCmd, convertCmd)
	return rootCmd
}

// setup loads configuration and applies command-line overrides.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if pretty {
		cfg.Output.Pretty = true
	}
	if sheetName != "" {
		cfg.Sheet.Name = sheetName
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level := logging.LevelFromVerbosity(logging.LevelFromString(cfg.Logging.Level), verbosity, quiet)
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	return cfg, logger, nil
}

func newEngine(cfg *config.Config, logger *slog.Logger) (*gridcalc.Engine, *metrics.Recorder) {
	opts := gridcalc.Options{
		Logger:       logger,
		HistoryLimit: &cfg.History.Limit,
	}
	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
		opts.Recorder = rec
	}
	return gridcalc.New(opts), rec
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	s, err := script.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}

	engine, rec := newEngine(cfg, logger)
	name := cfg.Sheet.Name
	if name == "" {
		name = xlsx.DefaultSheetName
	}
	if inputPath != "" {
		data, sheet, err := xlsx.Import(inputPath, xlsx.Options{SheetName: cfg.Sheet.Name})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if _, err := engine.Load(data); err != nil {
			return err
		}
		name = sheet
		logger.Info("workbook imported", "path", inputPath, "sheet", sheet, "cells", len(data))
	}

	snap, runErr := script.Run(engine, s)
	if runErr != nil {
		logger.Error("script failed", "script", args[0], "error", runErr)
	}

	if exportPath != "" && runErr == nil {
		if err := xlsx.Export(snap.Data, exportPath, xlsx.Options{SheetName: name}); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	if err := emit(cmd, cfg, output.Render(snap.Data, name, snap.Version)); err != nil {
		return err
	}
	if rec != nil {
		if err := rec.WriteText(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	return runErr
}

func evalFormula(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	engine, _ := newEngine(cfg, logger)
	for _, assign := range assigns {
		address, input, ok := strings.Cut(assign, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: expected ADDRESS=INPUT", assign)
		}
		if _, err := engine.CommitEdit(address, input); err != nil {
			return err
		}
	}

	text := args[0]
	if _, err := formula.Compile(text); err != nil && formula.IsFormula(text) {
		logger.Warn("formula does not compile", "formula", text, "error", err)
	}
	value := formula.Evaluate(text, engine.Data())

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	_, err = fmt.Fprintln(w, value.String())
	return err
}

func convertWorkbook(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	data, sheet, err := xlsx.Import(args[0], xlsx.Options{SheetName: cfg.Sheet.Name})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	logger.Debug("workbook imported", "path", args[0], "sheet", sheet, "cells", len(data))

	return emit(cmd, cfg, output.Render(data, sheet, 0))
}

// emit serializes the sheet, or the --area part of it, to the output.
func emit(cmd *cobra.Command, cfg *config.Config, sheet models.SheetData) error {
	var v any = sheet
	if area != "" {
		ranges, err := selection.ParseRanges(area)
		if err != nil {
			return fmt.Errorf("invalid --area: %w", err)
		}
		v = output.Clip(sheet, models.AreaFromRange(ranges[0]))
	}

	data, err := output.Marshal(v, cfg.Output.Format, cfg.Output.Pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.Output.Format == "json" {
		_, err = fmt.Fprintln(w)
	}
	return err
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if outputPath == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to write output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
