// Package main provides the CLI entrypoint for catplot.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/catplot/internal/chart"
	"github.com/verte-zerg/catplot/internal/config"
	"github.com/verte-zerg/catplot/internal/dataset"
	"github.com/verte-zerg/catplot/internal/failure"
	"github.com/verte-zerg/catplot/internal/report"
	"github.com/verte-zerg/catplot/internal/stats"
	"github.com/verte-zerg/catplot/internal/store"
)

var (
	runSource  string
	runOut     string
	runDPI     int
	runQuiet   bool
	runVerbose bool

	corrSource string
	corrTop    int

	importDB   string
	importName string

	datasetsDB string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "catplot",
		Short:         "Render catalyst experiment charts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReportCmd,
	}

	rootCmd.Flags().StringVar(&runSource, "source", report.DefaultSource, "records file (.json, .csv, .xlsx or .db)")
	rootCmd.Flags().StringVar(&runOut, "out", report.DefaultOutDir, "output directory for charts")
	rootCmd.Flags().IntVar(&runDPI, "dpi", chart.DefaultDPI, "raster resolution of saved charts")
	rootCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "only log warnings and skip the summary")
	rootCmd.PersistentFlags().BoolVarP(&runVerbose, "verbose", "v", false, "log debug details")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCorrCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newDatasetsCmd())

	return rootCmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	setupLogger(runVerbose, runQuiet)
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "source", &runSource, fileCfg.Report.Source)
	applyStringConfig(cmd, "out", &runOut, fileCfg.Report.Out)
	applyIntConfig(cmd, "dpi", &runDPI, fileCfg.Report.DPI)
	if runDPI <= 0 {
		return fmt.Errorf("--dpi must be > 0")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := report.Run(ctx, report.Options{
		Source: runSource,
		OutDir: runOut,
		DPI:    runDPI,
	})
	if err != nil {
		log.Error().Int("written", len(res.Artifacts)).Str("kind", failure.KindOf(err).String()).Msg("report run aborted")
		return err
	}
	if runQuiet {
		return nil
	}
	return printSummary(cmd.OutOrStdout(), res)
}

func printSummary(w io.Writer, res report.Result) error {
	useColor := stats.UseColor(w)
	if _, err := fmt.Fprintf(w, "Wrote %d charts\n", len(res.Artifacts)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, path := range res.Artifacts {
		if _, err := fmt.Fprintf(w, "  %s\n", path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTotals(w, "Emissions Reduction by Catalyst Type", res.Emissions, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderMatrix(w, res.Correlation, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCorrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corr",
		Short: "Print the correlation matrix of the numeric columns",
		Args:  cobra.NoArgs,
		RunE:  runCorrCmd,
	}
	cmd.Flags().StringVar(&corrSource, "source", report.DefaultSource, "records file (.json, .csv, .xlsx or .db)")
	cmd.Flags().IntVar(&corrTop, "top", 5, "number of strongest pairs to list")
	return cmd
}

func runCorrCmd(cmd *cobra.Command, _ []string) error {
	setupLogger(runVerbose, false)
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "source", &corrSource, fileCfg.Report.Source)

	m, err := report.LoadCorrelation(cmd.Context(), corrSource)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	useColor := stats.UseColor(out)
	if err := stats.RenderMatrix(out, m, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderPairs(out, m, corrTop, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a records file in the SQLite record store",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importDB, "db", "", "SQLite database path (default: XDG data dir)")
	cmd.Flags().StringVar(&importName, "name", "", "dataset name (default: file name)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	setupLogger(runVerbose, false)
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if importDB == "" {
		importDB = config.DefaultDBPath()
	}
	applyStringConfig(cmd, "db", &importDB, fileCfg.Report.DB)

	source := args[0]
	if format, err := dataset.DetectFormat(source); err == nil && format == dataset.FormatSQLite {
		return fmt.Errorf("source is already a SQLite store: %s", source)
	}
	name := importName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	table, err := dataset.Load(cmd.Context(), source)
	if err != nil {
		return err
	}
	st, err := store.Open(importDB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	id, err := st.InsertTable(cmd.Context(), name, table, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store records: %w", err)
	}
	log.Info().Int64("id", id).Str("name", name).Int("rows", table.Len()).Str("db", importDB).Msg("imported records")
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows as %q into %s\n", table.Len(), name, importDB); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List datasets in the SQLite record store",
		Args:  cobra.NoArgs,
		RunE:  runDatasetsCmd,
	}
	cmd.Flags().StringVar(&datasetsDB, "db", "", "SQLite database path (default: XDG data dir)")
	return cmd
}

func runDatasetsCmd(cmd *cobra.Command, _ []string) error {
	setupLogger(runVerbose, false)
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if datasetsDB == "" {
		datasetsDB = config.DefaultDBPath()
	}
	applyStringConfig(cmd, "db", &datasetsDB, fileCfg.Report.DB)

	st, err := store.Open(datasetsDB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	infos, err := st.ListDatasets(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		if _, err := fmt.Fprintln(out, "No datasets stored."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			strconv.FormatInt(info.ID, 10),
			info.Name,
			info.ImportedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(info.Rows),
		})
	}
	if err := stats.RenderTable(out, "Datasets in "+datasetsDB, []string{"ID", "Name", "Imported", "Rows"}, rows, []int{0, 3}, stats.UseColor(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func setupLogger(verbose, quiet bool) {
	level := log.InfoLevel
	switch {
	case verbose:
		level = log.DebugLevel
	case quiet:
		level = log.WarnLevel
	}
	log.DefaultLogger = log.Logger{
		Level: level,
		Writer: &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: stats.UseColor(os.Stderr),
		},
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# catplot configuration
# Uncomment a value to enable it. CLI flags override config values.
# Chart titles, labels, palettes and file names are fixed.

[report]
# source = %q   # Records file (.json, .csv, .xlsx or .db)
# out = %q                   # Output directory for charts
# dpi = %d                      # Raster resolution of saved charts
# db = %q  # SQLite store used by "catplot import"
`,
		report.DefaultSource,
		report.DefaultOutDir,
		chart.DefaultDPI,
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
