package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/coupledmode/internal/analysis"
	"github.com/san-kum/coupledmode/internal/config"
	"github.com/san-kum/coupledmode/internal/coupling"
	"github.com/san-kum/coupledmode/internal/export"
	"github.com/san-kum/coupledmode/internal/storage"
	"github.com/san-kum/coupledmode/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	// run parameters
	preset      string
	configFile  string
	name        string
	baseEnergy  string
	otherEnergy string
	lossIncr    string
	initial     float64
	increment   float64
	steps       int
	workers     int

	track bool

	csvOut     string
	jsonOut    string
	svgDir     string
	plotWidth  int
	plotHeight int
	svgWidth   int
	svgHeight  int
)

var errNoRuns = errors.New("no runs found")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coupledmode",
		Short:         "coupled-mode eigenvalue sweeps for two-mode cavities",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".coupledmode", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "sweep the coupling and store the eigen decompositions",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	defaults := config.DefaultConfig()
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&name, "name", defaults.Name, "run name")
	runCmd.Flags().StringVar(&baseEnergy, "base", defaults.BaseEnergy.String(), "base mode energy, e.g. 1.371-0.00009i")
	runCmd.Flags().StringVar(&otherEnergy, "other", defaults.OtherEnergy.String(), "other mode energy")
	runCmd.Flags().StringVar(&lossIncr, "loss", defaults.LossIncrement.String(), "loss increment added to the base mode")
	runCmd.Flags().Float64Var(&initial, "initial", defaults.InitialCoupling, "initial coupling")
	runCmd.Flags().Float64Var(&increment, "increment", defaults.CouplingIncrement, "coupling increment per step")
	runCmd.Flags().IntVar(&steps, "steps", defaults.StepCount, "number of coupling steps")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot eigenvalue branches and Re(Hopf) coefficients (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&track, "track", false, "reorder branches by continuity")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "chart width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "chart height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "eigenvalue splitting and exceptional point analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the result table as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOut, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write branch, linewidth and mode-fraction charts as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgDir, "output", "o", ".", "output directory")
	exportSVGCmd.Flags().BoolVar(&track, "track", false, "reorder branches by continuity")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 500, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore [run_id]",
		Short: "step through a run interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exploreRun,
	}
	exploreCmd.Flags().BoolVar(&track, "track", false, "start with branch tracking on")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, exploreCmd)
	return rootCmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// resolveConfig layers the config file, then the preset, then explicitly set
// flags over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		if p.Workers == 0 {
			p.Workers = cfg.Workers
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = name
	}
	for _, f := range []struct {
		flag  string
		value string
		dst   *config.Complex
	}{
		{"base", baseEnergy, &cfg.BaseEnergy},
		{"other", otherEnergy, &cfg.OtherEnergy},
		{"loss", lossIncr, &cfg.LossIncrement},
	} {
		if !flags.Changed(f.flag) {
			continue
		}
		v, err := config.ParseComplex(f.value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", f.flag, err)
		}
		*f.dst = v
	}
	if flags.Changed("initial") {
		cfg.InitialCoupling = initial
	}
	if flags.Changed("increment") {
		cfg.CouplingIncrement = increment
	}
	if flags.Changed("steps") {
		cfg.StepCount = steps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	params := cfg.Params()
	logger.Debug("starting sweep",
		zap.String("name", cfg.Name),
		zap.Int("steps", params.StepCount),
		zap.Float64("initial_coupling", params.InitialCoupling),
		zap.Float64("coupling_increment", params.CouplingIncrement),
		zap.Int("workers", cfg.Workers),
	)

	fmt.Fprintf(out, "running %s sweep...\n", cfg.Name)
	start := time.Now()

	records, err := coupling.RunParallel(cmd.Context(), params, cfg.Workers)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	summary := analysis.Summarize(params, records, cfg.GapTolerance)

	runID, err := st.Save(cfg, records, summary, elapsed)
	if err != nil {
		return err
	}
	logger.Info("sweep stored", zap.String("id", runID), zap.Duration("elapsed", elapsed))

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", len(records))
	fmt.Fprintln(out, "\nsummary:")
	printSummary(out, summary)
	return nil
}

func printSummary(out io.Writer, s analysis.Summary) {
	fmt.Fprintf(out, "  coupling range: %.7g .. %.7g\n", s.FirstCoupling, s.LastCoupling)
	fmt.Fprintf(out, "  predicted exceptional point: %.7g", s.PredictedEP)
	if s.EPInRange {
		fmt.Fprintln(out, " (in range)")
	} else {
		fmt.Fprintln(out, " (outside range)")
	}
	fmt.Fprintf(out, "  min Re splitting: %.4e at C=%.7g\n", s.MinRealGap, s.MinRealGapCoupling)
	fmt.Fprintf(out, "  max Re splitting: %.4e\n", s.MaxRealGap)
	if s.CoalescenceFound {
		fmt.Fprintf(out, "  Re coalescence at: C=%.7g\n", s.Coalescence)
	}
	fmt.Fprintf(out, "  branch swaps: %d\n", s.BranchSwaps)
}

// latestRun returns args[0], or the newest stored run when no id is given.
func latestRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	runs, err := st.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errNoRuns
	}
	return runs[0].ID, nil
}

func loadRun(args []string) (*storage.RunMetadata, []coupling.Record, error) {
	st := storage.New(dataDir, logger)
	runID, err := latestRun(st, args)
	if err != nil {
		return nil, nil, err
	}

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("run %s has no records", runID)
	}
	return meta, records, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, errNoRuns)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tC0\tDC\tLOSS\tEP\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.6g\t%.3g\t%s\t%.6g\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Config.InitialCoupling,
			run.Config.CouplingIncrement,
			run.Config.LossIncrement,
			run.Summary.PredictedEP,
			run.Elapsed.Round(time.Microsecond),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args)
	if err != nil {
		return err
	}
	if track {
		records = coupling.TrackBranches(records)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "steps: %d\n\n", len(records))

	report := viz.Report(coupling.Extract(records), viz.ChartOptions{Width: plotWidth, Height: plotHeight, Precision: 6})
	if report == "" {
		return fmt.Errorf("run %s has too few steps to plot", meta.ID)
	}
	fmt.Fprint(out, report)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args)
	if err != nil {
		return err
	}

	summary := analysis.Summarize(meta.Config.Params(), records, meta.Config.GapTolerance)
	points := analysis.Splitting(records)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "splitting analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "energy gap: %s\n\n", config.Complex(records[0].EnergyGap))
	printSummary(out, summary)

	fmt.Fprintln(out, "\n  • Re gap   · Im gap")
	fmt.Fprint(out, analysis.SplittingToASCII(points, 60, 12))
	return nil
}

// createOutput opens path for writing, or returns stdout when path is empty.
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) (err error) {
	meta, records, err := loadRun(args)
	if err != nil {
		return err
	}

	w, closeFn, err := createOutput(cmd, csvOut)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); err == nil {
			err = cerr
		}
	}()

	logger.Debug("exporting csv", zap.String("id", meta.ID), zap.Int("records", len(records)))
	return storage.WriteTable(w, records)
}

func exportJSON(cmd *cobra.Command, args []string) (err error) {
	meta, records, err := loadRun(args)
	if err != nil {
		return err
	}

	w, closeFn, err := createOutput(cmd, jsonOut)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); err == nil {
			err = cerr
		}
	}()

	return export.WriteJSON(w, meta, records)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args)
	if err != nil {
		return err
	}
	if track {
		records = coupling.TrackBranches(records)
	}
	if err := os.MkdirAll(svgDir, 0755); err != nil {
		return err
	}

	s := coupling.Extract(records)
	charts := []struct {
		suffix string
		svg    string
	}{
		{"branches", export.BranchSVG(s, svgWidth, svgHeight)},
		{"linewidths", export.LinewidthSVG(s, svgWidth, svgHeight)},
		{"modefractions", export.ModeFractionSVG(s, svgWidth, svgHeight)},
	}

	out := cmd.OutOrStdout()
	for _, c := range charts {
		if c.svg == "" {
			return fmt.Errorf("run %s has too few steps to chart", meta.ID)
		}
		path := filepath.Join(svgDir, fmt.Sprintf("%s_%s.svg", meta.ID, c.suffix))
		if err := os.WriteFile(path, []byte(c.svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "presets:")
	for _, presetName := range config.ListPresets() {
		p := config.GetPreset(presetName)
		fmt.Fprintf(out, "  %-12s C0=%-10.6g dC=%-8.3g steps=%-4d loss=%s\n",
			presetName, p.InitialCoupling, p.CouplingIncrement, p.StepCount, p.LossIncrement)
	}
	return nil
}

func exploreRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewExplorer(meta.ID, records, track), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
