package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/ropesim/internal/analysis"
	"github.com/san-kum/ropesim/internal/automation"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/export"
	"github.com/san-kum/ropesim/internal/optim"
	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/storage"
	"github.com/san-kum/ropesim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	frames     int
	seed       int64
	segments   int
	gravity    float64
	turbulence float64
	// Recording interval for run
	recordEvery int
	// Plot and analyze columns
	columns []int
	column  int
	// render output
	outFile string
	// ensemble size
	numRuns int
	// live view
	watch     bool
	themeName string
	// tune grid
	axes   []string
	metric string

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ropesim",
		Short:        "verlet rope showcase engine and writings api",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ropesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "keep every nth frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot state columns of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntSliceVar(&columns, "columns", nil, "state columns to plot (default: first rope's end point)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "sway frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&column, "column", -1, "state column (default: first rope's end x)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	renderCmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "simulate and write the final frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderScene,
	}
	addSceneFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: <scene>.svg)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload tuning when --config changes")
	liveCmd.Flags().StringVar(&themeName, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSCENE\tSEGMENTS\tGRAVITY\tSTIFFNESS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", name, p.Scene, p.Segments, p.Physics.Gravity, p.Physics.Stiffness)
			}
			return w.Flush()
		},
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scene]",
		Short: "run consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeded runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [sweep.yaml]",
		Short: "sweep one tuning parameter",
		Long:  "sweep one tuning parameter; parameters: " + strings.Join(automation.ParamNames(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search tuning values that minimize a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&axes, "axis", nil, "grid axis as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "stretch_error", "metric to minimize")
	_ = tuneCmd.MarkFlagRequired("axis")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the writings api",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, renderCmd, liveCmd, presetsCmd, ensembleCmd, sweepCmd, tuneCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: config seed or clock)")
	cmd.Flags().IntVar(&segments, "segments", config.DefaultSegments, "segments per rope")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravity per frame")
	cmd.Flags().Float64Var(&turbulence, "turbulence", 0, "turbulence amplitude")
}

// resolveConfig layers preset, then config file, then explicit flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("segments") {
		cfg.Segments = segments
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("turbulence") {
		cfg.Physics.Turbulence = turbulence
	}
	switch {
	case flags.Changed("seed"):
		cfg.Seed = seed
	case cfg.Seed == 0:
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s simulation (seed %d)...\n", cfg.Scene, cfg.Seed)
	start := time.Now()

	result, err := exp.Run(ctx, recordEvery)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	tuning := exp.Simulator().Tuning()
	runID, err := st.Save(storage.RunInfo{
		Scene:    cfg.Scene,
		Seed:     cfg.Seed,
		Frames:   result.FramesTaken,
		FrameMs:  tuning.FrameMs,
		Segments: cfg.Segments,
		Ropes:    len(exp.Scene().Entities),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesTaken)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tROPES\tSEGMENTS\tSTRETCH")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.4f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Ropes,
			run.Segments,
			run.Metrics["stretch_error"],
		)
	}

	return w.Flush()
}

// endColumns are the x and y columns of the first rope's free end.
func endColumns(meta *storage.RunMetadata) []int {
	return []int{2 * meta.Segments, 2*meta.Segments + 1}
}

// columnCaption names a flattened column, given ropes of segments+1 points.
func columnCaption(meta *storage.RunMetadata, col int) string {
	perRope := 2 * (meta.Segments + 1)
	if perRope <= 0 {
		return fmt.Sprintf("x%d", col)
	}
	rope, rem := col/perRope, col%perRope
	axis := "x"
	if rem%2 == 1 {
		axis = "y"
	}
	return fmt.Sprintf("rope %d point %d %s", rope, rem/2, axis)
}

func loadRun(runID string) (*storage.RunMetadata, []sim.State, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, states, times, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	cols := columns
	if len(cols) == 0 {
		cols = endColumns(meta)
	}
	const maxPlots = 6
	if len(cols) > maxPlots {
		cols = cols[:maxPlots]
	}

	for _, col := range cols {
		if col < 0 || col >= len(states[0]) {
			return fmt.Errorf("column %d out of range [0,%d)", col, len(states[0]))
		}
		graph := asciigraph.Plot(storage.Column(states, col),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(columnCaption(meta, col)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	col := column
	if col < 0 {
		col = endColumns(meta)[0]
	}
	if col >= len(states[0]) {
		return fmt.Errorf("column %d out of range [0,%d)", col, len(states[0]))
	}

	sampleMs := meta.FrameMs
	if len(times) > 1 {
		sampleMs = times[1] - times[0]
	}

	data := storage.Column(states, col)
	ps := analysis.PowerSpectrum(data)

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	plotData := ps
	if len(ps) >= 8 {
		plotData = ps[:len(ps)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+columnCaption(meta, col)+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	hz, _ := analysis.Dominant(data, sampleMs)
	fmt.Printf("dominant frequency: %.3f hz\n", hz)
	if hz > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/hz)
	}
	if idx := analysis.Settle(data, 1.0); idx >= 0 && idx < len(times) {
		fmt.Printf("settled within 1 unit after: %.0f ms\n", times[idx])
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, states, times)
}

func renderScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := exp.Run(ctx, 0); err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = cfg.Scene + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteSVG(f, exp.Scene(), export.DefaultOptions()); err != nil {
		return err
	}
	logger.Info("rendered scene", zap.String("scene", cfg.Scene), zap.String("path", path), zap.Int("frames", cfg.Frames))
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	ens := sim.NewEnsemble(tuning, reg.Factory(cfg), reg.DefaultMetrics, numRuns, cfg.Seed, logger)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d %s simulations...\n", numRuns, cfg.Scene)
	start := time.Now()
	results, err := ens.Run(ctx, sim.RunConfig{Frames: cfg.Frames})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTRETCH\tLENGTH\tSWING\tEND_DRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.5f\t%.4f\t%.3f\t%.3g\n",
			cfg.Seed+int64(i),
			r.Metrics["stretch_error"],
			r.Metrics["length_ratio"],
			r.Metrics["anchor_swing"],
			r.Metrics["end_drift"],
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep, err := automation.LoadSweep(args[0])
	if err != nil {
		return err
	}

	base, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, sweep, base, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTRETCH\tLENGTH\tSWING\tSTATUS\n", strings.ToUpper(sweep.Param))
	for _, r := range results {
		status := "ok"
		if !r.Stable {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%.4f\t%.5f\t%.4f\t%.3f\t%s\n",
			r.Value,
			r.Metrics["stretch_error"],
			r.Metrics["length_ratio"],
			r.Metrics["anchor_swing"],
			status,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.Stats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, a := range axes {
		name, vals, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch(names, ranges, logger)
	best, value, evaluated, err := g.Search(ctx, cfg, experiment.NewRegistry(), metric)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d grid points on %s (seed %d)\n", evaluated, cfg.Scene, cfg.Seed)
	fmt.Printf("best %s: %.6f\n", metric, value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}
