package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/kinorrt/internal/config"
	"github.com/san-kum/kinorrt/internal/experiment"
	"github.com/san-kum/kinorrt/internal/export"
	"github.com/san-kum/kinorrt/internal/logging"
	"github.com/san-kum/kinorrt/internal/metrics"
	"github.com/san-kum/kinorrt/internal/optim"
	"github.com/san-kum/kinorrt/internal/planner"
	"github.com/san-kum/kinorrt/internal/storage"
	"github.com/san-kum/kinorrt/internal/viz"
)

const sweepTrials = 20

var (
	dataDir    string
	configFile string
	verbose    bool
	// Planner overrides
	stepSize float64
	maxDist  float64
	bias     float64
	budget   time.Duration
	seed     int64
	// Integration overrides
	method       string
	subintervals int
	// Benchmark
	trials  int
	workers int
	// Sweep
	sweepParams []string
	objective   string
	// Output
	noSave  bool
	format  string
	outPath string

	logger *zap.SugaredLogger
)

// main registers the commands and flags and executes the root command. It
// exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "kinorrt",
		Short:         "kinodynamic RRT planning lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cmd.Name() == "live" && !verbose {
				logger, err = logging.Quiet("kinorrt")
			} else {
				logger, err = logging.New("kinorrt", verbose)
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinorrt", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Float64Var(&stepSize, "step", config.DefaultStepSize, "propagation step")
	rootCmd.PersistentFlags().Float64Var(&maxDist, "max-dist", config.DefaultMaxDist, "extension distance cap")
	rootCmd.PersistentFlags().Float64Var(&bias, "bias", config.DefaultBias, "goal sampling probability")
	rootCmd.PersistentFlags().DurationVar(&budget, "budget", config.DefaultBudget, "planning time budget")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	rootCmd.PersistentFlags().StringVar(&method, "method", "trapezoid", "integration method (trapezoid, simpson, rk4, euler)")
	rootCmd.PersistentFlags().IntVar(&subintervals, "subintervals", 10, "quadrature subintervals")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "plan once and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlanner,
	}
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "run independent trials and report statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().IntVar(&trials, "trials", config.DefaultTrials, "number of trials")
	benchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent trials")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search over planner settings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScenario,
	}
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "swept setting as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&objective, "objective", "duration", "score to minimise (success, duration, tree, length)")
	sweepCmd.Flags().IntVar(&trials, "trials", sweepTrials, "trials per grid point")
	sweepCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent trials")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a saved run to png, svg or geojson",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&format, "format", "png", "output format (png, svg, geojson)")
	renderCmd.Flags().StringVar(&outPath, "out", "", "output file (default <data>/<run_id>/<run_id>.<format>)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "grow the tree in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE:  listScenarios,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [scenario] [path]",
		Short: "write a scenario as an editable yaml config",
		Args:  cobra.ExactArgs(2),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(runCmd, benchCmd, sweepCmd, listCmd, showCmd, renderCmd, liveCmd, scenariosCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers the configuration: preset, then config file, then
// flags the user actually set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown scenario: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("step") {
		cfg.Planner.StepSize = stepSize
	}
	if flags.Changed("max-dist") {
		cfg.Planner.MaxDist = maxDist
	}
	if flags.Changed("bias") {
		cfg.Planner.Bias = bias
	}
	if flags.Changed("budget") {
		cfg.Planner.Budget = budget
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("method") {
		cfg.Integration.Method = method
	}
	if flags.Changed("subintervals") {
		cfg.Integration.Subintervals = subintervals
	}
	if flags.Changed("trials") {
		cfg.Trials = trials
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, nil
}

func buildExperiment(cmd *cobra.Command, args []string) (*experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	sc, err := experiment.NewRegistry().Build(cfg)
	if err != nil {
		return nil, err
	}
	return experiment.New(sc, logger), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runPlanner(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd, args)
	if err != nil {
		return err
	}
	sc := exp.Scenario()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("planning %s (%s, %d obstacles)...\n", sc.Name, sc.Model.Kind(), len(sc.Env.Obstacles()))
	sol, err := exp.Run(ctx)
	if err != nil && sol == nil {
		return err
	}
	if err != nil {
		logger.Warnw("planning interrupted", "error", err)
	}

	printSolution(sol)

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(sc.Metadata(), sol, exp.Planner().Tree())
	if err != nil {
		return err
	}
	logger.Debugw("run saved", "run", runID, "dir", filepath.Join(dataDir, runID))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printSolution(sol *planner.Solution) {
	status := "goal reached"
	if !sol.Success {
		status = "no path within budget"
	}
	fmt.Printf("%s in %v\n", status, sol.Elapsed.Round(time.Microsecond))
	fmt.Printf("iterations: %d\n", sol.Iterations)
	fmt.Printf("tree size:  %d\n", sol.TreeSize)
	if sol.Success {
		fmt.Printf("path:       %d states, length %.4f\n", len(sol.Path), sol.PathLength())
	}
}

func benchScenario(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd, args)
	if err != nil {
		return err
	}
	cfg := exp.Scenario().Config

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s: %d trials, %d workers, budget %v\n", cfg.Name, cfg.Trials, cfg.Workers, cfg.Planner.Budget)
	start := time.Now()
	results, benchErr := exp.Bench(ctx, cfg.Trials, cfg.Workers)
	if benchErr != nil && len(results) == 0 {
		return benchErr
	}
	if benchErr != nil {
		logger.Warnw("benchmark interrupted", "scenario", cfg.Name, "finished", len(results), "error", benchErr)
		fmt.Printf("interrupted: %d of %d trials finished\n", len(results), cfg.Trials)
	} else {
		logger.Infow("benchmark finished", "scenario", cfg.Name, "wall", time.Since(start))
	}

	ms := metrics.Standard()
	for _, sol := range results {
		for _, m := range ms {
			m.Observe(sol)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nMETRIC\tVALUE")
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%s\n", m.Name(), formatValue(m.Value()))
	}
	sum := metrics.Summarize(results)
	fmt.Fprintf(w, "successes\t%d/%d\n", sum.Successes, sum.Trials)
	fmt.Fprintf(w, "tree_size_std\t%s\n", formatValue(sum.StdTreeSize))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 1 {
		graph := asciigraph.Plot(metrics.TreeSizes(results),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("tree size per trial"),
		)
		fmt.Printf("\n%s\n", graph)
	}
	return benchErr
}

func sweepScenario(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (settings: %v)", optim.ParamNames())
	}
	params := make([]optim.Param, len(sweepParams))
	for i, arg := range sweepParams {
		p, err := optim.ParseParam(arg)
		if err != nil {
			return err
		}
		params[i] = p
	}
	obj, err := optim.GetObjective(objective)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("trials") && configFile == "" {
		cfg.Trials = sweepTrials
	}

	g, err := optim.NewGridSearch(experiment.NewRegistry(), logger, params...)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %s: %d trials per point, objective %s\n", cfg.Name, cfg.Trials, objective)
	results, best, err := g.Search(ctx, cfg, obj)
	if err != nil {
		logger.Warnw("sweep incomplete", "error", err)
	}
	if len(results) == 0 {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "\n"
	for _, p := range params {
		header += strings.ToUpper(p.Name) + "\t"
	}
	fmt.Fprintln(w, header+"SUCCESS\tDURATION\tNODES\tLENGTH\tSCORE")
	for i, r := range results {
		row := ""
		for _, p := range params {
			row += fmt.Sprintf("%g\t", r.Params[p.Name])
		}
		mark := ""
		if i == best {
			mark = " *"
		}
		fmt.Fprintf(w, "%s%.2f\t%v\t%.1f\t%s\t%s%s\n", row,
			r.Summary.SuccessRate,
			r.Summary.MeanDuration.Round(time.Microsecond),
			r.Summary.MeanTreeSize,
			formatValue(r.Summary.MeanPathLength),
			formatValue(r.Score),
			mark,
		)
	}
	return w.Flush()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
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
	fmt.Fprintln(w, "ID\tMODEL\tLAYOUT\tTIME\tSUCCESS\tELAPSED\tNODES\tLENGTH")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%v\t%d\t%.3f\n",
			run.ID,
			run.Model,
			run.Layout,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Success,
			run.Elapsed.Round(time.Millisecond),
			run.TreeSize,
			run.PathLength,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	nodes, err := st.LoadTree(runID)
	if err != nil {
		return err
	}
	path, err := st.LoadPath(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run:        %s\n", meta.ID)
	fmt.Printf("scenario:   %s (%s, %s layout)\n", meta.Scenario, meta.Model, meta.Layout)
	fmt.Printf("planner:    step %.3f, max dist %.3f, bias %.3f, budget %v, seed %d\n",
		meta.StepSize, meta.MaxDist, meta.Bias, meta.Budget, meta.Seed)
	fmt.Printf("method:     %s (%d subintervals)\n", meta.Method, meta.Subintervals)
	fmt.Printf("success:    %t after %d iterations, %v\n", meta.Success, meta.Iterations, meta.Elapsed.Round(time.Microsecond))
	fmt.Printf("tree size:  %d\n", meta.TreeSize)
	if meta.Success {
		fmt.Printf("path:       %d states, length %.4f\n", len(states), meta.PathLength)
	}
	fmt.Println()

	scene := viz.SceneFromRun(meta, nodes, path)
	fmt.Println(viz.Render(scene, 60, 24).Styled())

	if len(states) < 2 {
		return nil
	}
	for i, name := range stateCaptions(meta.StateNames, len(states[0])) {
		data := make([]float64, len(states))
		for j, s := range states {
			data[j] = s[i]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(name+" along path"),
		)
		fmt.Printf("%s\n\n", graph)
	}
	return nil
}

func stateCaptions(names []string, dim int) []string {
	out := make([]string, dim)
	for i := range out {
		if i < len(names) {
			out[i] = names[i]
		} else {
			out[i] = fmt.Sprintf("x%d", i)
		}
	}
	return out
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	nodes, err := st.LoadTree(runID)
	if err != nil {
		return err
	}
	path, err := st.LoadPath(runID)
	if err != nil {
		return err
	}

	out := outPath
	if out == "" {
		out = filepath.Join(dataDir, runID, runID+f.Ext())
	}
	if err := export.WriteFile(viz.SceneFromRun(meta, nodes, path), f, out); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment(cmd, args)
	if err != nil {
		return err
	}
	if err := exp.Setup(); err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLive(exp.Planner(), exp.Scenario().Name), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tLAYOUT\tSTART\tGOAL")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, cfg.Model, cfg.Layout, formatVector(cfg.Start), formatVector(cfg.Goal))
	}
	return w.Flush()
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.3g", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	if err := config.Save(args[1], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}
