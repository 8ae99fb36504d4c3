package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/automation"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/scene"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/viz"
)

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sc, err := scene.Build(cfg.Scene, cfg)
	if err != nil {
		return err
	}
	experiment.AttachMetrics(sc.Simulation())

	exp, err := experiment.New(sc, experiment.Config{
		Frames:  cfg.Frames(),
		FrameDt: cfg.FrameDt(),
		Every:   every,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("running scene", "scene", cfg.Scene, "integrator", cfg.Integrator, "frames", cfg.Frames(), "step", cfg.Step)
	result, runErr := exp.Run(ctx)
	if runErr != nil {
		slog.Warn("run stopped early", "error", runErr, "frames", result.Frames)
	}

	meta := result.Metadata(cfg.Scene, cfg.Integrator, cfg.Step, cfg.FPS)
	meta.Preset = preset
	runID, err := st.Save(meta, result.Trajectory)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("contacts: %d sphere, %d ground\n", result.Contacts.Sphere, result.Contacts.Ground)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if chartPath != "" {
		idx := result.Trajectory.States[0].Len() - 1
		ys, err := result.Trajectory.Column(idx, "y")
		if err != nil {
			return err
		}
		chart := viz.Chart{
			Title:  fmt.Sprintf("%s: particle %d height", cfg.Scene, idx),
			XLabel: "time (s)",
			YLabel: "y",
			Series: []viz.Series{{Name: cfg.Integrator, X: result.Trajectory.Times, Y: ys}},
		}
		if err := viz.SaveChart(chart, chartPath, 8, 5); err != nil {
			return err
		}
		fmt.Printf("\nchart: %s\n", chartPath)
	}
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.Build(cfg.Scene, cfg)
	if err != nil {
		return err
	}
	return viz.Run(sc, cfg.FPS)
}

func parseKinds(args []string) ([]integrators.Kind, error) {
	if len(args) == 0 {
		return integrators.Kinds(), nil
	}
	kinds := make([]integrators.Kind, 0, len(args))
	for _, name := range args {
		k, err := integrators.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}

	fmt.Printf("circular orbit (step=%.4f, duration=%.2fs)\n\n", orbitStep, orbitTime)
	t := resultTable("INTEGRATOR", "STEPS", "MAX ERROR", "FINAL ERROR", "FINAL RADIUS")
	for _, k := range kinds {
		res, err := analysis.OrbitError(k, orbitStep, orbitTime)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		t.Row(k.String(),
			fmt.Sprint(res.Steps),
			fmt.Sprintf("%.3e", res.MaxError),
			fmt.Sprintf("%.3e", res.FinalError),
			fmt.Sprintf("%.9f", res.FinalRadius),
		)
	}
	fmt.Println(t)
	return nil
}

var (
	headerCell = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	bodyCell   = lipgloss.NewStyle().Padding(0, 1)
)

func resultTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		}).
		Headers(headers...)
}

func runConvergence(cmd *cobra.Command, args []string) error {
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}

	chart := viz.Chart{
		Title:  "global error vs step size",
		XLabel: "step",
		YLabel: "final error",
		LogX:   true,
		LogY:   true,
	}
	t := resultTable("INTEGRATOR", "ORDER", "HALVING RATIOS")
	for _, k := range kinds {
		res, err := analysis.Convergence(k, steps, orbitTime)
		if err != nil {
			return err
		}
		ratios := make([]string, 0, len(res.Steps)-1)
		for _, r := range res.Ratios() {
			ratios = append(ratios, fmt.Sprintf("%.2f", r))
		}
		t.Row(k.String(), fmt.Sprintf("%.2f", res.Order), strings.Join(ratios, " "))
		chart.Series = append(chart.Series, viz.Series{Name: k.String(), X: res.Steps, Y: res.Errors})
	}
	fmt.Println(t)

	if chartPath != "" {
		if err := viz.SaveChart(chart, chartPath, 6, 5); err != nil {
			return err
		}
		fmt.Printf("\nchart: %s\n", chartPath)
	}
	return nil
}

func analyzeScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.Build(cfg.Scene, cfg)
	if err != nil {
		return err
	}
	integ, err := integrators.NewByName(cfg.Integrator)
	if err != nil {
		return err
	}

	s := sc.Simulation()
	lambda := analysis.LyapunovExponent(s.System(), integ, s.State(), cfg.Step, cfg.Duration, 1e-8)
	fmt.Printf("scene: %s\n", cfg.Scene)
	fmt.Printf("integrator: %s\n", cfg.Integrator)
	fmt.Printf("lyapunov exponent: %.6f\n", lambda)
	if lambda > 0.01 {
		fmt.Println("trajectory is sensitive to initial conditions")
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, scenario, st)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tFRAMES\tSTEPS\tCONTACTS\tRUN ID")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n", i+1, r.Scene, r.Result.Frames, r.Result.Steps, r.Result.Contacts.Total(), r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Config:    cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMAX STRAIN\tENERGY DRIFT\tSTABILITY\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.3e\t%.3f\n", r.ParamValue, r.MaxStrain, r.EnergyDrift, r.Stability)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tSTEP\tINTEG\tFRAMES\tPARTICLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Step,
			run.Integrator,
			run.Frames,
			run.Particles,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	idx := particle
	if idx < 0 {
		idx = meta.Particles - 1
	}
	data, err := traj.Column(idx, field)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", traj.Len())

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("particle %d %s vs time", idx, field)),
	)
	fmt.Println(graph)

	if chartPath != "" {
		chart := viz.Chart{
			Title:  fmt.Sprintf("%s: particle %d", meta.Scene, idx),
			XLabel: "time (s)",
			YLabel: field,
			Series: []viz.Series{{Name: meta.Integrator, X: traj.Times, Y: data}},
		}
		if err := viz.SaveChart(chart, chartPath, 8, 5); err != nil {
			return err
		}
		fmt.Printf("\nchart: %s\n", chartPath)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	out := runID + ".json"
	if len(args) > 1 {
		out = args[1]
	}

	st := storage.New(dataDir)
	if err := st.ExportJSON(runID, out); err != nil {
		return err
	}
	abs, _ := filepath.Abs(out)
	fmt.Printf("exported to %s\n", abs)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
