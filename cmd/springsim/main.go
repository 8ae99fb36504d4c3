package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/scene"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	integrator string
	step       float64
	fps        float64
	duration   float64
	every      int
	chartPath  string

	particle int
	field    string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	orbitStep float64
	orbitTime float64
	steps     []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "springsim",
		Short:         "mass-spring particle simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 1, "record every n-th frame")
	runCmd.Flags().StringVar(&chartPath, "chart", "", "write a PNG chart of particle height to this path")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the circular orbit",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&orbitStep, "step", 0.01, "fixed step size")
	compareCmd.Flags().Float64Var(&orbitTime, "time", 2*math.Pi, "duration")

	convergenceCmd := &cobra.Command{
		Use:   "convergence [integrator...]",
		Short: "measure the order of accuracy on the circular orbit",
		RunE:  runConvergence,
	}
	convergenceCmd.Flags().Float64SliceVar(&steps, "steps", []float64{0.1, 0.05, 0.025, 0.0125}, "step sizes")
	convergenceCmd.Flags().Float64Var(&orbitTime, "time", 2*math.Pi, "duration")
	convergenceCmd.Flags().StringVar(&chartPath, "chart", "", "write a log-log PNG chart to this path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [scene]",
		Short: "estimate the largest Lyapunov exponent of a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeScene,
	}
	addSimFlags(analyzeCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml scenario of scheduled scene commands",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "drag", "parameter name (drag, gravity_y, wind)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "n", 5, "number of values")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particle, "particle", -1, "particle index (default: last)")
	plotCmd.Flags().StringVar(&field, "field", "y", "x, y, z, vx, vy or vz")
	plotCmd.Flags().StringVar(&chartPath, "chart", "", "also write a PNG chart to this path")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [output]",
		Short: "export run data to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.List() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, convergenceCmd, analyzeCmd, scriptCmd, sweepCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, scenesCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, trapezoidal, rk4)")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "fixed sub-step size")
	cmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "frames per second")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig resolves the configuration for a scene command. Precedence,
// lowest first: defaults, preset, config file, explicitly set flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		if configFile == "" {
			cfg = p
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
