// Package main provides the CLI entrypoint for credence.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/credence/internal/config"
	"github.com/verte-zerg/credence/internal/logging"
	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scale"
	"github.com/verte-zerg/credence/internal/scoring"
	"github.com/verte-zerg/credence/internal/weights"
)

const (
	defaultReaders       = 200
	defaultReporters     = 50
	defaultRounds        = 20
	defaultVotesPerRound = 5
	defaultNoise         = 0.3
	defaultAdversarial   = 0.1
	defaultCareless      = 0.1
	defaultCurveWindow   = 1
	defaultTop           = 15
	defaultLogLevel      = "info"
)

// options holds the flags shared by run and view.
type options struct {
	configPath string
	logLevel   string

	scaleMin float64
	scaleMax float64
	sim      model.SimConfig

	format      string
	dump        bool
	curveWindow int
	top         int
	readers     string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "credence",
		Short:         "Reader trust weighting for crowd credibility scores",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/credence/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newViewCmd(opts))
	rootCmd.AddCommand(newScaleCmd())
	rootCmd.AddCommand(newConfigCmd(opts))
	return rootCmd
}

func addSimFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.Float64Var(&opts.scaleMin, "min", scale.DefaultMin, "lowest score on the scale")
	f.Float64Var(&opts.scaleMax, "max", scale.DefaultMax, "highest score on the scale")
	f.IntVar(&opts.sim.Readers, "readers", defaultReaders, "number of readers")
	f.IntVar(&opts.sim.Reporters, "reporters", defaultReporters, "number of reporters")
	f.IntVar(&opts.sim.Rounds, "rounds", defaultRounds, "number of voting rounds")
	f.IntVar(&opts.sim.VotesPerRound, "votes-per-round", defaultVotesPerRound, "reporters each reader scores per round")
	f.IntVar(&opts.sim.Window, "window", weights.DefaultWindow, "past weights kept per reader")
	f.Int64Var(&opts.sim.Seed, "seed", 0, "random seed (0 uses the clock)")
	f.Float64Var(&opts.sim.Noise, "noise", defaultNoise, "honest vote spread in scale sigmas")
	f.Float64Var(&opts.sim.Adversarial, "adversarial", defaultAdversarial, "share of adversarial readers (0-1)")
	f.Float64Var(&opts.sim.Careless, "careless", defaultCareless, "share of careless readers (0-1)")
	f.StringVar(&opts.sim.Policy, "policy", scoring.PolicyWeighted, "weighting policy (simple, weighted, blend)")
	f.Float64Var(&opts.sim.BlendAlpha, "blend-alpha", scoring.DefaultBlendAlpha, "weighted share for the blend policy (0-1)")
}

func addViewFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.IntVar(&opts.curveWindow, "curve-window", defaultCurveWindow, "moving average window for curves")
	f.IntVar(&opts.top, "top", defaultTop, "rows shown in reader and reporter tables (0 for all)")
	f.StringVar(&opts.readers, "reader", "", "comma-separated reader ids for weight curves")
}

// resolve merges the config file under the flags and validates the result.
func (o *options) resolve(cmd *cobra.Command) (scale.Scale, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return scale.Scale{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "min", &o.scaleMin, fileCfg.Scale.Min)
	applyFloatConfig(cmd, "max", &o.scaleMax, fileCfg.Scale.Max)

	sim := fileCfg.Simulation
	applyIntConfig(cmd, "readers", &o.sim.Readers, sim.Readers)
	applyIntConfig(cmd, "reporters", &o.sim.Reporters, sim.Reporters)
	applyIntConfig(cmd, "rounds", &o.sim.Rounds, sim.Rounds)
	applyIntConfig(cmd, "votes-per-round", &o.sim.VotesPerRound, sim.VotesPerRound)
	applyIntConfig(cmd, "window", &o.sim.Window, sim.Window)
	applyInt64Config(cmd, "seed", &o.sim.Seed, sim.Seed)
	applyFloatConfig(cmd, "noise", &o.sim.Noise, sim.Noise)
	applyFloatConfig(cmd, "adversarial", &o.sim.Adversarial, sim.Adversarial)
	applyFloatConfig(cmd, "careless", &o.sim.Careless, sim.Careless)
	applyStringConfig(cmd, "policy", &o.sim.Policy, sim.Policy)
	applyFloatConfig(cmd, "blend-alpha", &o.sim.BlendAlpha, sim.BlendAlpha)
	applyStringConfig(cmd, "log-level", &o.logLevel, fileCfg.Log.Level)

	logging.SetDefaultCLILogger(o.logLevel)

	sc, err := scale.New(o.scaleMin, o.scaleMax)
	if err != nil {
		return scale.Scale{}, fmt.Errorf("--min/--max: %w", err)
	}
	if err := validateSimConfig(o.sim); err != nil {
		return scale.Scale{}, err
	}
	return sc, nil
}

func (o *options) viewConfig() model.ViewConfig {
	var readers []string
	for _, id := range strings.Split(o.readers, ",") {
		if id = strings.TrimSpace(id); id != "" {
			readers = append(readers, id)
		}
	}
	return model.ViewConfig{CurveWindow: o.curveWindow, Readers: readers, Top: o.top}
}

func validateSimConfig(cfg model.SimConfig) error {
	if cfg.Readers <= 0 {
		return fmt.Errorf("--readers must be > 0")
	}
	if cfg.Reporters <= 0 {
		return fmt.Errorf("--reporters must be > 0")
	}
	if cfg.Rounds < 0 {
		return fmt.Errorf("--rounds must be >= 0")
	}
	if cfg.VotesPerRound <= 0 {
		return fmt.Errorf("--votes-per-round must be > 0")
	}
	if cfg.Noise < 0 {
		return fmt.Errorf("--noise must be >= 0")
	}
	if cfg.Adversarial < 0 || cfg.Adversarial > 1 {
		return fmt.Errorf("--adversarial must be between 0 and 1")
	}
	if cfg.Careless < 0 || cfg.Careless > 1 {
		return fmt.Errorf("--careless must be between 0 and 1")
	}
	if cfg.Adversarial+cfg.Careless > 1 {
		return fmt.Errorf("--adversarial plus --careless must not exceed 1")
	}
	if _, err := scoring.ParsePolicy(cfg.Policy, cfg.BlendAlpha); err != nil {
		return fmt.Errorf("--policy: %w", err)
	}
	return nil
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := ensureConfigFile(path); err != nil {
				return err
			}
			return openEditor(path)
		},
	}
}

func ensureConfigFile(path string) error {
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
	return nil
}

func openEditor(path string) error {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# credence configuration
# Uncomment a value to enable it. CLI flags override config values.

[scale]
# min = %.1f               # Lowest score
# max = %.1f              # Highest score

[simulation]
# readers = %d            # Number of readers
# reporters = %d           # Number of reporters
# rounds = %d              # Voting rounds
# votes-per-round = %d      # Reporters each reader scores per round
# window = %d              # Past weights kept per reader
# seed = 0                # Random seed (0 uses the clock)
# noise = %.2f            # Honest vote spread in scale sigmas
# adversarial = %.2f      # Share of adversarial readers (0-1)
# careless = %.2f         # Share of careless readers (0-1)
# policy = %q     # simple, weighted or blend
# blend-alpha = %.2f      # Weighted share for the blend policy

[log]
# level = %q          # debug, info, warn, error
`,
		scale.DefaultMin,
		scale.DefaultMax,
		defaultReaders,
		defaultReporters,
		defaultRounds,
		defaultVotesPerRound,
		weights.DefaultWindow,
		defaultNoise,
		defaultAdversarial,
		defaultCareless,
		scoring.PolicyWeighted,
		scoring.DefaultBlendAlpha,
		defaultLogLevel,
	)
}
