package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/credence/internal/generator"
	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scale"
	"github.com/verte-zerg/credence/internal/scoring"
	"github.com/verte-zerg/credence/internal/stats"
	"github.com/verte-zerg/credence/internal/statsui"
	"github.com/verte-zerg/credence/internal/store"
	"github.com/verte-zerg/credence/internal/weights"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate voting rounds and print the scoring report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			switch opts.format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("--format must be one of %s, %s, %s", formatText, formatJSON, formatYAML)
			}
			res, holder, err := simulate(cmd.Context(), sc, opts.sim, slog.Default())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := writeResult(out, opts.format, res, opts.viewConfig()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if opts.dump {
				if err := holder.WriteAll(cmd.ErrOrStderr()); err != nil {
					return fmt.Errorf("failed to dump weights: %w", err)
				}
			}
			return nil
		},
	}
	addSimFlags(cmd, opts)
	addViewFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the weight holder state to stderr")
	return cmd
}

func newViewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Simulate voting rounds and browse the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			res, _, err := simulate(cmd.Context(), sc, opts.sim, slog.Default())
			if err != nil {
				return err
			}
			program := tea.NewProgram(statsui.NewModel(res, opts.viewConfig()), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run viewer: %w", err)
			}
			return nil
		},
	}
	addSimFlags(cmd, opts)
	addViewFlags(cmd, opts)
	return cmd
}

// simulate generates a population, stores every round of votes and scores
// them in order.
func simulate(ctx context.Context, sc scale.Scale, cfg model.SimConfig, logger *slog.Logger) (scoring.Result, *weights.Holder, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	policy, err := scoring.ParsePolicy(cfg.Policy, cfg.BlendAlpha)
	if err != nil {
		return scoring.Result{}, nil, err
	}

	st, err := store.Open()
	if err != nil {
		return scoring.Result{}, nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close store", "error", cerr)
		}
	}()

	gen := generator.New(sc, cfg.Seed)
	readers, reporters := gen.Population(cfg)
	if err := st.InsertReaders(ctx, readers); err != nil {
		return scoring.Result{}, nil, fmt.Errorf("failed to store readers: %w", err)
	}
	if err := st.InsertReporters(ctx, reporters); err != nil {
		return scoring.Result{}, nil, fmt.Errorf("failed to store reporters: %w", err)
	}
	for round := 0; round < cfg.Rounds; round++ {
		votes := gen.Votes(round, readers, reporters, cfg.VotesPerRound, cfg.Noise)
		if err := st.InsertVotes(ctx, votes); err != nil {
			return scoring.Result{}, nil, fmt.Errorf("failed to store votes for round %d: %w", round, err)
		}
	}
	logger.Debug("population ready", "readers", len(readers), "reporters", len(reporters), "rounds", cfg.Rounds)

	holder, err := weights.FromReaders(readers, sc.Mean(), cfg.Window)
	if err != nil {
		return scoring.Result{}, nil, fmt.Errorf("failed to create weight holder: %w", err)
	}
	engine, err := scoring.NewEngine(ctx, st, holder, sc, policy, logger)
	if err != nil {
		return scoring.Result{}, nil, err
	}
	res, err := engine.Run(ctx)
	if err != nil {
		return scoring.Result{}, nil, err
	}
	return res, holder, nil
}

func writeResult(w io.Writer, format string, res scoring.Result, view model.ViewConfig) error {
	switch strings.ToLower(format) {
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(res)
	case formatYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(res); err != nil {
			return err
		}
		return e.Close()
	default:
		return stats.BuildReport(res, view).Write(w, 0, false)
	}
}
