package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/credence/internal/scale"
)

func newScaleCmd() *cobra.Command {
	var minVal, maxVal float64
	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Inspect the rating scale",
	}
	cmd.PersistentFlags().Float64Var(&minVal, "min", scale.DefaultMin, "lowest score on the scale")
	cmd.PersistentFlags().Float64Var(&maxVal, "max", scale.DefaultMax, "highest score on the scale")

	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "Print the whole-number scores on the scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := scale.New(minVal, maxVal)
			if err != nil {
				return err
			}
			values, err := sc.Range()
			if err != nil {
				return err
			}
			parts := make([]string, len(values))
			for i, v := range values {
				parts[i] = strconv.Itoa(v)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", sc, strings.Join(parts, " "))
			return err
		},
	}

	zCmd := &cobra.Command{
		Use:   "z [--] <z-score>...",
		Short: "Map z-scores onto the scale (use -- before negative values)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scale.New(minVal, maxVal)
			if err != nil {
				return err
			}
			for _, arg := range args {
				z, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid z-score %q: %w", arg, err)
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %.3f\n", arg, sc.ToValue(z)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	scoreCmd := &cobra.Command{
		Use:   "score [--] <score>...",
		Short: "Map scores inside the scale to z-scores",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scale.New(minVal, maxVal)
			if err != nil {
				return err
			}
			for _, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid score %q: %w", arg, err)
				}
				if !sc.Contains(v) {
					return fmt.Errorf("score %s is outside %s", arg, sc)
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %+.3f\n", arg, sc.ZScore(v)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(rangeCmd, zCmd, scoreCmd)
	return cmd
}
