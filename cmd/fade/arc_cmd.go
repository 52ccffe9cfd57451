package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"
)

var arcSVG bool

var arcCmd = &cobra.Command{
	Use:   "arc [proportion]",
	Short: "Print the countdown wedge for a remaining proportion",
	Long: `Prints the SVG path data of the countdown wedge drawn in the configured
indicator circle. 1 is a full circle, 0 draws nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runArc,
}

func init() {
	arcCmd.Flags().BoolVar(&arcSVG, "svg", false, "Print a standalone SVG document instead of path data")
}

func runArc(cmd *cobra.Command, args []string) error {
	p, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("proportion must be a number, got %q", args[0])
	}

	out := cfg.Indicator.Path(p)
	if arcSVG {
		out = cfg.Indicator.SVG(p)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
