package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/cellnoise/noise"
)

const evalLongDesc string = `Print the ranked feature distances at one point.

Negative coordinates must follow "--" so they are not read as flags.

Examples:
  worley eval 0.5 0.5 --reference
  worley eval 2.5 3.25 --seed 24301 --metric chebyshev --all
  worley eval --rank 1 -- -1.5 0.25`

const evalShortDesc string = "Evaluate Worley noise at a point"

type evalCommander struct {
	seed      uint64
	reference bool
	rank      int
	metric    string
	radius    int
	all       bool
}

func newEvalCmd() *cobra.Command {
	cmder := &evalCommander{}

	cmd := &cobra.Command{
		Use:   "eval X Y",
		Short: evalShortDesc,
		Long:  evalLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			return cmder.run(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().Uint64Var(&cmder.seed, "seed", 24301, "Permutation table seed")
	cmd.Flags().BoolVar(&cmder.reference, "reference", false, "Use Ken Perlin's reference table instead of --seed")
	cmd.Flags().IntVar(&cmder.rank, "rank", 0, "Distance rank, 0 = nearest")
	cmd.Flags().StringVar(&cmder.metric, "metric", "euclidean", "Distance metric: euclidean, manhattan, chebyshev")
	cmd.Flags().IntVar(&cmder.radius, "radius", noise.DefaultRadius, "Neighbourhood radius in cells")
	cmd.Flags().BoolVar(&cmder.all, "all", false, "Print every ranked result")
	cmd.MarkFlagsMutuallyExclusive("seed", "reference")
	cmd.MarkFlagsMutuallyExclusive("rank", "all")

	return cmd
}

func parsePoint(xs, ys string) (noise.Vec2, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return noise.Vec2{}, fmt.Errorf("parsing X: %w", err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return noise.Vec2{}, fmt.Errorf("parsing Y: %w", err)
	}
	return noise.Vec2{X: x, Y: y}, nil
}

func (c *evalCommander) run(w io.Writer, p noise.Vec2) error {
	metric, err := noise.ParseMetric(c.metric)
	if err != nil {
		return err
	}
	if c.radius < 1 {
		return fmt.Errorf("--radius must be at least 1, got %d", c.radius)
	}

	e := noise.NewEvaluator(buildTable(c.seed, c.reference), noise.Options{
		Metric: metric,
		Radius: c.radius,
	})
	if c.rank < 0 || c.rank >= e.Size() {
		return fmt.Errorf("--rank %d outside [0,%d)", c.rank, e.Size())
	}

	if !c.all {
		writeResult(w, c.rank, e.Evaluate(p, c.rank))
		return nil
	}
	for i, r := range e.Rank(p) {
		writeResult(w, i, r)
	}
	return nil
}

func writeResult(w io.Writer, rank int, r noise.Result) {
	fmt.Fprintf(w, "rank=%d distance=%v position=(%v, %v) cell=(%d, %d) hash=%d\n",
		rank, r.Distance, r.Position.X, r.Position.Y, r.Cell.X, r.Cell.Y, r.Hash)
}
