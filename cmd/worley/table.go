package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const tableLongDesc string = `Print a permutation table as a 16x16 grid.

Examples:
  worley table --reference
  worley table --seed 24301 --check`

const tableShortDesc string = "Print a permutation table"

type tableCommander struct {
	seed      uint64
	reference bool
	check     bool
}

func newTableCmd() *cobra.Command {
	cmder := &tableCommander{}

	cmd := &cobra.Command{
		Use:   "table",
		Short: tableShortDesc,
		Long:  tableLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().Uint64Var(&cmder.seed, "seed", 24301, "Permutation table seed")
	cmd.Flags().BoolVar(&cmder.reference, "reference", false, "Use Ken Perlin's reference table instead of --seed")
	cmd.Flags().BoolVar(&cmder.check, "check", false, "Verify the table is a bijection")
	cmd.MarkFlagsMutuallyExclusive("seed", "reference")

	return cmd
}

func (c *tableCommander) run(w io.Writer) error {
	t := buildTable(c.seed, c.reference)
	fmt.Fprintln(w, t.String())

	if !c.check {
		return nil
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("checking table: %w", err)
	}
	fmt.Fprintln(w, "ok: table is a permutation of [0,256)")
	return nil
}
