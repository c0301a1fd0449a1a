package main

import (
	"fmt"

	"github.com/chazu/steelbox/pkg/cutlist"
	"github.com/spf13/cobra"
)

var bomCmd = &cobra.Command{
	Use:   "bom",
	Short: "Plan the configured box and print the rolled-up cut list",
	RunE:  runBOM,
}

func init() {
	rootCmd.AddCommand(bomCmd)
}

func runBOM(cmd *cobra.Command, args []string) error {
	result, reg, errs, err := executePlan()
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("  [%s] %v\n", errKind(e), e)
		}
		return fmt.Errorf("cannot build BOM: planning finished with %d error(s)", len(errs))
	}

	bom, err := cutlist.Build(result, reg)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d line(s), %d part(s)\n", bom.RunID, len(bom.Lines), bom.TotalParts())
	fmt.Printf("%-4s %-16s %10s %6s %6s %8s  %s\n", "qty", "profile", "length", "slots", "tabs", "kg", "hash")
	for _, line := range bom.Lines {
		fmt.Printf("%-4d %-16s %8.1fmm %6d %6d %8.2f  %.12s\n",
			line.Quantity, line.Profile, line.LengthMM,
			line.SlotCount, line.TabCount, line.WeightKG, line.LayoutHash)
	}
	return nil
}
