package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect the tube profile library",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered profiles with derived slot/tab widths",
	RunE:  runProfilesList,
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%-16s %8s %8s %6s %8s %8s %8s\n",
		"name", "outer_w", "outer_h", "wall", "slot_w", "tab_w", "gap")
	for _, name := range reg.Names() {
		p, err := reg.Get(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-16s %8.2f %8.2f %6.2f %8.3f %8.3f %8.3f\n",
			p.Name, p.Geometry.OuterWidth, p.Geometry.OuterHeight,
			p.Geometry.WallThickness, p.SlotWidth(), p.TabWidth(), p.TotalGap())
	}
	return nil
}
