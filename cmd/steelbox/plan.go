package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/plan"
	"github.com/chazu/steelbox/pkg/profile"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run the joinery pipeline over the configured box",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().String("out", "", "write the full plan as JSON to this file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	result, _, errs, err := executePlan()
	if err != nil {
		return err
	}

	printPlanSummary(result, errs)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		fmt.Printf("plan written to %s\n", out)
	}

	if len(errs) > 0 {
		return fmt.Errorf("planning finished with %d error(s)", len(errs))
	}
	return nil
}

// executePlan loads configuration, generates the member set, and runs
// the pipeline. Shared by plan and bom.
func executePlan() (*plan.Plan, *profile.Registry, []error, error) {
	cfg, err := loadRunConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	defer logger.Sync()

	prof, err := reg.Get(cfg.Box.Profile)
	if err != nil {
		return nil, nil, nil, err
	}
	members, err := frame.GenerateMembers(cfg.Box, prof)
	if err != nil {
		return nil, nil, nil, err
	}

	pipe, err := plan.NewPipeline(reg, cfg.Joinery, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Rivets != nil && cfg.Rivets.Enabled {
		if err := pipe.EnableRivets(cfg.Rivets.Row); err != nil {
			return nil, nil, nil, err
		}
	}

	result, errs := pipe.Run(members)
	return result, reg, errs, nil
}

// printPlanSummary writes the human-readable run report.
func printPlanSummary(p *plan.Plan, errs []error) {
	fmt.Printf("run %s: %d members, %d joints\n", p.RunID, len(p.Members), len(p.Joints))
	for i := range p.Members {
		mp := &p.Members[i]
		fmt.Printf("  %-24s %-16s len %8.1fmm  slots %2d  tabs %2d  hash %.12s\n",
			mp.Member.ID, mp.Member.Profile, mp.Member.Length(),
			len(mp.Slots), len(mp.Tabs), mp.LayoutHash)
	}
	if len(errs) > 0 {
		fmt.Printf("\n%d error(s):\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  [%s] %v\n", errKind(e), e)
		}
	}
}

// errKind groups an error into its reporting family by walking the
// error chain for a Kind() provider.
func errKind(err error) string {
	for err != nil {
		if k, ok := err.(interface{ Kind() string }); ok {
			return k.Kind()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return "general"
}
