package main

import (
	"fmt"
	"os"

	"github.com/chazu/steelbox/pkg/engine"
	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/joinery"
	"github.com/chazu/steelbox/pkg/plan"
	"github.com/chazu/steelbox/pkg/profile"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <script.sbx>",
	Short: "Evaluate a design script and plan it",
	Long: "Eval runs a sandboxed Lisp design script that defines profiles,\n" +
		"a box, extra members, and planning options, then runs the joinery\n" +
		"pipeline over the result.",
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	design, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
		return fmt.Errorf("script failed with %d error(s)", len(evalErrs))
	}

	reg := profile.NewRegistry()
	for _, p := range design.Profiles {
		if err := reg.Register(p); err != nil {
			return err
		}
	}

	members := design.Members
	if design.Box != nil {
		prof, err := reg.Get(design.Box.Profile)
		if err != nil {
			return err
		}
		generated, err := frame.GenerateMembers(*design.Box, prof)
		if err != nil {
			return err
		}
		members = append(generated, members...)
	}
	if len(members) == 0 {
		return fmt.Errorf("script defined no members (use (box ...) or (member ...))")
	}

	opts := joinery.DefaultOptions()
	if design.Options != nil {
		opts = *design.Options
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	pipe, err := plan.NewPipeline(reg, opts, logger)
	if err != nil {
		return err
	}
	result, errs := pipe.Run(members)
	printPlanSummary(result, errs)
	if len(errs) > 0 {
		return fmt.Errorf("planning finished with %d error(s)", len(errs))
	}
	return nil
}
