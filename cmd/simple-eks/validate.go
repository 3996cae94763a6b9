package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/validation"
)

type validateOptions struct {
	format   string
	skipLint bool
}

// newValidateCmd creates the "validate" subcommand.
func newValidateCmd(g *globals) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the model and lint the synthesized templates",
		Long: `Validate builds the model and checks every stack.

Checks performed:
  - Configuration: capacity strategy, network layout and cluster settings
  - Model invariants: roles, security group, scaling bounds and references
  - cfn-lint: every synthesized template is linted (skip with --skip-lint)

Examples:
    simple-eks validate
    simple-eks validate --config cluster.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.skipLint, "skip-lint", false, "Only validate the model")

	return cmd
}

func runValidate(g *globals, opts validateOptions, w io.Writer) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format: %s", opts.format)
	}

	result := validate(g, opts.skipLint)
	if err := outputValidateResult(w, result, opts.format); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func validate(g *globals, skipLint bool) simpleeks.ValidateResult {
	var result simpleeks.ValidateResult

	_, app, err := g.load()
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	stacks, err := g.synthesize(app, "")
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	byName := make(map[string]*simpleeks.Template, len(stacks))
	for _, s := range stacks {
		byName[s.stack] = s.template
		result.Resources += len(s.template.Resources)
	}

	if !skipLint {
		lintResults, err := validation.LintStacks(byName)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
		for _, lr := range lintResults {
			g.logger.Debug("stack linted",
				zap.String("stack", lr.Stack),
				zap.Int("issues", lr.Lint.TotalIssues()),
			)
			for _, e := range lr.Lint.Errors {
				result.Errors = append(result.Errors, lr.Stack+": "+e)
			}
			for _, warn := range lr.Lint.Warnings {
				result.Warnings = append(result.Warnings, lr.Stack+": "+warn)
			}
		}
	}

	result.Success = len(result.Errors) == 0
	return result
}

func outputValidateResult(w io.Writer, result simpleeks.ValidateResult, format string) error {
	if format == "json" {
		return writeJSON(w, result)
	}

	if result.Success {
		fmt.Fprintf(w, "Validation passed: %d resources OK\n", result.Resources)
		for _, warnMsg := range result.Warnings {
			fmt.Fprintf(w, "  WARNING: %s\n", warnMsg)
		}
		return nil
	}

	fmt.Fprintln(w, "Validation FAILED:")
	for _, errMsg := range result.Errors {
		fmt.Fprintf(w, "  ERROR: %s\n", errMsg)
	}
	for _, warnMsg := range result.Warnings {
		fmt.Fprintf(w, "  WARNING: %s\n", warnMsg)
	}
	return nil
}
