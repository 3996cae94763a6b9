package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/optimizer"
)

type optimizeOptions struct {
	format   string
	category string
}

// newOptimizeCmd creates the "optimize" subcommand.
func newOptimizeCmd(g *globals) *cobra.Command {
	var opts optimizeOptions

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Suggest security, cost, performance and reliability improvements",
		Long: `Optimize builds the model and checks it against EKS best practices.

Suggestions are advisory: a model with suggestions still synthesizes.

Categories:
  security     Endpoint exposure, node placement, IAM scope
  cost         Purchase model of the worker capacity
  performance  Instance families
  reliability  NAT gateway redundancy, node group size, spot diversity

Examples:
    simple-eks optimize
    simple-eks optimize --category security --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&opts.category, "category", "C", optimizer.CategoryAll, "Category: all, security, cost, performance or reliability")

	return cmd
}

func runOptimize(g *globals, opts optimizeOptions, w io.Writer) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format: %s", opts.format)
	}
	if !optimizer.ValidCategory(opts.category) {
		return fmt.Errorf("unknown category: %s", opts.category)
	}

	_, app, err := g.load()
	if err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}
	optResult := optimizer.Optimize(app.Graphs(), optimizer.Options{Category: opts.category})
	g.logger.Debug("model optimized",
		zap.String("category", opts.category),
		zap.Int("suggestions", optResult.Summary.Total),
	)

	result := simpleeks.OptimizeResult{
		Success:          true,
		Suggestions:      optResult.Suggestions,
		DeclarationCount: optResult.Declarations,
		Summary:          optResult.Summary,
	}
	return outputOptimizeResult(w, result, opts.format)
}

func outputOptimizeResult(w io.Writer, result simpleeks.OptimizeResult, format string) error {
	if format == "json" {
		return writeJSON(w, result)
	}

	if len(result.Suggestions) == 0 {
		fmt.Fprintf(w, "Analyzed %d declarations. No optimization suggestions.\n", result.DeclarationCount)
		return nil
	}
	fmt.Fprintf(w, "Analyzed %d declarations. Found %d suggestions:\n\n", result.DeclarationCount, result.Summary.Total)

	byCat := map[string][]simpleeks.OptimizeSuggestion{}
	for _, s := range result.Suggestions {
		byCat[s.Category] = append(byCat[s.Category], s)
	}
	for _, cat := range optimizer.Categories {
		suggestions := byCat[cat]
		if len(suggestions) == 0 {
			continue
		}
		fmt.Fprintf(w, "=== %s (%d) ===\n", capitalize(cat), len(suggestions))
		for _, s := range suggestions {
			fmt.Fprintf(w, "\n[%s] %s\n", s.Severity, s.Title)
			fmt.Fprintf(w, "  Declaration: %s/%s\n", s.Stack, s.Declaration)
			fmt.Fprintf(w, "  %s\n", s.Description)
			fmt.Fprintf(w, "  Suggestion: %s\n", s.Suggestion)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d security, %d cost, %d performance, %d reliability\n",
		result.Summary.Security, result.Summary.Cost,
		result.Summary.Performance, result.Summary.Reliability)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
