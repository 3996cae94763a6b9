package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/differ"
)

type diffOptions struct {
	format      string
	ignoreOrder bool
	stack       string
	exitCode    bool
}

func newDiffCmd(g *globals) *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff <template1> [template2]",
		Short: "Compare two CloudFormation templates",
		Long: `Diff compares two templates resource by resource.

With one file and --stack, the file is compared against the template the
current configuration synthesizes for that stack.

Examples:
    simple-eks diff old/eks-cluster-stack.json new/eks-cluster-stack.json
    simple-eks diff cdk.out/eks-cluster-stack.json --stack eks-cluster-stack
    simple-eks diff a.yaml b.yaml --ignore-order --format json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(g, args, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.ignoreOrder, "ignore-order", false, "Ignore array element order")
	cmd.Flags().StringVarP(&opts.stack, "stack", "s", "", "Compare the file against this synthesized stack")
	cmd.Flags().BoolVar(&opts.exitCode, "exit-code", false, "Fail when the templates differ")

	return cmd
}

func runDiff(g *globals, args []string, opts diffOptions, w io.Writer) error {
	diffOpts := differ.Options{IgnoreOrder: opts.ignoreOrder}

	var (
		result *differ.Result
		err    error
	)
	switch {
	case len(args) == 2:
		result, err = differ.CompareFiles(args[0], args[1], diffOpts)
	case opts.stack != "":
		result, err = diffAgainstSynth(g, args[0], opts.stack, diffOpts)
	default:
		return fmt.Errorf("diff needs two templates or one template and --stack")
	}
	if err != nil {
		return err
	}

	if err := outputDiff(w, result, opts.format); err != nil {
		return err
	}
	if opts.exitCode && !result.Empty() {
		return fmt.Errorf("templates differ: %d changes", result.Summary.Total)
	}
	return nil
}

func diffAgainstSynth(g *globals, path, stackName string, opts differ.Options) (*differ.Result, error) {
	old, err := differ.LoadTemplate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	_, app, err := g.load()
	if err != nil {
		return nil, err
	}
	stacks, err := g.synthesize(app, stackName)
	if err != nil {
		return nil, err
	}
	return differ.Compare(old, stacks[0].template, opts)
}

func outputDiff(w io.Writer, result *differ.Result, format string) error {
	switch format {
	case "json":
		return writeJSON(w, struct {
			Diff    simpleeks.TemplateDiff `json:"diff"`
			Summary simpleeks.DiffSummary  `json:"summary"`
		}{result.Diff, result.Summary})

	case "text":
		if result.Empty() {
			fmt.Fprintln(w, "No differences.")
			return nil
		}
		for _, e := range result.Diff.Added {
			fmt.Fprintf(w, "+ %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Removed {
			fmt.Fprintf(w, "- %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Modified {
			fmt.Fprintf(w, "~ %s (%s)\n", e.Resource, e.Type)
			for _, c := range e.Changes {
				fmt.Fprintf(w, "    %s\n", c)
			}
		}
		fmt.Fprintf(w, "\n%d added, %d removed, %d modified\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
