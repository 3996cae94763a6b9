package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/cfn"
)

func newListCmd(g *globals) *cobra.Command {
	var (
		outputFormat string
		stackName    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources in deployment order",
		Long: `List shows every CloudFormation resource of every stack, in the order
CloudFormation creates them, with the resources each one depends on.

Examples:
    simple-eks list
    simple-eks list --stack eks-cluster-stack --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(g, stackName, outputFormat, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&stackName, "stack", "s", "", "Only list this stack")

	return cmd
}

func runList(g *globals, only, format string, w io.Writer) error {
	_, app, err := g.load()
	if err != nil {
		return err
	}

	result := simpleeks.ListResult{Resources: []simpleeks.ListResource{}}
	found := false
	for _, graph := range app.Graphs() {
		if only != "" && graph.Name() != only {
			continue
		}
		found = true

		b, err := cfn.NewBuilder(graph)
		if err != nil {
			return err
		}
		tmpl, err := b.Build()
		if err != nil {
			return err
		}
		order, err := b.Order()
		if err != nil {
			return err
		}
		for _, name := range order {
			deps, err := b.Dependencies(name)
			if err != nil {
				return err
			}
			result.Resources = append(result.Resources, simpleeks.ListResource{
				Stack:     graph.Name(),
				Name:      name,
				Type:      tmpl.Resources[name].Type,
				DependsOn: deps,
			})
		}
	}
	if !found {
		return fmt.Errorf("unknown stack %q", only)
	}

	return outputListResult(w, result, format)
}

func outputListResult(w io.Writer, result simpleeks.ListResult, format string) error {
	switch format {
	case "json":
		return writeJSON(w, result)

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		current := ""
		for _, res := range result.Resources {
			if res.Stack != current {
				if current != "" {
					fmt.Fprintln(w)
				}
				current = res.Stack
				fmt.Fprintf(w, "%s:\n", current)
			}
			line := fmt.Sprintf("  %s: %s", res.Name, res.Type)
			if len(res.DependsOn) > 0 {
				line += " <- " + strings.Join(res.DependsOn, ", ")
			}
			fmt.Fprintln(w, line)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
