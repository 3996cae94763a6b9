package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/miztiik/simple-eks-cluster/internal/graph"
)

func newGraphCmd(g *globals) *cobra.Command {
	var (
		outputFormat   string
		clusterByStack bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate a DOT or Mermaid graph of the declarations",
		Long: `Generate a graph of the network, roles, security group, cluster and
capacity declarations and the references between them.

The output can be rendered with Graphviz:
    simple-eks graph | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    simple-eks graph -f mermaid

Examples:
    simple-eks graph
    simple-eks graph --cluster=false     # no per-stack subgraphs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(g, outputFormat, clusterByStack, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVar(&clusterByStack, "cluster", true, "Group declarations by owning stack")

	return cmd
}

func runGraph(g *globals, format string, cluster bool, w io.Writer) error {
	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	_, app, err := g.load()
	if err != nil {
		return err
	}

	gen := &graph.Generator{
		Format:         graphFormat,
		ClusterByStack: cluster,
	}
	return gen.Generate(app.Graphs(), w)
}
