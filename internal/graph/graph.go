// Package graph generates DOT and Mermaid dependency graphs from model graphs.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	"github.com/miztiik/simple-eks-cluster/model"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from model graphs.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByStack groups declarations by the stack that owns them.
	ClusterByStack bool
}

// Generate writes one dependency graph covering all stacks to w. A node that
// is external to one stack but owned by another is drawn once, in its owner.
func (g *Generator) Generate(stacks []*model.Graph, w io.Writer) error {
	graph := g.buildGraph(stacks)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(stacks []*model.Graph) (string, error) {
	var sb strings.Builder
	if err := g.Generate(stacks, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(stacks []*model.Graph) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	owned := map[string]bool{}
	kinds := map[string]model.NodeKind{}
	for _, s := range stacks {
		for _, n := range s.Nodes() {
			kinds[n.ID] = n.Kind
			if !n.External {
				owned[n.ID] = true
			}
		}
	}

	for _, s := range stacks {
		parent := graph
		if g.ClusterByStack {
			parent = graph.Subgraph("cluster_"+s.Name(), dot.ClusterOption{})
			parent.Attr("label", s.Name())
			parent.Attr("style", "rounded")
			parent.Attr("bgcolor", "lightyellow")
		}
		for _, n := range s.Nodes() {
			if n.External {
				continue
			}
			addNode(parent, n)
		}
	}

	// External nodes whose owner is not part of this rendering.
	for _, s := range stacks {
		for _, n := range s.Nodes() {
			if n.External && !owned[n.ID] {
				owned[n.ID] = true
				addNode(graph, n).Attr("style", "dashed")
			}
		}
	}

	for _, s := range stacks {
		for _, e := range s.Edges() {
			edge := graph.Edge(graph.Node(e.From), graph.Node(e.To))
			if kinds[e.To] == model.KindRole {
				edge.Attr("color", "blue")
			}
		}
	}

	return graph
}

func addNode(parent *dot.Graph, n model.Node) dot.Node {
	node := parent.Node(n.ID)
	label := n.ID + "\\n[" + string(n.Kind) + "]"
	if n.Name != "" && n.Name != n.ID {
		label = n.ID + "\\n" + n.Name + "\\n[" + string(n.Kind) + "]"
	}
	node.Label(label)
	return node
}
