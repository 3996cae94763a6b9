// Package cfn renders a model graph into a CloudFormation template.
//
// Each graph becomes one stack. A network owned by the graph is declared in
// full and its VPC and subnets are exported as <stack>-<LogicalID>. A
// network owned by another graph is read back through Fn::ImportValue.
package cfn

import (
	"fmt"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/template"
	"github.com/miztiik/simple-eks-cluster/intrinsics"
	"github.com/miztiik/simple-eks-cluster/model"
)

// Synthesize renders the graph into a template.
func Synthesize(g *model.Graph) (*simpleeks.Template, error) {
	b, err := NewBuilder(g)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// NewBuilder declares every resource and output of the graph on a template
// builder without building it. Callers use it to inspect ordering and
// dependencies.
func NewBuilder(g *model.Graph) (*template.Builder, error) {
	r := &renderer{
		graph:   g,
		builder: template.NewBuilder(g.Description()),
		tags:    g.Tags(),
	}

	steps := []func() error{
		r.network,
		r.roles,
		r.securityGroups,
		r.cluster,
		r.capacity,
		r.outputs,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("stack %s: %w", g.Name(), err)
		}
	}
	return r.builder, nil
}

type renderer struct {
	graph   *model.Graph
	builder *template.Builder
	tags    map[string]string
}

func (r *renderer) add(name string, res simpleeks.Resource, dependsOn ...string) error {
	return r.builder.Add(name, res, dependsOn...)
}

// tagList merges the stack tags with resource specific tags. Resource tags
// win on conflicts.
func (r *renderer) tagList(extra map[string]string) []any {
	return intrinsics.Tags(r.mergeTags(extra))
}

func (r *renderer) tagMap(extra map[string]string) map[string]any {
	merged := r.mergeTags(extra)
	if len(merged) == 0 {
		return nil
	}
	out := make(map[string]any, len(merged))
	for k, v := range merged {
		out[k] = v
	}
	return out
}

func (r *renderer) mergeTags(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(r.tags)+len(extra))
	for k, v := range r.tags {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// networkRef resolves a network declaration to a Ref when the graph owns the
// network and to an import of the owning stack's export otherwise.
func (r *renderer) networkRef(n *model.Network, id string) any {
	if r.graph.OwnsNetwork(n) {
		return intrinsics.Ref{LogicalName: id}
	}
	return intrinsics.ImportValue{ExportName: n.ExportName(id)}
}

func (r *renderer) subnetRefs(n *model.Network, subnets []model.Subnet) []any {
	out := make([]any, 0, len(subnets))
	for _, s := range subnets {
		out = append(out, r.networkRef(n, s.ID))
	}
	return out
}

func arn(id string) simpleeks.AttrRef {
	return simpleeks.AttrRef{Resource: id, Attribute: "Arn"}
}
