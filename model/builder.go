package model

import (
	"fmt"
	"maps"
	"slices"
)

// GraphBuilder collects declarations for one stack. Build validates them and
// returns an immutable Graph. A builder is not safe for concurrent use.
type GraphBuilder struct {
	name           string
	description    string
	project        Project
	tags           map[string]string
	networks       []*Network
	roles          []*Role
	securityGroups []*SecurityGroup
	clusters       []*Cluster
	capacities     []CapacityStrategy
	outputs        []Output
}

// NewGraphBuilder starts a graph for the named stack.
func NewGraphBuilder(name string, project Project) *GraphBuilder {
	return &GraphBuilder{name: name, project: project, tags: map[string]string{}}
}

// Description sets the stack description.
func (b *GraphBuilder) Description(d string) *GraphBuilder {
	b.description = d
	return b
}

// Tags merges stack-wide tags applied to every taggable resource.
func (b *GraphBuilder) Tags(tags map[string]string) *GraphBuilder {
	for k, v := range tags {
		b.tags[k] = v
	}
	return b
}

// Network declares the network owned by this stack.
func (b *GraphBuilder) Network(n *Network) *GraphBuilder {
	b.networks = append(b.networks, n)
	return b
}

// Roles declares IAM roles.
func (b *GraphBuilder) Roles(roles ...*Role) *GraphBuilder {
	b.roles = append(b.roles, roles...)
	return b
}

// SecurityGroup declares a security group.
func (b *GraphBuilder) SecurityGroup(sg *SecurityGroup) *GraphBuilder {
	b.securityGroups = append(b.securityGroups, sg)
	return b
}

// Cluster declares the stack's cluster.
func (b *GraphBuilder) Cluster(c *Cluster) *GraphBuilder {
	b.clusters = append(b.clusters, c)
	return b
}

// Capacity selects the cluster's capacity strategy.
func (b *GraphBuilder) Capacity(s CapacityStrategy) *GraphBuilder {
	b.capacities = append(b.capacities, s)
	return b
}

// Outputs declares stack outputs.
func (b *GraphBuilder) Outputs(outputs ...Output) *GraphBuilder {
	b.outputs = append(b.outputs, outputs...)
	return b
}

// Build validates the declarations and returns the graph. The returned error
// aggregates every violation found. The graph holds deep copies, so later
// changes to the declarations do not reach it.
func (b *GraphBuilder) Build() (*Graph, error) {
	if errs := b.validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid stack %q: %w", b.name, errs.ToAggregate())
	}

	c := newCloner()
	g := &Graph{
		name:        b.name,
		description: b.description,
		project:     cloneProject(b.project),
		tags:        maps.Clone(b.tags),
		outputs:     slices.Clone(b.outputs),
	}
	for _, r := range b.roles {
		g.roles = append(g.roles, c.role(r))
	}
	for _, sg := range b.securityGroups {
		g.securityGroups = append(g.securityGroups, c.securityGroup(sg))
	}
	if len(b.networks) == 1 {
		g.network = c.network(b.networks[0])
	}
	if len(b.clusters) == 1 {
		g.cluster = c.cluster(b.clusters[0])
	}
	if len(b.capacities) == 1 {
		g.capacity = c.capacity(b.capacities[0])
	}
	return g, nil
}
