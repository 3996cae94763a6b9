package model

import (
	"sort"
)

// NodeKind classifies graph nodes.
type NodeKind string

const (
	KindNetwork        NodeKind = "Network"
	KindRole           NodeKind = "Role"
	KindSecurityGroup  NodeKind = "SecurityGroup"
	KindCluster        NodeKind = "Cluster"
	KindNodeGroup      NodeKind = "NodeGroup"
	KindFargateProfile NodeKind = "FargateProfile"
)

// Node is a declaration in a Graph. External nodes are owned by another
// graph and only referenced here.
type Node struct {
	ID       string
	Kind     NodeKind
	Name     string
	External bool
}

// Edge means From depends on To.
type Edge struct {
	From string
	To   string
}

// Graph is an immutable, validated desired-state graph for one stack.
// Accessors return deep copies; declarations returned by one call share
// their references with each other.
type Graph struct {
	name           string
	description    string
	project        Project
	tags           map[string]string
	network        *Network
	roles          []*Role
	securityGroups []*SecurityGroup
	cluster        *Cluster
	capacity       CapacityStrategy
	outputs        []Output
}

// Name is the stack name.
func (g *Graph) Name() string { return g.name }

// Description is the stack description.
func (g *Graph) Description() string { return g.description }

// Project returns the project identity.
func (g *Graph) Project() Project { return cloneProject(g.project) }

// Tags returns a copy of the stack-wide tags.
func (g *Graph) Tags() map[string]string {
	out := make(map[string]string, len(g.tags))
	for k, v := range g.tags {
		out[k] = v
	}
	return out
}

// Network returns the network owned by this graph, or nil.
func (g *Graph) Network() *Network { return newCloner().network(g.network) }

// OwnsNetwork reports whether n is the network declared by this graph.
// Networks are identified by owning stack and ID.
func (g *Graph) OwnsNetwork(n *Network) bool {
	return n != nil && g.network != nil && n.StackName == g.network.StackName && n.ID == g.network.ID
}

// Roles returns the declared roles in declaration order.
func (g *Graph) Roles() []*Role {
	c := newCloner()
	out := make([]*Role, 0, len(g.roles))
	for _, r := range g.roles {
		out = append(out, c.role(r))
	}
	return out
}

// SecurityGroups returns the declared security groups.
func (g *Graph) SecurityGroups() []*SecurityGroup {
	c := newCloner()
	out := make([]*SecurityGroup, 0, len(g.securityGroups))
	for _, sg := range g.securityGroups {
		out = append(out, c.securityGroup(sg))
	}
	return out
}

// Cluster returns the cluster, or nil for a network-only graph.
func (g *Graph) Cluster() *Cluster { return newCloner().cluster(g.cluster) }

// Capacity returns the capacity strategy, or nil.
func (g *Graph) Capacity() CapacityStrategy {
	if g.capacity == nil {
		return nil
	}
	return newCloner().capacity(g.capacity)
}

// NodeGroups returns the managed node groups of the capacity strategy.
func (g *Graph) NodeGroups() []*NodeGroup {
	c := newCloner()
	var out []*NodeGroup
	for _, ng := range g.nodeGroups() {
		out = append(out, c.nodeGroup(ng))
	}
	return out
}

// FargateProfiles returns the Fargate profiles of the capacity strategy.
func (g *Graph) FargateProfiles() []*FargateProfile {
	c := newCloner()
	var out []*FargateProfile
	for _, fp := range g.fargateProfiles() {
		out = append(out, c.fargateProfile(fp))
	}
	return out
}

func (g *Graph) nodeGroups() []*NodeGroup {
	switch c := g.capacity.(type) {
	case OnDemandCapacity:
		return []*NodeGroup{c.NodeGroup}
	case SpotCapacity:
		return []*NodeGroup{c.NodeGroup}
	}
	return nil
}

func (g *Graph) fargateProfiles() []*FargateProfile {
	if c, ok := g.capacity.(ServerlessCapacity); ok {
		return []*FargateProfile{c.Profile}
	}
	return nil
}

// Outputs returns the outputs in declaration order.
func (g *Graph) Outputs() []Output { return append([]Output(nil), g.outputs...) }

// Nodes lists every declaration, including referenced external networks,
// sorted by ID.
func (g *Graph) Nodes() []Node {
	var nodes []Node
	if g.network != nil {
		nodes = append(nodes, Node{ID: g.network.ID, Kind: KindNetwork, Name: g.network.StackName})
	}
	if g.cluster != nil && g.cluster.Network != nil && !g.OwnsNetwork(g.cluster.Network) {
		nodes = append(nodes, Node{ID: g.cluster.Network.ID, Kind: KindNetwork, Name: g.cluster.Network.StackName, External: true})
	}
	for _, r := range g.roles {
		nodes = append(nodes, Node{ID: r.ID, Kind: KindRole, Name: r.Name})
	}
	for _, sg := range g.securityGroups {
		nodes = append(nodes, Node{ID: sg.ID, Kind: KindSecurityGroup, Name: sg.Name})
	}
	if g.cluster != nil {
		nodes = append(nodes, Node{ID: g.cluster.ID, Kind: KindCluster, Name: g.cluster.Name})
	}
	for _, ng := range g.nodeGroups() {
		nodes = append(nodes, Node{ID: ng.ID, Kind: KindNodeGroup, Name: ng.Name})
	}
	for _, fp := range g.fargateProfiles() {
		nodes = append(nodes, Node{ID: fp.ID, Kind: KindFargateProfile, Name: fp.Name})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Edges lists the reference edges between declarations, sorted.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	add := func(from, to string) { edges = append(edges, Edge{From: from, To: to}) }

	for _, sg := range g.securityGroups {
		if sg.Network != nil {
			add(sg.ID, sg.Network.ID)
		}
	}
	if c := g.cluster; c != nil {
		if c.Network != nil {
			add(c.ID, c.Network.ID)
		}
		add(c.ID, c.ServiceRole.ID)
		add(c.ID, c.MastersRole.ID)
		add(c.ID, c.SecurityGroup.ID)
	}
	for _, ng := range g.nodeGroups() {
		add(ng.ID, ng.Cluster.ID)
		add(ng.ID, ng.NodeRole.ID)
	}
	for _, fp := range g.fargateProfiles() {
		add(fp.ID, fp.Cluster.ID)
		add(fp.ID, fp.PodExecutionRole.ID)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}
