// Package stack assembles the network and cluster graphs from configuration.
package stack

import (
	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/model"
)

// App holds the graphs of one deployment, in deployment order.
type App struct {
	Network *model.Graph
	Cluster *model.Graph
}

// Graphs returns the graphs in deployment order.
func (a *App) Graphs() []*model.Graph {
	return []*model.Graph{a.Network, a.Cluster}
}

// Graph returns the graph of the named stack.
func (a *App) Graph(name string) (*model.Graph, bool) {
	for _, g := range a.Graphs() {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}

// Synthesize builds both graphs. The network graph is built first and the
// cluster graph references its network.
func Synthesize(cfg *config.Config) (*App, error) {
	project := NewProject(cfg.Project)

	network, err := NewNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	networkGraph, err := model.NewGraphBuilder(cfg.Network.StackName, project).
		Description(cfg.Network.Description).
		Tags(cfg.Tags).
		Network(network).
		Build()
	if err != nil {
		return nil, err
	}

	roles := NewRoles(cfg)
	sg := NewClusterSecurityGroup(network)
	cluster := NewCluster(cfg.Cluster, network, roles, sg)

	capacity, err := NewCapacity(cfg.Capacity, cluster, roles)
	if err != nil {
		return nil, err
	}

	clusterGraph, err := model.NewGraphBuilder(cfg.Cluster.StackName, project).
		Description(cfg.Cluster.Description).
		Tags(cfg.Tags).
		Roles(roles.All()...).
		SecurityGroup(sg).
		Cluster(cluster).
		Capacity(capacity).
		Outputs(NewOutputs(cfg, project, roles, cluster)...).
		Build()
	if err != nil {
		return nil, err
	}

	return &App{Network: networkGraph, Cluster: clusterGraph}, nil
}

// NewProject freezes the project identity.
func NewProject(c config.ProjectConfig) model.Project {
	return model.Project{
		Owner:         c.Owner,
		RepoName:      c.RepoName,
		SourceInfo:    c.SourceInfo,
		Version:       c.Version,
		SupportEmails: append([]string(nil), c.SupportEmails...),
	}
}

func subnetKinds(values []string) []model.SubnetKind {
	out := make([]model.SubnetKind, 0, len(values))
	for _, v := range values {
		out = append(out, model.SubnetKind(v))
	}
	return out
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
