package model

import (
	"maps"
	"slices"
)

// cloner deep-copies declarations. Pointers shared between declarations stay
// shared between their copies: a node group and its cluster copied by the
// same cloner reference the same role copy.
type cloner struct {
	networks map[*Network]*Network
	roles    map[*Role]*Role
	groups   map[*SecurityGroup]*SecurityGroup
	clusters map[*Cluster]*Cluster
}

func newCloner() *cloner {
	return &cloner{
		networks: map[*Network]*Network{},
		roles:    map[*Role]*Role{},
		groups:   map[*SecurityGroup]*SecurityGroup{},
		clusters: map[*Cluster]*Cluster{},
	}
}

func (c *cloner) network(n *Network) *Network {
	if n == nil {
		return nil
	}
	if cp, ok := c.networks[n]; ok {
		return cp
	}
	cp := *n
	cp.Subnets = slices.Clone(n.Subnets)
	c.networks[n] = &cp
	return &cp
}

func (c *cloner) role(r *Role) *Role {
	if r == nil {
		return nil
	}
	if cp, ok := c.roles[r]; ok {
		return cp
	}
	cp := *r
	cp.TrustedBy = slices.Clone(r.TrustedBy)
	cp.ManagedPolicies = slices.Clone(r.ManagedPolicies)
	if r.Statements != nil {
		cp.Statements = make([]Statement, len(r.Statements))
		for i, s := range r.Statements {
			s.Actions = slices.Clone(s.Actions)
			s.Resources = slices.Clone(s.Resources)
			cp.Statements[i] = s
		}
	}
	c.roles[r] = &cp
	return &cp
}

func (c *cloner) securityGroup(sg *SecurityGroup) *SecurityGroup {
	if sg == nil {
		return nil
	}
	if cp, ok := c.groups[sg]; ok {
		return cp
	}
	cp := *sg
	cp.Network = c.network(sg.Network)
	cp.Ingress = slices.Clone(sg.Ingress)
	cp.Tags = maps.Clone(sg.Tags)
	c.groups[sg] = &cp
	return &cp
}

func (c *cloner) cluster(cl *Cluster) *Cluster {
	if cl == nil {
		return nil
	}
	if cp, ok := c.clusters[cl]; ok {
		return cp
	}
	cp := *cl
	cp.Network = c.network(cl.Network)
	cp.Placement = slices.Clone(cl.Placement)
	cp.MastersRole = c.role(cl.MastersRole)
	cp.ServiceRole = c.role(cl.ServiceRole)
	cp.SecurityGroup = c.securityGroup(cl.SecurityGroup)
	c.clusters[cl] = &cp
	return &cp
}

func (c *cloner) nodeGroup(ng *NodeGroup) *NodeGroup {
	if ng == nil {
		return nil
	}
	cp := *ng
	cp.Cluster = c.cluster(ng.Cluster)
	cp.InstanceTypes = slices.Clone(ng.InstanceTypes)
	cp.Labels = maps.Clone(ng.Labels)
	cp.Placement = slices.Clone(ng.Placement)
	cp.NodeRole = c.role(ng.NodeRole)
	return &cp
}

func (c *cloner) fargateProfile(fp *FargateProfile) *FargateProfile {
	if fp == nil {
		return nil
	}
	cp := *fp
	cp.Cluster = c.cluster(fp.Cluster)
	cp.PodExecutionRole = c.role(fp.PodExecutionRole)
	if fp.Selectors != nil {
		cp.Selectors = make([]FargateSelector, len(fp.Selectors))
		for i, s := range fp.Selectors {
			s.Labels = maps.Clone(s.Labels)
			cp.Selectors[i] = s
		}
	}
	return &cp
}

func (c *cloner) capacity(s CapacityStrategy) CapacityStrategy {
	switch s := s.(type) {
	case OnDemandCapacity:
		return OnDemandCapacity{NodeGroup: c.nodeGroup(s.NodeGroup)}
	case SpotCapacity:
		return SpotCapacity{NodeGroup: c.nodeGroup(s.NodeGroup)}
	case ServerlessCapacity:
		return ServerlessCapacity{Profile: c.fargateProfile(s.Profile)}
	}
	return s
}

func cloneProject(p Project) Project {
	p.SupportEmails = slices.Clone(p.SupportEmails)
	return p
}
