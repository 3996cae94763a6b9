package stack

import (
	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/model"
)

// Roles are the IAM roles of the cluster stack. PodExecution is only set for
// the serverless strategy.
type Roles struct {
	Service      *model.Role
	Node         *model.Role
	Admin        *model.Role
	PodExecution *model.Role
}

// All returns the declared roles.
func (r Roles) All() []*model.Role {
	out := []*model.Role{r.Service, r.Admin}
	if r.Node != nil {
		out = append(out, r.Node)
	}
	if r.PodExecution != nil {
		out = append(out, r.PodExecution)
	}
	return out
}

// NewRoles declares the roles needed by the configured capacity strategy.
func NewRoles(cfg *config.Config) Roles {
	roles := Roles{
		Service: NewServiceRole(),
		Admin:   NewAdminRole(),
	}
	if cfg.Capacity.Strategy == config.StrategyServerless {
		roles.PodExecution = NewPodExecutionRole()
	} else {
		roles.Node = NewNodeRole()
	}
	return roles
}

// NewServiceRole is assumed by the EKS control plane.
func NewServiceRole() *model.Role {
	return &model.Role{
		ID:          "ClusterServiceRole",
		Description: "EKS control plane service role",
		TrustedBy:   []model.Principal{model.ServicePrincipal(model.ServiceEKS)},
		ManagedPolicies: []model.ManagedPolicy{
			model.PolicyEKSCluster,
			model.PolicyEKSCNI,
			model.PolicyEKSVPCResourceController,
		},
	}
}

// NewNodeRole is assumed by worker instances.
func NewNodeRole() *model.Role {
	return &model.Role{
		ID:          "NodeRole",
		Description: "EKS worker node role",
		TrustedBy:   []model.Principal{model.ServicePrincipal(model.ServiceEC2)},
		ManagedPolicies: []model.ManagedPolicy{
			model.PolicyEKSWorkerNode,
			model.PolicyEC2ContainerRegistryReadOnly,
			model.PolicyEKSCNI,
			model.PolicySSMManagedInstanceCore,
		},
	}
}

// NewAdminRole is mapped to cluster admin. It may describe any cluster.
func NewAdminRole() *model.Role {
	return &model.Role{
		ID:          "ClusterAdminRole",
		Description: "EKS cluster administrator role",
		TrustedBy: []model.Principal{
			model.AccountRootPrincipal(),
			model.ServicePrincipal(model.ServiceEC2),
		},
		Statements: []model.Statement{{
			Sid:       "DescribeCluster",
			Effect:    model.Allow,
			Actions:   []string{"eks:DescribeCluster"},
			Resources: []string{"*"},
		}},
	}
}

// NewPodExecutionRole is assumed by Fargate to start pods.
func NewPodExecutionRole() *model.Role {
	return &model.Role{
		ID:              "PodExecutionRole",
		Description:     "EKS Fargate pod execution role",
		TrustedBy:       []model.Principal{model.ServicePrincipal(model.ServiceFargatePods)},
		ManagedPolicies: []model.ManagedPolicy{model.PolicyEKSFargatePodExecution},
	}
}
