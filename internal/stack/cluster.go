package stack

import (
	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/model"
)

// NewClusterSecurityGroup declares the cluster security group: all outbound
// traffic and all traffic between members.
func NewClusterSecurityGroup(network *model.Network) *model.SecurityGroup {
	return &model.SecurityGroup{
		ID:               "ClusterSecurityGroup",
		Description:      "EKS Cluster security group",
		Network:          network,
		AllowAllOutbound: true,
		Ingress:          []model.IngressRule{model.SelfIngress("Allow incoming within SG")},
		Tags:             map[string]string{"Name": "eks_cluster_sg"},
	}
}

// NewCluster declares the control plane.
func NewCluster(c config.ClusterConfig, network *model.Network, roles Roles, sg *model.SecurityGroup) *model.Cluster {
	return &model.Cluster{
		ID:              "Cluster",
		Name:            c.Name,
		Version:         c.Version,
		Network:         network,
		Placement:       subnetKinds(c.Placement),
		DefaultCapacity: c.DefaultCapacity,
		MastersRole:     roles.Admin,
		ServiceRole:     roles.Service,
		SecurityGroup:   sg,
		EndpointAccess:  model.EndpointAccess(c.EndpointAccess),
	}
}
