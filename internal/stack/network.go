package stack

import (
	"fmt"

	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/model"
)

// NewNetwork declares the VPC. The i-th public and i-th private subnet are
// placed in availability zone i.
func NewNetwork(c config.NetworkConfig) (*model.Network, error) {
	if len(c.PublicSubnets) != len(c.PrivateSubnets) {
		return nil, fmt.Errorf("network: %d public subnets but %d private subnets",
			len(c.PublicSubnets), len(c.PrivateSubnets))
	}

	n := &model.Network{
		ID:          "Vpc",
		StackName:   c.StackName,
		CIDR:        c.CIDR,
		NATGateways: c.NATGateways,
	}
	for i, cidr := range c.PublicSubnets {
		n.Subnets = append(n.Subnets, model.Subnet{
			ID:   fmt.Sprintf("PublicSubnet%d", i+1),
			Kind: model.SubnetPublic,
			CIDR: cidr,
			Zone: i,
		})
	}
	for i, cidr := range c.PrivateSubnets {
		n.Subnets = append(n.Subnets, model.Subnet{
			ID:   fmt.Sprintf("PrivateSubnet%d", i+1),
			Kind: model.SubnetPrivate,
			CIDR: cidr,
			Zone: i,
		})
	}
	return n, nil
}
