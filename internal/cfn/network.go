package cfn

import (
	"fmt"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/intrinsics"
	"github.com/miztiik/simple-eks-cluster/model"
	"github.com/miztiik/simple-eks-cluster/resources/ec2"
)

const (
	internetGatewayID   = "InternetGateway"
	gatewayAttachmentID = "VpcGatewayAttachment"
	publicRouteTableID  = "PublicRouteTable"
	anyIPv4             = "0.0.0.0/0"
)

func natGatewayID(i int) string { return fmt.Sprintf("NatGateway%d", i+1) }

func (r *renderer) network() error {
	n := r.graph.Network()
	if n == nil {
		return nil
	}
	name := func(suffix string) map[string]string {
		return map[string]string{"Name": n.StackName + "/" + suffix}
	}

	if err := r.add(n.ID, ec2.VPC{
		CidrBlock:          n.CIDR,
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		InstanceTenancy:    "default",
		Tags:               r.tagList(name("vpc")),
	}); err != nil {
		return err
	}
	vpc := intrinsics.Ref{LogicalName: n.ID}

	if err := r.add(internetGatewayID, ec2.InternetGateway{Tags: r.tagList(name("igw"))}); err != nil {
		return err
	}
	if err := r.add(gatewayAttachmentID, ec2.VPCGatewayAttachment{
		VpcId:             vpc,
		InternetGatewayId: intrinsics.Ref{LogicalName: internetGatewayID},
	}); err != nil {
		return err
	}

	public := n.SubnetsOf(model.SubnetPublic)
	private := n.SubnetsOf(model.SubnetPrivate)

	for _, s := range n.Subnets {
		role := "kubernetes.io/role/internal-elb"
		if s.Kind == model.SubnetPublic {
			role = "kubernetes.io/role/elb"
		}
		tags := name(fmt.Sprintf("%s-subnet-%d", s.Kind, s.Zone+1))
		tags[role] = "1"
		if err := r.add(s.ID, ec2.Subnet{
			VpcId:               vpc,
			CidrBlock:           s.CIDR,
			AvailabilityZone:    intrinsics.Select{Index: s.Zone, List: intrinsics.GetAZs{}},
			MapPublicIpOnLaunch: s.Kind == model.SubnetPublic,
			Tags:                r.tagList(tags),
		}); err != nil {
			return err
		}
	}

	if err := r.add(publicRouteTableID, ec2.RouteTable{VpcId: vpc, Tags: r.tagList(name("public-rt"))}); err != nil {
		return err
	}
	if err := r.add("PublicDefaultRoute", ec2.Route{
		RouteTableId:         intrinsics.Ref{LogicalName: publicRouteTableID},
		DestinationCidrBlock: anyIPv4,
		GatewayId:            intrinsics.Ref{LogicalName: internetGatewayID},
	}, gatewayAttachmentID); err != nil {
		return err
	}
	for _, s := range public {
		if err := r.associate(s, publicRouteTableID); err != nil {
			return err
		}
	}

	for i := 0; i < n.NATGateways; i++ {
		eip := natGatewayID(i) + "EIP"
		if err := r.add(eip, ec2.EIP{Domain: "vpc", Tags: r.tagList(name(fmt.Sprintf("nat-eip-%d", i+1)))}, gatewayAttachmentID); err != nil {
			return err
		}
		if err := r.add(natGatewayID(i), ec2.NatGateway{
			SubnetId:     intrinsics.Ref{LogicalName: public[i].ID},
			AllocationId: intrinsics.GetAtt{LogicalName: eip, Attribute: "AllocationId"},
			Tags:         r.tagList(name(fmt.Sprintf("nat-%d", i+1))),
		}); err != nil {
			return err
		}
	}

	for i, s := range private {
		rt := fmt.Sprintf("PrivateRouteTable%d", i+1)
		if err := r.add(rt, ec2.RouteTable{VpcId: vpc, Tags: r.tagList(name(fmt.Sprintf("private-rt-%d", i+1)))}); err != nil {
			return err
		}
		if n.NATGateways > 0 {
			if err := r.add(fmt.Sprintf("PrivateDefaultRoute%d", i+1), ec2.Route{
				RouteTableId:         intrinsics.Ref{LogicalName: rt},
				DestinationCidrBlock: anyIPv4,
				NatGatewayId:         intrinsics.Ref{LogicalName: natGatewayID(s.Zone % n.NATGateways)},
			}); err != nil {
				return err
			}
		}
		if err := r.associate(s, rt); err != nil {
			return err
		}
	}

	return r.networkExports(n)
}

func (r *renderer) associate(s model.Subnet, routeTable string) error {
	return r.add(s.ID+"RouteTableAssociation", ec2.SubnetRouteTableAssociation{
		RouteTableId: intrinsics.Ref{LogicalName: routeTable},
		SubnetId:     intrinsics.Ref{LogicalName: s.ID},
	})
}

func (r *renderer) networkExports(n *model.Network) error {
	ids := []string{n.ID}
	for _, s := range n.Subnets {
		ids = append(ids, s.ID)
	}
	for _, id := range ids {
		if err := r.builder.AddOutput(id, simpleeks.Output{
			Description: fmt.Sprintf("%s of %s", id, n.StackName),
			Value:       intrinsics.Ref{LogicalName: id},
			Export:      &simpleeks.Export{Name: n.ExportName(id)},
		}); err != nil {
			return err
		}
	}
	return nil
}
