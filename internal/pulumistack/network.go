package pulumistack

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/miztiik/simple-eks-cluster/model"
)

const anyIPv4 = "0.0.0.0/0"

func (s *stack) network(n *model.Network) error {
	zones, err := s.availabilityZones()
	if err != nil {
		return err
	}
	if len(zones) < n.Zones() {
		return fmt.Errorf("network %s spans %d zones but the region has %d", n.ID, n.Zones(), len(zones))
	}
	name := func(suffix string) map[string]string {
		return map[string]string{"Name": n.StackName + "/" + suffix}
	}

	vpc, err := ec2.NewVpc(s.ctx, n.ID, &ec2.VpcArgs{
		CidrBlock:          pulumi.String(n.CIDR),
		EnableDnsHostnames: pulumi.Bool(true),
		EnableDnsSupport:   pulumi.Bool(true),
		InstanceTenancy:    pulumi.String("default"),
		Tags:               s.tagMap(name("vpc")),
	})
	if err != nil {
		return err
	}
	net := &networkResources{vpc: vpc, subnets: map[string]*ec2.Subnet{}}
	s.networks[n.ID] = net
	s.ctx.Export(n.ExportName(n.ID), vpc.ID())

	igw, err := ec2.NewInternetGateway(s.ctx, "InternetGateway", &ec2.InternetGatewayArgs{
		VpcId: vpc.ID(),
		Tags:  s.tagMap(name("igw")),
	})
	if err != nil {
		return err
	}

	for _, sub := range n.Subnets {
		role := "kubernetes.io/role/internal-elb"
		if sub.Kind == model.SubnetPublic {
			role = "kubernetes.io/role/elb"
		}
		tags := name(fmt.Sprintf("%s-subnet-%d", sub.Kind, sub.Zone+1))
		tags[role] = "1"
		res, err := ec2.NewSubnet(s.ctx, sub.ID, &ec2.SubnetArgs{
			VpcId:               vpc.ID(),
			CidrBlock:           pulumi.String(sub.CIDR),
			AvailabilityZone:    pulumi.String(zones[sub.Zone]),
			MapPublicIpOnLaunch: pulumi.Bool(sub.Kind == model.SubnetPublic),
			Tags:                s.tagMap(tags),
		})
		if err != nil {
			return err
		}
		net.subnets[sub.ID] = res
		s.ctx.Export(n.ExportName(sub.ID), res.ID())
	}

	publicRT, err := ec2.NewRouteTable(s.ctx, "PublicRouteTable", &ec2.RouteTableArgs{
		VpcId: vpc.ID(),
		Routes: ec2.RouteTableRouteArray{
			&ec2.RouteTableRouteArgs{
				CidrBlock: pulumi.String(anyIPv4),
				GatewayId: igw.ID(),
			},
		},
		Tags: s.tagMap(name("public-rt")),
	})
	if err != nil {
		return err
	}

	public := n.SubnetsOf(model.SubnetPublic)
	for _, sub := range public {
		if err := s.associate(net, sub, publicRT); err != nil {
			return err
		}
	}

	var nats []*ec2.NatGateway
	for i := 0; i < n.NATGateways; i++ {
		eip, err := ec2.NewEip(s.ctx, fmt.Sprintf("NatGateway%dEIP", i+1), &ec2.EipArgs{
			Domain: pulumi.String("vpc"),
			Tags:   s.tagMap(name(fmt.Sprintf("nat-eip-%d", i+1))),
		}, pulumi.DependsOn([]pulumi.Resource{igw}))
		if err != nil {
			return err
		}
		nat, err := ec2.NewNatGateway(s.ctx, fmt.Sprintf("NatGateway%d", i+1), &ec2.NatGatewayArgs{
			AllocationId: eip.ID(),
			SubnetId:     net.subnets[public[i].ID].ID(),
			Tags:         s.tagMap(name(fmt.Sprintf("nat-%d", i+1))),
		}, pulumi.DependsOn([]pulumi.Resource{igw}))
		if err != nil {
			return err
		}
		nats = append(nats, nat)
	}

	for i, sub := range n.SubnetsOf(model.SubnetPrivate) {
		args := &ec2.RouteTableArgs{
			VpcId: vpc.ID(),
			Tags:  s.tagMap(name(fmt.Sprintf("private-rt-%d", i+1))),
		}
		if len(nats) > 0 {
			args.Routes = ec2.RouteTableRouteArray{
				&ec2.RouteTableRouteArgs{
					CidrBlock:    pulumi.String(anyIPv4),
					NatGatewayId: nats[sub.Zone%len(nats)].ID(),
				},
			}
		}
		rt, err := ec2.NewRouteTable(s.ctx, fmt.Sprintf("PrivateRouteTable%d", i+1), args)
		if err != nil {
			return err
		}
		if err := s.associate(net, sub, rt); err != nil {
			return err
		}
	}
	return nil
}

func (s *stack) associate(net *networkResources, sub model.Subnet, rt *ec2.RouteTable) error {
	_, err := ec2.NewRouteTableAssociation(s.ctx, sub.ID+"RouteTableAssociation", &ec2.RouteTableAssociationArgs{
		SubnetId:     net.subnets[sub.ID].ID(),
		RouteTableId: rt.ID(),
	})
	return err
}
