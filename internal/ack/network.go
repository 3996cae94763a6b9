package ack

import (
	"fmt"

	"github.com/miztiik/simple-eks-cluster/model"
	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
	ec2v1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/ec2/v1alpha1"
)

const anyIPv4 = "0.0.0.0/0"

func (s *stack) ec2Tags(extra map[string]string) []*ec2v1alpha1.Tag {
	merged := s.mergedTags(extra)
	out := make([]*ec2v1alpha1.Tag, 0, len(merged))
	for _, k := range sortedKeys(merged) {
		out = append(out, &ec2v1alpha1.Tag{Key: ptr(k), Value: ptr(merged[k])})
	}
	return out
}

func (s *stack) network(n *model.Network) error {
	s.networks[networkKey(n)] = true
	nameTag := func(suffix string) map[string]string {
		return map[string]string{"Name": n.StackName + "/" + suffix}
	}
	names := &namer{stack: s, network: n}

	vpc := names.get(n.ID)
	s.add(&ec2v1alpha1.VPC{
		TypeMeta:   ec2v1alpha1.TypeMeta("VPC"),
		ObjectMeta: s.meta(vpc),
		Spec: ec2v1alpha1.VPCSpec{
			CIDRBlocks:         []*string{ptr(n.CIDR)},
			EnableDNSHostnames: ptr(true),
			EnableDNSSupport:   ptr(true),
			InstanceTenancy:    ptr("default"),
			Tags:               s.ec2Tags(nameTag("vpc")),
		},
	})

	igw := names.get("InternetGateway")
	s.add(&ec2v1alpha1.InternetGateway{
		TypeMeta:   ec2v1alpha1.TypeMeta("InternetGateway"),
		ObjectMeta: s.meta(igw),
		Spec: ec2v1alpha1.InternetGatewaySpec{
			VPCRef: ackv1alpha1.Ref(vpc),
			Tags:   s.ec2Tags(nameTag("igw")),
		},
	})

	publicRT := names.get("PublicRouteTable")
	s.add(&ec2v1alpha1.RouteTable{
		TypeMeta:   ec2v1alpha1.TypeMeta("RouteTable"),
		ObjectMeta: s.meta(publicRT),
		Spec: ec2v1alpha1.RouteTableSpec{
			VPCRef: ackv1alpha1.Ref(vpc),
			Routes: []*ec2v1alpha1.CreateRouteInput{{
				DestinationCIDRBlock: ptr(anyIPv4),
				GatewayRef:           ackv1alpha1.Ref(igw),
			}},
			Tags: s.ec2Tags(nameTag("public-rt")),
		},
	})

	public := n.SubnetsOf(model.SubnetPublic)
	if n.NATGateways > len(public) {
		return fmt.Errorf("network %s has %d NAT gateways but %d public subnets", n.ID, n.NATGateways, len(public))
	}
	var nats []string
	for i := 0; i < n.NATGateways; i++ {
		eipID := fmt.Sprintf("NatGateway%dEIP", i+1)
		natID := fmt.Sprintf("NatGateway%d", i+1)
		eip, nat := names.get(eipID), names.get(natID)
		s.add(&ec2v1alpha1.ElasticIPAddress{
			TypeMeta:   ec2v1alpha1.TypeMeta("ElasticIPAddress"),
			ObjectMeta: s.meta(eip),
			Spec: ec2v1alpha1.ElasticIPAddressSpec{
				Tags: s.ec2Tags(nameTag(fmt.Sprintf("nat-eip-%d", i+1))),
			},
		})
		s.add(&ec2v1alpha1.NATGateway{
			TypeMeta:   ec2v1alpha1.TypeMeta("NATGateway"),
			ObjectMeta: s.meta(nat),
			Spec: ec2v1alpha1.NATGatewaySpec{
				AllocationRef:    ackv1alpha1.Ref(eip),
				SubnetRef:        ackv1alpha1.Ref(names.get(public[i].ID)),
				ConnectivityType: ptr("public"),
				Tags:             s.ec2Tags(nameTag(fmt.Sprintf("nat-%d", i+1))),
			},
		})
		nats = append(nats, nat)
	}

	routeTables := map[string]string{}
	for _, sub := range public {
		routeTables[sub.ID] = publicRT
	}
	for i, sub := range n.SubnetsOf(model.SubnetPrivate) {
		rt := names.get(fmt.Sprintf("PrivateRouteTable%d", i+1))
		spec := ec2v1alpha1.RouteTableSpec{
			VPCRef: ackv1alpha1.Ref(vpc),
			Tags:   s.ec2Tags(nameTag(fmt.Sprintf("private-rt-%d", i+1))),
		}
		if len(nats) > 0 {
			spec.Routes = []*ec2v1alpha1.CreateRouteInput{{
				DestinationCIDRBlock: ptr(anyIPv4),
				NATGatewayRef:        ackv1alpha1.Ref(nats[sub.Zone%len(nats)]),
			}}
		}
		s.add(&ec2v1alpha1.RouteTable{
			TypeMeta:   ec2v1alpha1.TypeMeta("RouteTable"),
			ObjectMeta: s.meta(rt),
			Spec:       spec,
		})
		routeTables[sub.ID] = rt
	}

	for _, sub := range n.Subnets {
		zone, err := s.opts.zone(sub.Zone)
		if err != nil {
			return fmt.Errorf("subnet %s: %w", sub.ID, err)
		}
		role := "kubernetes.io/role/internal-elb"
		if sub.Kind == model.SubnetPublic {
			role = "kubernetes.io/role/elb"
		}
		tags := nameTag(fmt.Sprintf("%s-subnet-%d", sub.Kind, sub.Zone+1))
		tags[role] = "1"
		s.add(&ec2v1alpha1.Subnet{
			TypeMeta:   ec2v1alpha1.TypeMeta("Subnet"),
			ObjectMeta: s.meta(names.get(sub.ID)),
			Spec: ec2v1alpha1.SubnetSpec{
				AvailabilityZone:    ptr(zone),
				CIDRBlock:           ptr(sub.CIDR),
				VPCRef:              ackv1alpha1.Ref(vpc),
				MapPublicIPOnLaunch: ptr(sub.Kind == model.SubnetPublic),
				RouteTableRefs:      ackv1alpha1.Refs(routeTables[sub.ID]),
				Tags:                s.ec2Tags(tags),
			},
		})
	}
	return names.err
}

// namer resolves network object names, keeping the first error.
type namer struct {
	stack   *stack
	network *model.Network
	err     error
}

func (nm *namer) get(id string) string {
	if nm.err != nil {
		return ""
	}
	out, err := nm.stack.networkName(nm.network, id)
	nm.err = err
	return out
}
