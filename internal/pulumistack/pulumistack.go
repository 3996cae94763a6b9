// Package pulumistack declares model graphs through the Pulumi AWS provider.
//
// All graphs of an App are declared into one Pulumi program. A graph that
// consumes a network owned by another graph resolves it from the resources
// already declared in the program, so graphs are declared in deployment
// order.
package pulumistack

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/eks"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/miztiik/simple-eks-cluster/model"
)

// DefaultPartition is used when Options.Partition is empty.
const DefaultPartition = "aws"

// Options carry the account facts the trust policies need.
type Options struct {
	Partition string
	// AccountID is required when a role trusts the account root.
	AccountID string
}

func (o Options) partition() string {
	if o.Partition == "" {
		return DefaultPartition
	}
	return o.Partition
}

type networkResources struct {
	vpc     *ec2.Vpc
	subnets map[string]*ec2.Subnet
}

type program struct {
	ctx      *pulumi.Context
	opts     Options
	zones    []string
	networks map[string]*networkResources
}

// Declare registers every resource and output of the graphs with ctx.
func Declare(ctx *pulumi.Context, opts Options, graphs ...*model.Graph) error {
	p := &program{
		ctx:      ctx,
		opts:     opts,
		networks: map[string]*networkResources{},
	}
	for _, g := range graphs {
		if err := p.declare(g); err != nil {
			return fmt.Errorf("stack %s: %w", g.Name(), err)
		}
	}
	return nil
}

func (p *program) declare(g *model.Graph) error {
	s := &stack{program: p, graph: g, tags: g.Tags()}
	if n := g.Network(); n != nil {
		if err := s.network(n); err != nil {
			return err
		}
	}
	if err := s.roles(); err != nil {
		return err
	}
	if err := s.securityGroups(); err != nil {
		return err
	}
	if err := s.cluster(); err != nil {
		return err
	}
	if err := s.capacity(); err != nil {
		return err
	}
	return s.outputs()
}

// availabilityZones looks the region's zones up once per program.
func (p *program) availabilityZones() ([]string, error) {
	if p.zones != nil {
		return p.zones, nil
	}
	available, err := aws.GetAvailabilityZones(p.ctx, &aws.GetAvailabilityZonesArgs{
		State: pulumi.StringRef("available"),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("looking up availability zones: %w", err)
	}
	p.zones = available.Names
	return p.zones, nil
}

func (p *program) lookupNetwork(n *model.Network) (*networkResources, error) {
	if n == nil {
		return nil, fmt.Errorf("no network")
	}
	net, ok := p.networks[n.ID]
	if !ok {
		return nil, fmt.Errorf("network %s of stack %s is not declared; declare that stack first", n.ID, n.StackName)
	}
	return net, nil
}

// stack declares the resources of one graph.
type stack struct {
	*program
	graph *model.Graph
	tags  map[string]string

	iamRoles map[string]*iam.Role
	// rolePolicies holds the attachments and inline policies per role ID.
	rolePolicies map[string][]pulumi.Resource
	sgs          map[string]*ec2.SecurityGroup
	eksCluster   *eks.Cluster
}

func (s *stack) tagMap(extra map[string]string) pulumi.StringMap {
	out := pulumi.StringMap{}
	for k, v := range s.tags {
		out[k] = pulumi.String(v)
	}
	for k, v := range extra {
		out[k] = pulumi.String(v)
	}
	return out
}

func (s *stack) subnetIDs(n *model.Network, subnets []model.Subnet) (pulumi.StringArray, error) {
	net, err := s.lookupNetwork(n)
	if err != nil {
		return nil, err
	}
	ids := pulumi.StringArray{}
	for _, sub := range subnets {
		res, ok := net.subnets[sub.ID]
		if !ok {
			return nil, fmt.Errorf("subnet %s is not declared", sub.ID)
		}
		ids = append(ids, res.ID().ToStringOutput())
	}
	return ids, nil
}

func (s *stack) outputs() error {
	for _, o := range s.graph.Outputs() {
		value, err := s.outputValue(o.Value)
		if err != nil {
			return fmt.Errorf("output %s: %w", o.Name, err)
		}
		s.ctx.Export(o.Name, value)
	}
	return nil
}

func (s *stack) outputValue(v model.OutputValue) (pulumi.Input, error) {
	if !v.IsReference() {
		return pulumi.String(v.Literal), nil
	}

	if c := s.eksCluster; c != nil && s.graph.Cluster().ID == v.Target {
		switch v.Attribute {
		case model.AttrName:
			return c.Name, nil
		case model.AttrArn:
			return c.Arn, nil
		case model.AttrEndpoint:
			return c.Endpoint, nil
		case model.AttrOIDCIssuer:
			return c.Identities.Index(pulumi.Int(0)).Oidcs().Index(pulumi.Int(0)).Issuer().Elem(), nil
		}
		return nil, fmt.Errorf("cluster has no attribute %s", v.Attribute)
	}
	if role, ok := s.iamRoles[v.Target]; ok {
		switch v.Attribute {
		case model.AttrName:
			return role.Name, nil
		case model.AttrArn:
			return role.Arn, nil
		}
	}
	return nil, fmt.Errorf("cannot resolve %s.%s", v.Target, v.Attribute)
}
