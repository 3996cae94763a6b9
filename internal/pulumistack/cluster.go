package pulumistack

import (
	"fmt"
	"sort"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/eks"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/miztiik/simple-eks-cluster/internal/policydoc"
	"github.com/miztiik/simple-eks-cluster/model"
)

// Access entry settings for the masters role.
const (
	AuthenticationMode = model.AuthenticationMode
	ClusterAdminPolicy = model.ClusterAdminPolicy
)

func (s *stack) roles() error {
	s.iamRoles = map[string]*iam.Role{}
	s.rolePolicies = map[string][]pulumi.Resource{}
	for _, role := range s.graph.Roles() {
		trust, err := policydoc.Trust(role, s.opts.partition(), s.opts.AccountID)
		if err != nil {
			return fmt.Errorf("role %s: %w", role.ID, err)
		}
		args := &iam.RoleArgs{
			AssumeRolePolicy: pulumi.String(trust),
			Tags:             s.tagMap(nil),
		}
		if role.Name != "" {
			args.Name = pulumi.String(role.Name)
		}
		if role.Description != "" {
			args.Description = pulumi.String(role.Description)
		}
		res, err := iam.NewRole(s.ctx, role.ID, args)
		if err != nil {
			return err
		}
		s.iamRoles[role.ID] = res

		for i, p := range role.ManagedPolicies {
			attachment, err := iam.NewRolePolicyAttachment(s.ctx, fmt.Sprintf("%sPolicyAttachment%d", role.ID, i+1), &iam.RolePolicyAttachmentArgs{
				Role:      res.Name,
				PolicyArn: pulumi.String(p.ARN(s.opts.partition())),
			})
			if err != nil {
				return err
			}
			s.rolePolicies[role.ID] = append(s.rolePolicies[role.ID], attachment)
		}

		if len(role.Statements) > 0 {
			policy, err := policydoc.Inline(role.Statements)
			if err != nil {
				return fmt.Errorf("role %s: %w", role.ID, err)
			}
			inline, err := iam.NewRolePolicy(s.ctx, role.ID+"Policy", &iam.RolePolicyArgs{
				Name:   pulumi.String(role.ID + "Policy"),
				Role:   res.Name,
				Policy: pulumi.String(policy),
			}, pulumi.DependsOn([]pulumi.Resource{res}))
			if err != nil {
				return err
			}
			s.rolePolicies[role.ID] = append(s.rolePolicies[role.ID], inline)
		}
	}
	return nil
}

func (s *stack) securityGroups() error {
	s.sgs = map[string]*ec2.SecurityGroup{}
	for _, sg := range s.graph.SecurityGroups() {
		net, err := s.lookupNetwork(sg.Network)
		if err != nil {
			return fmt.Errorf("security group %s: %w", sg.ID, err)
		}
		args := &ec2.SecurityGroupArgs{
			Description: pulumi.String(sg.Description),
			VpcId:       net.vpc.ID(),
			Tags:        s.tagMap(sg.Tags),
		}
		if sg.Name != "" {
			args.Name = pulumi.String(sg.Name)
		}
		if sg.AllowAllOutbound {
			args.Egress = ec2.SecurityGroupEgressArray{
				ec2.SecurityGroupEgressArgs{
					Protocol:    pulumi.String(model.ProtocolAll),
					FromPort:    pulumi.Int(0),
					ToPort:      pulumi.Int(0),
					CidrBlocks:  pulumi.StringArray{pulumi.String(anyIPv4)},
					Description: pulumi.String("Allow all outbound traffic by default"),
				},
			}
		}

		var selfRules []model.IngressRule
		ingress := ec2.SecurityGroupIngressArray{}
		for _, rule := range sg.Ingress {
			if rule.Self {
				selfRules = append(selfRules, rule)
				continue
			}
			from, to := ports(rule)
			ingress = append(ingress, ec2.SecurityGroupIngressArgs{
				Protocol:    pulumi.String(rule.Protocol),
				FromPort:    pulumi.Int(from),
				ToPort:      pulumi.Int(to),
				CidrBlocks:  pulumi.StringArray{pulumi.String(rule.SourceCIDR)},
				Description: pulumi.String(rule.Description),
			})
		}
		if len(ingress) > 0 {
			args.Ingress = ingress
		}

		res, err := ec2.NewSecurityGroup(s.ctx, sg.ID, args)
		if err != nil {
			return err
		}
		s.sgs[sg.ID] = res

		for i, rule := range selfRules {
			from, to := ports(rule)
			_, err := ec2.NewSecurityGroupRule(s.ctx, fmt.Sprintf("%sSelfIngress%d", sg.ID, i+1), &ec2.SecurityGroupRuleArgs{
				Type:            pulumi.String("ingress"),
				SecurityGroupId: res.ID(),
				Self:            pulumi.Bool(true),
				Protocol:        pulumi.String(rule.Protocol),
				FromPort:        pulumi.Int(from),
				ToPort:          pulumi.Int(to),
				Description:     pulumi.String(rule.Description),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ports returns the port range of a rule; all-protocol rules use 0-0.
func ports(rule model.IngressRule) (int, int) {
	if rule.Protocol == model.ProtocolAll {
		return 0, 0
	}
	return rule.FromPort, rule.ToPort
}

func (s *stack) cluster() error {
	c := s.graph.Cluster()
	if c == nil {
		return nil
	}
	subnets, err := s.subnetIDs(c.Network, c.Subnets())
	if err != nil {
		return fmt.Errorf("cluster %s: %w", c.ID, err)
	}
	serviceRole, err := s.role(c.ServiceRole)
	if err != nil {
		return err
	}
	mastersRole, err := s.role(c.MastersRole)
	if err != nil {
		return err
	}
	sg, ok := s.sgs[c.SecurityGroup.ID]
	if !ok {
		return fmt.Errorf("security group %s is not declared", c.SecurityGroup.ID)
	}

	cluster, err := eks.NewCluster(s.ctx, c.ID, &eks.ClusterArgs{
		Name:    pulumi.String(c.Name),
		Version: pulumi.String(c.Version),
		RoleArn: serviceRole.Arn,
		VpcConfig: &eks.ClusterVpcConfigArgs{
			SubnetIds:             subnets,
			SecurityGroupIds:      pulumi.StringArray{sg.ID().ToStringOutput()},
			EndpointPublicAccess:  pulumi.Bool(c.EndpointAccess.PublicAccess()),
			EndpointPrivateAccess: pulumi.Bool(c.EndpointAccess.PrivateAccess()),
		},
		AccessConfig: &eks.ClusterAccessConfigArgs{
			AuthenticationMode:                      pulumi.String(AuthenticationMode),
			BootstrapClusterCreatorAdminPermissions: pulumi.Bool(true),
		},
		Tags: s.tagMap(nil),
	}, pulumi.DependsOn(s.withPolicies(c.ServiceRole.ID, serviceRole)))
	if err != nil {
		return err
	}
	s.eksCluster = cluster

	entry, err := eks.NewAccessEntry(s.ctx, c.ID+"MastersAccessEntry", &eks.AccessEntryArgs{
		ClusterName:  cluster.Name,
		PrincipalArn: mastersRole.Arn,
		Type:         pulumi.String("STANDARD"),
		Tags:         s.tagMap(nil),
	})
	if err != nil {
		return err
	}
	_, err = eks.NewAccessPolicyAssociation(s.ctx, c.ID+"MastersAccessPolicy", &eks.AccessPolicyAssociationArgs{
		ClusterName:  cluster.Name,
		PrincipalArn: mastersRole.Arn,
		PolicyArn:    pulumi.String(model.ClusterAdminPolicyARN(s.opts.partition())),
		AccessScope: &eks.AccessPolicyAssociationAccessScopeArgs{
			Type: pulumi.String("cluster"),
		},
	}, pulumi.DependsOn([]pulumi.Resource{entry}))
	return err
}

func (s *stack) role(r *model.Role) (*iam.Role, error) {
	if r == nil {
		return nil, fmt.Errorf("missing role")
	}
	res, ok := s.iamRoles[r.ID]
	if !ok {
		return nil, fmt.Errorf("role %s is not declared", r.ID)
	}
	return res, nil
}

// withPolicies appends the policies attached to role roleID to deps. A
// resource acting as the role must be created after its policies are
// attached and deleted before they are detached.
func (s *stack) withPolicies(roleID string, deps ...pulumi.Resource) []pulumi.Resource {
	return append(deps, s.rolePolicies[roleID]...)
}

func (s *stack) capacity() error {
	for _, ng := range s.graph.NodeGroups() {
		if err := s.nodeGroup(ng); err != nil {
			return fmt.Errorf("node group %s: %w", ng.ID, err)
		}
	}
	for _, fp := range s.graph.FargateProfiles() {
		if err := s.fargateProfile(fp); err != nil {
			return fmt.Errorf("fargate profile %s: %w", fp.ID, err)
		}
	}
	return nil
}

func (s *stack) nodeGroup(ng *model.NodeGroup) error {
	if s.eksCluster == nil {
		return fmt.Errorf("cluster is not declared")
	}
	subnets, err := s.subnetIDs(ng.Cluster.Network, ng.Subnets())
	if err != nil {
		return err
	}
	nodeRole, err := s.role(ng.NodeRole)
	if err != nil {
		return err
	}

	labels := pulumi.StringMap{}
	for _, k := range sortedKeys(ng.Labels) {
		labels[k] = pulumi.String(ng.Labels[k])
	}
	instanceTypes := pulumi.StringArray{}
	for _, it := range ng.InstanceTypes {
		instanceTypes = append(instanceTypes, pulumi.String(it))
	}

	_, err = eks.NewNodeGroup(s.ctx, ng.ID, &eks.NodeGroupArgs{
		ClusterName:   s.eksCluster.Name,
		NodeGroupName: pulumi.String(ng.Name),
		NodeRoleArn:   nodeRole.Arn,
		SubnetIds:     subnets,
		InstanceTypes: instanceTypes,
		DiskSize:      pulumi.Int(ng.DiskSize),
		AmiType:       pulumi.String(string(ng.AMIType)),
		CapacityType:  pulumi.String(string(ng.CapacityType)),
		Labels:        labels,
		ScalingConfig: &eks.NodeGroupScalingConfigArgs{
			DesiredSize: pulumi.Int(ng.Scaling.Desired),
			MaxSize:     pulumi.Int(ng.Scaling.Max),
			MinSize:     pulumi.Int(ng.Scaling.Min),
		},
		Tags: s.tagMap(nil),
	}, pulumi.DependsOn(s.withPolicies(ng.NodeRole.ID, s.eksCluster, nodeRole)))
	return err
}

func (s *stack) fargateProfile(fp *model.FargateProfile) error {
	if s.eksCluster == nil {
		return fmt.Errorf("cluster is not declared")
	}
	subnets, err := s.subnetIDs(fp.Cluster.Network, fp.Subnets())
	if err != nil {
		return err
	}
	podRole, err := s.role(fp.PodExecutionRole)
	if err != nil {
		return err
	}

	selectors := eks.FargateProfileSelectorArray{}
	for _, sel := range fp.Selectors {
		labels := pulumi.StringMap{}
		for k, v := range sel.Labels {
			labels[k] = pulumi.String(v)
		}
		selectors = append(selectors, &eks.FargateProfileSelectorArgs{
			Namespace: pulumi.String(sel.Namespace),
			Labels:    labels,
		})
	}

	_, err = eks.NewFargateProfile(s.ctx, fp.ID, &eks.FargateProfileArgs{
		ClusterName:         s.eksCluster.Name,
		FargateProfileName:  pulumi.String(fp.Name),
		PodExecutionRoleArn: podRole.Arn,
		SubnetIds:           subnets,
		Selectors:           selectors,
		Tags:                s.tagMap(nil),
	}, pulumi.DependsOn(s.withPolicies(fp.PodExecutionRole.ID, s.eksCluster, podRole)))
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
