package ack

import (
	"fmt"

	"github.com/miztiik/simple-eks-cluster/internal/policydoc"
	"github.com/miztiik/simple-eks-cluster/model"
	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
	ec2v1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/ec2/v1alpha1"
	eksv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/eks/v1alpha1"
	iamv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/iam/v1alpha1"
)

// maxRoleName is the IAM limit on role names.
const maxRoleName = 64

func (s *stack) roles() error {
	for _, role := range s.graph.Roles() {
		objectName, err := s.name(role.ID)
		if err != nil {
			return fmt.Errorf("role %s: %w", role.ID, err)
		}
		roleName := role.Name
		if roleName == "" {
			roleName = objectName
			if len(roleName) > maxRoleName {
				roleName = roleName[:maxRoleName]
			}
		}
		s.roleNames[role.ID] = roleName

		trust, err := policydoc.Trust(role, s.opts.partition(), s.opts.AccountID)
		if err != nil {
			return fmt.Errorf("role %s: %w", role.ID, err)
		}
		spec := iamv1alpha1.RoleSpec{
			Name:                     roleName,
			AssumeRolePolicyDocument: ptr(trust),
		}
		if role.Description != "" {
			spec.Description = ptr(role.Description)
		}
		for _, p := range role.ManagedPolicies {
			spec.Policies = append(spec.Policies, ptr(p.ARN(s.opts.partition())))
		}
		if len(role.Statements) > 0 {
			policy, err := policydoc.Inline(role.Statements)
			if err != nil {
				return fmt.Errorf("role %s: %w", role.ID, err)
			}
			spec.InlinePolicies = map[string]*string{role.ID + "Policy": ptr(policy)}
		}
		tags := s.mergedTags(nil)
		for _, k := range sortedKeys(tags) {
			spec.Tags = append(spec.Tags, &iamv1alpha1.Tag{Key: ptr(k), Value: ptr(tags[k])})
		}

		s.add(&iamv1alpha1.Role{
			TypeMeta:   iamv1alpha1.TypeMeta("Role"),
			ObjectMeta: s.meta(objectName),
			Spec:       spec,
		})
	}
	return nil
}

func (s *stack) securityGroups() error {
	for _, sg := range s.graph.SecurityGroups() {
		objectName, err := s.name(sg.ID)
		if err != nil {
			return fmt.Errorf("security group %s: %w", sg.ID, err)
		}
		vpc, err := s.networkName(sg.Network, sg.Network.ID)
		if err != nil {
			return fmt.Errorf("security group %s: %w", sg.ID, err)
		}
		groupName := sg.Name
		if groupName == "" {
			groupName = objectName
		}
		spec := ec2v1alpha1.SecurityGroupSpec{
			Name:        ptr(groupName),
			Description: ptr(sg.Description),
			VPCRef:      ackv1alpha1.Ref(vpc),
			Tags:        s.ec2Tags(sg.Tags),
		}
		if sg.AllowAllOutbound {
			spec.EgressRules = []*ec2v1alpha1.IPPermission{{
				IPProtocol: ptr(model.ProtocolAll),
				IPRanges: []*ec2v1alpha1.IPRange{{
					CIDRIP:      ptr(anyIPv4),
					Description: ptr("Allow all outbound traffic by default"),
				}},
			}}
		}
		for _, rule := range sg.Ingress {
			perm := &ec2v1alpha1.IPPermission{IPProtocol: ptr(rule.Protocol)}
			if rule.Protocol != model.ProtocolAll {
				perm.FromPort = ptr(int64(rule.FromPort))
				perm.ToPort = ptr(int64(rule.ToPort))
			}
			if rule.Self {
				perm.UserIDGroupPairs = []*ec2v1alpha1.UserIDGroupPair{{
					Description: ptr(rule.Description),
					GroupRef:    ackv1alpha1.Ref(objectName),
				}}
			} else {
				perm.IPRanges = []*ec2v1alpha1.IPRange{{
					CIDRIP:      ptr(rule.SourceCIDR),
					Description: ptr(rule.Description),
				}}
			}
			spec.IngressRules = append(spec.IngressRules, perm)
		}

		s.add(&ec2v1alpha1.SecurityGroup{
			TypeMeta:   ec2v1alpha1.TypeMeta("SecurityGroup"),
			ObjectMeta: s.meta(objectName),
			Spec:       spec,
		})
	}
	return nil
}

func (s *stack) cluster() error {
	c := s.graph.Cluster()
	if c == nil {
		return nil
	}
	objectName, err := s.name(c.ID)
	if err != nil {
		return fmt.Errorf("cluster %s: %w", c.ID, err)
	}
	subnets, err := s.subnetNames(c.Network, c.Subnets())
	if err != nil {
		return fmt.Errorf("cluster %s: %w", c.ID, err)
	}
	serviceRole, err := s.name(c.ServiceRole.ID)
	if err != nil {
		return err
	}
	sg, err := s.name(c.SecurityGroup.ID)
	if err != nil {
		return err
	}

	s.add(&eksv1alpha1.Cluster{
		TypeMeta:   eksv1alpha1.TypeMeta("Cluster"),
		ObjectMeta: s.meta(objectName),
		Spec: eksv1alpha1.ClusterSpec{
			Name:    c.Name,
			Version: ptr(c.Version),
			RoleRef: ackv1alpha1.Ref(serviceRole),
			ResourcesVPCConfig: &eksv1alpha1.VPCConfigRequest{
				SubnetRefs:            ackv1alpha1.Refs(subnets...),
				SecurityGroupRefs:     ackv1alpha1.Refs(sg),
				EndpointPublicAccess:  ptr(c.EndpointAccess.PublicAccess()),
				EndpointPrivateAccess: ptr(c.EndpointAccess.PrivateAccess()),
			},
			AccessConfig: &eksv1alpha1.CreateAccessConfigRequest{
				AuthenticationMode:                      ptr(model.AuthenticationMode),
				BootstrapClusterCreatorAdminPermissions: ptr(true),
			},
			Tags: s.tagMap(nil),
		},
	})

	return s.mastersAccessEntry(c, objectName)
}

// mastersAccessEntry grants the masters role cluster admin through the
// access entry API. The role is referenced by ARN, which needs the account.
func (s *stack) mastersAccessEntry(c *model.Cluster, cluster string) error {
	if s.opts.AccountID == "" {
		return fmt.Errorf("cluster %s: the masters access entry needs an account ID", c.ID)
	}
	roleName, ok := s.roleNames[c.MastersRole.ID]
	if !ok {
		return fmt.Errorf("cluster %s: masters role %s is not declared", c.ID, c.MastersRole.ID)
	}
	objectName, err := s.name(c.ID + "MastersAccessEntry")
	if err != nil {
		return err
	}
	s.add(&eksv1alpha1.AccessEntry{
		TypeMeta:   eksv1alpha1.TypeMeta("AccessEntry"),
		ObjectMeta: s.meta(objectName),
		Spec: eksv1alpha1.AccessEntrySpec{
			ClusterRef:   ackv1alpha1.Ref(cluster),
			PrincipalARN: ptr(fmt.Sprintf("arn:%s:iam::%s:role/%s", s.opts.partition(), s.opts.AccountID, roleName)),
			Type:         ptr("STANDARD"),
			AccessPolicies: []*eksv1alpha1.AccessPolicy{{
				PolicyARN:   ptr(model.ClusterAdminPolicyARN(s.opts.partition())),
				AccessScope: &eksv1alpha1.AccessScope{Type: ptr("cluster")},
			}},
			Tags: s.tagMap(nil),
		},
	})
	return nil
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
	objectName, err := s.name(ng.ID)
	if err != nil {
		return err
	}
	cluster, err := s.name(ng.Cluster.ID)
	if err != nil {
		return err
	}
	nodeRole, err := s.name(ng.NodeRole.ID)
	if err != nil {
		return err
	}
	subnets, err := s.subnetNames(ng.Cluster.Network, ng.Subnets())
	if err != nil {
		return err
	}

	spec := eksv1alpha1.NodegroupSpec{
		Name:        ng.Name,
		ClusterRef:  ackv1alpha1.Ref(cluster),
		NodeRoleRef: ackv1alpha1.Ref(nodeRole),
		SubnetRefs:  ackv1alpha1.Refs(subnets...),
		ScalingConfig: &eksv1alpha1.NodegroupScalingConfig{
			MinSize:     ptr(int64(ng.Scaling.Min)),
			MaxSize:     ptr(int64(ng.Scaling.Max)),
			DesiredSize: ptr(int64(ng.Scaling.Desired)),
		},
		AMIType:      ptr(string(ng.AMIType)),
		CapacityType: ptr(string(ng.CapacityType)),
		DiskSize:     ptr(int64(ng.DiskSize)),
		Tags:         s.tagMap(nil),
	}
	for _, it := range ng.InstanceTypes {
		spec.InstanceTypes = append(spec.InstanceTypes, ptr(it))
	}
	if len(ng.Labels) > 0 {
		spec.Labels = map[string]*string{}
		for k, v := range ng.Labels {
			spec.Labels[k] = ptr(v)
		}
	}

	s.add(&eksv1alpha1.Nodegroup{
		TypeMeta:   eksv1alpha1.TypeMeta("Nodegroup"),
		ObjectMeta: s.meta(objectName),
		Spec:       spec,
	})
	return nil
}

func (s *stack) fargateProfile(fp *model.FargateProfile) error {
	objectName, err := s.name(fp.ID)
	if err != nil {
		return err
	}
	cluster, err := s.name(fp.Cluster.ID)
	if err != nil {
		return err
	}
	podRole, err := s.name(fp.PodExecutionRole.ID)
	if err != nil {
		return err
	}
	subnets, err := s.subnetNames(fp.Cluster.Network, fp.Subnets())
	if err != nil {
		return err
	}

	spec := eksv1alpha1.FargateProfileSpec{
		Name:                fp.Name,
		ClusterRef:          ackv1alpha1.Ref(cluster),
		PodExecutionRoleRef: ackv1alpha1.Ref(podRole),
		SubnetRefs:          ackv1alpha1.Refs(subnets...),
		Tags:                s.tagMap(nil),
	}
	for _, sel := range fp.Selectors {
		selector := &eksv1alpha1.FargateProfileSelector{Namespace: ptr(sel.Namespace)}
		if len(sel.Labels) > 0 {
			selector.Labels = map[string]*string{}
			for k, v := range sel.Labels {
				selector.Labels[k] = ptr(v)
			}
		}
		spec.Selectors = append(spec.Selectors, selector)
	}

	s.add(&eksv1alpha1.FargateProfile{
		TypeMeta:   eksv1alpha1.TypeMeta("FargateProfile"),
		ObjectMeta: s.meta(objectName),
		Spec:       spec,
	})
	return nil
}
