package cfn

import (
	"fmt"
	"sort"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/intrinsics"
	"github.com/miztiik/simple-eks-cluster/model"
	"github.com/miztiik/simple-eks-cluster/resources/ec2"
	"github.com/miztiik/simple-eks-cluster/resources/eks"
)

// Access entry constants for the masters role.
const (
	AuthenticationMode = model.AuthenticationMode
	ClusterAdminPolicy = model.ClusterAdminPolicy
	mastersEntrySuffix = "MastersAccessEntry"
)

func groupID(id string) simpleeks.AttrRef {
	return simpleeks.AttrRef{Resource: id, Attribute: "GroupId"}
}

func (r *renderer) securityGroups() error {
	for _, sg := range r.graph.SecurityGroups() {
		res := ec2.SecurityGroup{
			GroupDescription: sg.Description,
			VpcId:            r.networkRef(sg.Network, sg.Network.ID),
			Tags:             r.tagList(sg.Tags),
		}
		if sg.Name != "" {
			res.GroupName = sg.Name
		}
		if sg.AllowAllOutbound {
			res.SecurityGroupEgress = []any{ec2.SecurityGroup_Egress{
				IpProtocol:  model.ProtocolAll,
				CidrIp:      anyIPv4,
				Description: "Allow all outbound traffic by default",
			}}
		}

		// Self-referencing rules are separate resources so the group does
		// not reference itself.
		var selfRules []model.IngressRule
		for _, rule := range sg.Ingress {
			if rule.Self {
				selfRules = append(selfRules, rule)
				continue
			}
			res.SecurityGroupIngress = append(res.SecurityGroupIngress, ingressRule(rule))
		}

		if err := r.add(sg.ID, res); err != nil {
			return err
		}
		for i, rule := range selfRules {
			ingress := ec2.SecurityGroupIngress{
				GroupId:               groupID(sg.ID),
				IpProtocol:            rule.Protocol,
				SourceSecurityGroupId: groupID(sg.ID),
				Description:           rule.Description,
			}
			if rule.Protocol != model.ProtocolAll {
				ingress.FromPort = rule.FromPort
				ingress.ToPort = rule.ToPort
			}
			if err := r.add(fmt.Sprintf("%sSelfIngress%d", sg.ID, i+1), ingress); err != nil {
				return err
			}
		}
	}
	return nil
}

func ingressRule(rule model.IngressRule) map[string]any {
	out := map[string]any{
		"IpProtocol": rule.Protocol,
		"CidrIp":     rule.SourceCIDR,
	}
	if rule.Description != "" {
		out["Description"] = rule.Description
	}
	if rule.Protocol != model.ProtocolAll {
		out["FromPort"] = rule.FromPort
		out["ToPort"] = rule.ToPort
	}
	return out
}

func (r *renderer) cluster() error {
	c := r.graph.Cluster()
	if c == nil {
		return nil
	}

	res := eks.Cluster{
		Name:    c.Name,
		Version: c.Version,
		RoleArn: arn(c.ServiceRole.ID),
		ResourcesVpcConfig: eks.Cluster_ResourcesVpcConfig{
			SubnetIds:             r.subnetRefs(c.Network, c.Subnets()),
			SecurityGroupIds:      []any{groupID(c.SecurityGroup.ID)},
			EndpointPublicAccess:  c.EndpointAccess.PublicAccess(),
			EndpointPrivateAccess: c.EndpointAccess.PrivateAccess(),
		},
		AccessConfig: &eks.Cluster_AccessConfig{
			AuthenticationMode:                      AuthenticationMode,
			BootstrapClusterCreatorAdminPermissions: true,
		},
		Tags: r.tagList(nil),
	}
	if err := r.add(c.ID, res); err != nil {
		return err
	}

	return r.add(c.ID+mastersEntrySuffix, eks.AccessEntry{
		ClusterName:  intrinsics.Ref{LogicalName: c.ID},
		PrincipalArn: arn(c.MastersRole.ID),
		Type_:        "STANDARD",
		AccessPolicies: []any{eks.AccessEntry_AccessPolicy{
			PolicyArn:   intrinsics.Sub{String: "arn:" + partition + ":eks::aws:cluster-access-policy/" + ClusterAdminPolicy},
			AccessScope: eks.AccessEntry_AccessScope{Type_: "cluster"},
		}},
		Tags: r.tagList(nil),
	})
}

func (r *renderer) capacity() error {
	for _, ng := range r.graph.NodeGroups() {
		labels := make(map[string]any, len(ng.Labels))
		for k, v := range ng.Labels {
			labels[k] = v
		}
		instanceTypes := make([]any, len(ng.InstanceTypes))
		for i, it := range ng.InstanceTypes {
			instanceTypes[i] = it
		}

		if err := r.add(ng.ID, eks.Nodegroup{
			ClusterName:   intrinsics.Ref{LogicalName: ng.Cluster.ID},
			NodegroupName: ng.Name,
			NodeRole:      arn(ng.NodeRole.ID),
			Subnets:       r.subnetRefs(ng.Cluster.Network, ng.Subnets()),
			InstanceTypes: instanceTypes,
			AmiType:       string(ng.AMIType),
			CapacityType:  string(ng.CapacityType),
			DiskSize:      ng.DiskSize,
			ScalingConfig: &eks.Nodegroup_ScalingConfig{
				MinSize:     ng.Scaling.Min,
				DesiredSize: ng.Scaling.Desired,
				MaxSize:     ng.Scaling.Max,
			},
			Labels: labels,
			Tags:   r.tagMap(nil),
		}); err != nil {
			return err
		}
	}

	for _, fp := range r.graph.FargateProfiles() {
		selectors := make([]any, 0, len(fp.Selectors))
		for _, s := range fp.Selectors {
			sel := eks.FargateProfile_Selector{Namespace: s.Namespace}
			for _, k := range sortedKeys(s.Labels) {
				sel.Labels = append(sel.Labels, eks.FargateProfile_Label{Key: k, Value: s.Labels[k]})
			}
			selectors = append(selectors, sel)
		}

		if err := r.add(fp.ID, eks.FargateProfile{
			ClusterName:         intrinsics.Ref{LogicalName: fp.Cluster.ID},
			FargateProfileName:  fp.Name,
			PodExecutionRoleArn: arn(fp.PodExecutionRole.ID),
			Selectors:           selectors,
			Subnets:             r.subnetRefs(fp.Cluster.Network, fp.Subnets()),
			Tags:                r.tagList(nil),
		}); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
