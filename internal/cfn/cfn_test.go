package cfn

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/internal/stack"
)

func synthApp(t *testing.T, mutate func(*config.Config)) *stack.App {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}
	app, err := stack.Synthesize(cfg)
	require.NoError(t, err)
	return app
}

// roundTrip renders a template value the way it is published.
func roundTrip(t *testing.T, v any) any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSynthesize_NetworkStack(t *testing.T) {
	app := synthApp(t, nil)

	tmpl, err := Synthesize(app.Network)
	require.NoError(t, err)

	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	assert.Len(t, tmpl.Resources, 19)

	vpc := tmpl.Resources["Vpc"]
	assert.Equal(t, "AWS::EC2::VPC", vpc.Type)
	assert.Equal(t, "10.10.0.0/16", vpc.Properties["CidrBlock"])

	route := tmpl.Resources["PublicDefaultRoute"]
	assert.Equal(t, []string{"VpcGatewayAttachment"}, route.DependsOn)

	public := tmpl.Resources["PublicSubnet1"]
	assert.Equal(t, true, public.Properties["MapPublicIpOnLaunch"])
	private := tmpl.Resources["PrivateSubnet2"]
	assert.NotContains(t, private.Properties, "MapPublicIpOnLaunch")
	assert.Equal(t, "10.10.3.0/24", private.Properties["CidrBlock"])

	// One NAT gateway serves both private route tables.
	assert.Contains(t, tmpl.Resources, "NatGateway1")
	assert.NotContains(t, tmpl.Resources, "NatGateway2")
	for _, id := range []string{"PrivateDefaultRoute1", "PrivateDefaultRoute2"} {
		assert.Equal(t, map[string]any{"Ref": "NatGateway1"}, tmpl.Resources[id].Properties["NatGatewayId"])
	}

	require.Len(t, tmpl.Outputs, 5)
	assert.Equal(t, "eks-cluster-vpc-stack-Vpc", tmpl.Outputs["Vpc"].Export.Name)
	assert.Equal(t, "eks-cluster-vpc-stack-PrivateSubnet1", tmpl.Outputs["PrivateSubnet1"].Export.Name)
}

func TestSynthesize_NetworkWithoutNAT(t *testing.T) {
	app := synthApp(t, func(c *config.Config) { c.Network.NATGateways = 0 })

	tmpl, err := Synthesize(app.Network)
	require.NoError(t, err)

	assert.NotContains(t, tmpl.Resources, "NatGateway1")
	assert.NotContains(t, tmpl.Resources, "PrivateDefaultRoute1")
	assert.Contains(t, tmpl.Resources, "PrivateRouteTable1")
}

func TestSynthesize_ClusterStack(t *testing.T) {
	app := synthApp(t, nil)

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	types := map[string]string{}
	for name, r := range tmpl.Resources {
		types[name] = r.Type
	}
	want := map[string]string{
		"ClusterServiceRole":               "AWS::IAM::Role",
		"ClusterAdminRole":                 "AWS::IAM::Role",
		"NodeRole":                         "AWS::IAM::Role",
		"ClusterSecurityGroup":             "AWS::EC2::SecurityGroup",
		"ClusterSecurityGroupSelfIngress1": "AWS::EC2::SecurityGroupIngress",
		"Cluster":                          "AWS::EKS::Cluster",
		"ClusterMastersAccessEntry":        "AWS::EKS::AccessEntry",
		"NodeGroup":                        "AWS::EKS::Nodegroup",
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("resource types mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, tmpl.Outputs, 1)
	assert.Equal(t, "https://github.com/miztiik/simple-eks-cluster", tmpl.Outputs["AutomationFrom"].Value)
}

func TestSynthesize_Cluster(t *testing.T) {
	app := synthApp(t, nil)

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	cluster := roundTrip(t, tmpl.Resources["Cluster"].Properties).(map[string]any)
	assert.Equal(t, "1_cdk_c", cluster["Name"])
	assert.Equal(t, "1.31", cluster["Version"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"ClusterServiceRole", "Arn"}}, cluster["RoleArn"])

	vpcConfig := cluster["ResourcesVpcConfig"].(map[string]any)
	assert.Equal(t, true, vpcConfig["EndpointPublicAccess"])
	assert.Equal(t, false, vpcConfig["EndpointPrivateAccess"])
	subnets := vpcConfig["SubnetIds"].([]any)
	require.Len(t, subnets, 4)
	assert.Equal(t, map[string]any{"Fn::ImportValue": "eks-cluster-vpc-stack-PublicSubnet1"}, subnets[0])
	assert.Equal(t, []any{map[string]any{"Fn::GetAtt": []any{"ClusterSecurityGroup", "GroupId"}}}, vpcConfig["SecurityGroupIds"])

	access := cluster["AccessConfig"].(map[string]any)
	assert.Equal(t, "API_AND_CONFIG_MAP", access["AuthenticationMode"])

	entry := roundTrip(t, tmpl.Resources["ClusterMastersAccessEntry"].Properties).(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "Cluster"}, entry["ClusterName"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"ClusterAdminRole", "Arn"}}, entry["PrincipalArn"])
	policy := entry["AccessPolicies"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"Type": "cluster"}, policy["AccessScope"])
}

func TestSynthesize_SecurityGroup(t *testing.T) {
	app := synthApp(t, nil)

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	sg := roundTrip(t, tmpl.Resources["ClusterSecurityGroup"].Properties).(map[string]any)
	assert.NotContains(t, sg, "GroupName")
	assert.Contains(t, sg["Tags"], map[string]any{"Key": "Name", "Value": "eks_cluster_sg"})
	assert.Equal(t, map[string]any{"Fn::ImportValue": "eks-cluster-vpc-stack-Vpc"}, sg["VpcId"])
	assert.NotContains(t, sg, "SecurityGroupIngress")
	egress := sg["SecurityGroupEgress"].([]any)[0].(map[string]any)
	assert.Equal(t, "-1", egress["IpProtocol"])
	assert.Equal(t, "0.0.0.0/0", egress["CidrIp"])

	ingress := roundTrip(t, tmpl.Resources["ClusterSecurityGroupSelfIngress1"].Properties).(map[string]any)
	self := map[string]any{"Fn::GetAtt": []any{"ClusterSecurityGroup", "GroupId"}}
	assert.Equal(t, self, ingress["GroupId"])
	assert.Equal(t, self, ingress["SourceSecurityGroupId"])
	assert.Equal(t, "-1", ingress["IpProtocol"])
	assert.Equal(t, "Allow incoming within SG", ingress["Description"])
	assert.NotContains(t, ingress, "FromPort")
}

func TestSynthesize_Roles(t *testing.T) {
	app := synthApp(t, nil)

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	service := roundTrip(t, tmpl.Resources["ClusterServiceRole"].Properties).(map[string]any)
	assert.NotContains(t, service, "RoleName")
	trust := service["AssumeRolePolicyDocument"].(map[string]any)
	assert.Equal(t, "2012-10-17", trust["Version"])
	stmt := trust["Statement"].([]any)[0].(map[string]any)
	assert.Equal(t, "Allow", stmt["Effect"])
	assert.Equal(t, "sts:AssumeRole", stmt["Action"])
	assert.Equal(t, map[string]any{"Service": "eks.amazonaws.com"}, stmt["Principal"])
	assert.Contains(t, service["ManagedPolicyArns"], map[string]any{
		"Fn::Sub": "arn:${AWS::Partition}:iam::aws:policy/AmazonEKSClusterPolicy",
	})

	admin := roundTrip(t, tmpl.Resources["ClusterAdminRole"].Properties).(map[string]any)
	adminTrust := admin["AssumeRolePolicyDocument"].(map[string]any)["Statement"].([]any)[0].(map[string]any)
	principal := adminTrust["Principal"].(map[string]any)
	assert.Equal(t, "ec2.amazonaws.com", principal["Service"])
	assert.Equal(t, map[string]any{"Fn::Sub": "arn:${AWS::Partition}:iam::${AWS::AccountId}:root"}, principal["AWS"])

	policies := admin["Policies"].([]any)
	require.Len(t, policies, 1)
	doc := policies[0].(map[string]any)["PolicyDocument"].(map[string]any)
	describe := doc["Statement"].([]any)[0].(map[string]any)
	assert.Equal(t, "eks:DescribeCluster", describe["Action"])
	assert.Equal(t, "*", describe["Resource"])
	assert.NotContains(t, admin, "ManagedPolicyArns")
}

func TestSynthesize_NodeGroup(t *testing.T) {
	app := synthApp(t, nil)

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	ng := roundTrip(t, tmpl.Resources["NodeGroup"].Properties).(map[string]any)
	assert.Equal(t, "1_cdk_c_n_g", ng["NodegroupName"])
	assert.Equal(t, map[string]any{"Ref": "Cluster"}, ng["ClusterName"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"NodeRole", "Arn"}}, ng["NodeRole"])
	assert.Equal(t, []any{"t3.medium", "t3.large"}, ng["InstanceTypes"])
	assert.Equal(t, float64(20), ng["DiskSize"])
	assert.Equal(t, "ON_DEMAND", ng["CapacityType"])
	assert.Equal(t, "AL2_x86_64", ng["AmiType"])
	assert.Equal(t, map[string]any{"MinSize": float64(1), "DesiredSize": float64(2), "MaxSize": float64(6)}, ng["ScalingConfig"])
	assert.Equal(t, map[string]any{"app": "miztiik_ng", "lifecycle": "on_demand"}, ng["Labels"])
	assert.Equal(t, map[string]any{"Owner": "MystiqueAutomation", "Project": "simple-eks-cluster"}, ng["Tags"])

	subnets := ng["Subnets"].([]any)
	assert.Equal(t, []any{
		map[string]any{"Fn::ImportValue": "eks-cluster-vpc-stack-PublicSubnet1"},
		map[string]any{"Fn::ImportValue": "eks-cluster-vpc-stack-PublicSubnet2"},
	}, subnets)
}

func TestSynthesize_ScalingZeroMinimumIsEmitted(t *testing.T) {
	app := synthApp(t, func(c *config.Config) {
		c.Capacity.OnDemand.MinSize = 0
		c.Capacity.OnDemand.DesiredSize = 0
	})

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	ng := roundTrip(t, tmpl.Resources["NodeGroup"].Properties).(map[string]any)
	assert.Equal(t, map[string]any{"MinSize": float64(0), "DesiredSize": float64(0), "MaxSize": float64(6)}, ng["ScalingConfig"])
}

func TestSynthesize_Spot(t *testing.T) {
	app := synthApp(t, func(c *config.Config) { c.Capacity.Strategy = config.StrategySpot })
	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	ng := roundTrip(t, tmpl.Resources["NodeGroup"].Properties).(map[string]any)
	assert.Equal(t, "SPOT", ng["CapacityType"])
	assert.Equal(t, "1_cdk_c_spot_n_g", ng["NodegroupName"])
	assert.Equal(t, []any{
		map[string]any{"Fn::ImportValue": "eks-cluster-vpc-stack-PrivateSubnet1"},
		map[string]any{"Fn::ImportValue": "eks-cluster-vpc-stack-PrivateSubnet2"},
	}, ng["Subnets"])
}

func TestSynthesize_Serverless(t *testing.T) {
	app := synthApp(t, func(c *config.Config) { c.Capacity.Strategy = config.StrategyServerless })

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	assert.NotContains(t, tmpl.Resources, "NodeGroup")
	assert.NotContains(t, tmpl.Resources, "NodeRole")
	assert.Equal(t, "AWS::IAM::Role", tmpl.Resources["PodExecutionRole"].Type)

	fp := roundTrip(t, tmpl.Resources["FargateProfile"].Properties).(map[string]any)
	assert.Equal(t, "miztiik_n_g_fargate", fp["FargateProfileName"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"PodExecutionRole", "Arn"}}, fp["PodExecutionRoleArn"])
	assert.Equal(t, []any{map[string]any{
		"Namespace": "miztiik_ns",
		"Labels":    []any{map[string]any{"Key": "fargate", "Value": "enabled"}},
	}}, fp["Selectors"])
	assert.Len(t, fp["Subnets"], 2)
}

func TestSynthesize_Outputs(t *testing.T) {
	app := synthApp(t, func(c *config.Config) {
		c.Outputs.ServiceRoleName = true
		c.Outputs.OIDCIssuer = true
	})

	tmpl, err := Synthesize(app.Cluster)
	require.NoError(t, err)

	require.Len(t, tmpl.Outputs, 3)
	assert.Equal(t, map[string]any{"Ref": "ClusterServiceRole"}, tmpl.Outputs["EksClusterRole"].Value)
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"Cluster", "OpenIdConnectIssuerUrl"}}, tmpl.Outputs["EksClusterOIDCIssuer"].Value)
	assert.Nil(t, tmpl.Outputs["EksClusterRole"].Export)
}

func TestNewBuilder_Order(t *testing.T) {
	app := synthApp(t, nil)

	b, err := NewBuilder(app.Cluster)
	require.NoError(t, err)

	order, err := b.Order()
	require.NoError(t, err)

	pos := map[string]int{}
	for i, name := range order {
		pos[name] = i
	}
	assert.Less(t, pos["ClusterServiceRole"], pos["Cluster"])
	assert.Less(t, pos["ClusterSecurityGroup"], pos["Cluster"])
	assert.Less(t, pos["Cluster"], pos["NodeGroup"])
	assert.Less(t, pos["NodeRole"], pos["NodeGroup"])
	assert.Less(t, pos["ClusterAdminRole"], pos["ClusterMastersAccessEntry"])

	deps, err := b.Dependencies("NodeGroup")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cluster", "NodeRole"}, deps)
}

func TestSynthesize_Deterministic(t *testing.T) {
	render := func() string {
		app := synthApp(t, nil)
		tmpl, err := Synthesize(app.Cluster)
		require.NoError(t, err)
		data, err := json.Marshal(tmpl)
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, render(), render())
}
