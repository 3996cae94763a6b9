package ec2

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simpleeks "github.com/miztiik/simple-eks-cluster"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource simpleeks.Resource
		expected string
	}{
		{"VPC", VPC{}, "AWS::EC2::VPC"},
		{"InternetGateway", InternetGateway{}, "AWS::EC2::InternetGateway"},
		{"VPCGatewayAttachment", VPCGatewayAttachment{}, "AWS::EC2::VPCGatewayAttachment"},
		{"Subnet", Subnet{}, "AWS::EC2::Subnet"},
		{"EIP", EIP{}, "AWS::EC2::EIP"},
		{"NatGateway", NatGateway{}, "AWS::EC2::NatGateway"},
		{"RouteTable", RouteTable{}, "AWS::EC2::RouteTable"},
		{"Route", Route{}, "AWS::EC2::Route"},
		{"SubnetRouteTableAssociation", SubnetRouteTableAssociation{}, "AWS::EC2::SubnetRouteTableAssociation"},
		{"SecurityGroup", SecurityGroup{}, "AWS::EC2::SecurityGroup"},
		{"SecurityGroupIngress", SecurityGroupIngress{}, "AWS::EC2::SecurityGroupIngress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestSecurityGroupIngress_SelfReference(t *testing.T) {
	rule := SecurityGroupIngress{
		GroupId:               simpleeks.AttrRef{Resource: "ClusterSecurityGroup", Attribute: "GroupId"},
		SourceSecurityGroupId: simpleeks.AttrRef{Resource: "ClusterSecurityGroup", Attribute: "GroupId"},
		IpProtocol:            "-1",
	}

	data, err := json.Marshal(rule)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"GroupId": {"Fn::GetAtt": ["ClusterSecurityGroup", "GroupId"]},
		"SourceSecurityGroupId": {"Fn::GetAtt": ["ClusterSecurityGroup", "GroupId"]},
		"IpProtocol": "-1"
	}`, string(data))
}
