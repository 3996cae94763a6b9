package simpleeks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrRef_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected string
	}{
		{
			name:     "role arn",
			ref:      AttrRef{Resource: "ClusterServiceRole", Attribute: "Arn"},
			expected: `{"Fn::GetAtt":["ClusterServiceRole","Arn"]}`,
		},
		{
			name:     "cluster oidc issuer",
			ref:      AttrRef{Resource: "Cluster", Attribute: "OpenIdConnectIssuerUrl"},
			expected: `{"Fn::GetAtt":["Cluster","OpenIdConnectIssuerUrl"]}`,
		},
		{
			name:     "security group id",
			ref:      AttrRef{Resource: "ClusterSecurityGroup", Attribute: "GroupId"},
			expected: `{"Fn::GetAtt":["ClusterSecurityGroup","GroupId"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestAttrRef_IsZero(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected bool
	}{
		{name: "empty", ref: AttrRef{}, expected: true},
		{name: "with resource", ref: AttrRef{Resource: "NodeRole"}, expected: false},
		{name: "with attribute", ref: AttrRef{Attribute: "Arn"}, expected: false},
		{name: "fully populated", ref: AttrRef{Resource: "NodeRole", Attribute: "Arn"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ref.IsZero())
		})
	}
}

func TestTemplate_JSON(t *testing.T) {
	template := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              "Test template",
		Resources: map[string]ResourceDef{
			"Vpc": {
				Type: "AWS::EC2::VPC",
				Properties: map[string]any{
					"CidrBlock": "10.10.0.0/16",
				},
			},
		},
		Outputs: map[string]Output{
			"VpcId": {
				Description: "The VPC ID",
				Value:       map[string]string{"Ref": "Vpc"},
			},
		},
	}

	data, err := json.Marshal(template)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])
	assert.Equal(t, "Test template", parsed["Description"])

	resources := parsed["Resources"].(map[string]any)
	vpc := resources["Vpc"].(map[string]any)
	assert.Equal(t, "AWS::EC2::VPC", vpc["Type"])

	outputs := parsed["Outputs"].(map[string]any)
	vpcID := outputs["VpcId"].(map[string]any)
	assert.Equal(t, "The VPC ID", vpcID["Description"])
	assert.NotContains(t, vpcID, "Export")
}

func TestResourceDef_DependsOn(t *testing.T) {
	resource := ResourceDef{
		Type: "AWS::EC2::Route",
		Properties: map[string]any{
			"DestinationCidrBlock": "0.0.0.0/0",
		},
		DependsOn: []string{"VpcGatewayAttachment"},
	}

	data, err := json.Marshal(resource)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "AWS::EC2::Route", parsed["Type"])
	dependsOn := parsed["DependsOn"].([]any)
	require.Len(t, dependsOn, 1)
	assert.Equal(t, "VpcGatewayAttachment", dependsOn[0])
}

func TestBuildResult_Error(t *testing.T) {
	result := BuildResult{
		Success: false,
		Errors:  []string{"cluster.version: Unsupported value: \"1.18\""},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.False(t, parsed["success"].(bool))
	assert.NotContains(t, parsed, "stacks")
	errors := parsed["errors"].([]any)
	assert.Len(t, errors, 1)
}

func TestOutput_WithExport(t *testing.T) {
	output := Output{
		Description: "VPC ID for cross-stack reference",
		Value:       map[string]string{"Ref": "Vpc"},
		Export:      &Export{Name: "eks-cluster-vpc-stack-VpcId"},
	}

	data, err := json.Marshal(output)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	export := parsed["Export"].(map[string]any)
	assert.Equal(t, "eks-cluster-vpc-stack-VpcId", export["Name"])
}

func TestDiffSummary_JSON(t *testing.T) {
	summary := DiffSummary{Added: 1, Removed: 2, Modified: 3, Total: 6}

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"added":1,"removed":2,"modified":3,"total":6}`, string(data))
}
