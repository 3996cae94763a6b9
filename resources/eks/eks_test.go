package eks

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
		{"Cluster", Cluster{}, "AWS::EKS::Cluster"},
		{"Nodegroup", Nodegroup{}, "AWS::EKS::Nodegroup"},
		{"FargateProfile", FargateProfile{}, "AWS::EKS::FargateProfile"},
		{"AccessEntry", AccessEntry{}, "AWS::EKS::AccessEntry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestNodegroup_ScalingConfigKeepsZeroMinimum(t *testing.T) {
	ng := Nodegroup{
		ClusterName:   "demo",
		NodeRole:      "arn:aws:iam::123456789012:role/node",
		Subnets:       []any{"subnet-1"},
		ScalingConfig: &Nodegroup_ScalingConfig{MinSize: 0, DesiredSize: 1, MaxSize: 3},
	}

	data, err := json.Marshal(ng)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	scaling := parsed["ScalingConfig"].(map[string]any)
	assert.Equal(t, float64(0), scaling["MinSize"])
	assert.Equal(t, float64(1), scaling["DesiredSize"])
	assert.Equal(t, float64(3), scaling["MaxSize"])
}
