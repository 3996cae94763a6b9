package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simpleeks "github.com/miztiik/simple-eks-cluster"
)

func TestRunOptimize_Text(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, runOptimize(testGlobals(t, ""), optimizeOptions{format: "text", category: "all"}, &out))
	assert.Contains(t, out.String(), "=== Security (4) ===")
	assert.Contains(t, out.String(), "Declaration: eks-cluster-stack/Cluster")
	assert.Contains(t, out.String(), "Summary: 4 security, 1 cost, 1 performance, 2 reliability")
}

func TestRunOptimize_JSONCategory(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, runOptimize(testGlobals(t, ""), optimizeOptions{format: "json", category: "cost"}, &out))

	var result simpleeks.OptimizeResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.True(t, result.Success)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "OPT-EKS-010", result.Suggestions[0].Rule)
	assert.Equal(t, 1, result.Summary.Cost)
	assert.Zero(t, result.Summary.Security)
}

func TestRunOptimize_NoSuggestions(t *testing.T) {
	config := `network:
  nat_gateways: 2
cluster:
  endpoint_access: private
capacity:
  strategy: spot
  spot:
    instance_types: [m5.large, m5a.large]
    min_size: 2
`
	var out bytes.Buffer

	require.NoError(t, runOptimize(testGlobals(t, config), optimizeOptions{format: "text", category: "reliability"}, &out))
	assert.Contains(t, out.String(), "No optimization suggestions.")
}

func TestRunOptimize_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts optimizeOptions
		want string
	}{
		{"format", optimizeOptions{format: "xml", category: "all"}, "unknown format"},
		{"category", optimizeOptions{format: "text", category: "speed"}, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runOptimize(testGlobals(t, ""), tt.opts, &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, out.String())
		})
	}
}
