package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simple-eks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "eks-cluster-vpc-stack", cfg.Network.StackName)
	assert.Equal(t, "eks-cluster-stack", cfg.Cluster.StackName)
	assert.Equal(t, "1_cdk_c", cfg.Cluster.Name)
	assert.Equal(t, "1.31", cfg.Cluster.Version)
	assert.Equal(t, "public", cfg.Cluster.EndpointAccess)
	assert.Zero(t, cfg.Cluster.DefaultCapacity)
	assert.Equal(t, StrategyOnDemand, cfg.Capacity.Strategy)

	ng := cfg.Capacity.OnDemand
	assert.Equal(t, []string{"t3.medium", "t3.large"}, ng.InstanceTypes)
	assert.Equal(t, 20, ng.DiskSize)
	assert.Equal(t, []int{1, 2, 6}, []int{ng.MinSize, ng.DesiredSize, ng.MaxSize})
	assert.Equal(t, map[string]string{"app": "miztiik_ng", "lifecycle": "on_demand"}, ng.Labels)
	assert.Equal(t, []string{"public"}, ng.Placement)

	assert.Equal(t, "MystiqueAutomation", cfg.Tags["Owner"])
	assert.Equal(t, "https://github.com/miztiik/simple-eks-cluster", cfg.Project.SourceInfo)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
cluster:
  name: demo
  version: "1.30"
  endpoint_access: public_and_private
capacity:
  strategy: spot
  spot:
    instance_types: [m5.large]
    labels:
      team: platform
outputs:
  oidc_issuer: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "demo", cfg.Cluster.Name)
	assert.Equal(t, "1.30", cfg.Cluster.Version)
	assert.Equal(t, "public_and_private", cfg.Cluster.EndpointAccess)
	assert.Equal(t, "eks-cluster-stack", cfg.Cluster.StackName)
	assert.Equal(t, StrategySpot, cfg.Capacity.Strategy)
	assert.Equal(t, []string{"m5.large"}, cfg.Capacity.Spot.InstanceTypes)
	assert.Equal(t, map[string]string{"team": "platform"}, cfg.Capacity.Spot.Labels)
	assert.True(t, cfg.Outputs.OIDCIssuer)
	assert.False(t, cfg.Outputs.ServiceRoleName)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "1_cdk_c", cfg.Cluster.Name)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "cluster:\n  nmae: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nmae")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening config")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SIMPLE_EKS_CLUSTER_VERSION", "1.32")
	t.Setenv("SIMPLE_EKS_CAPACITY_STRATEGY", "serverless")
	t.Setenv("SIMPLE_EKS_CAPACITY_ON_DEMAND_MAX_SIZE", "9")
	t.Setenv("SIMPLE_EKS_LOG_LEVEL", "warn")
	t.Setenv("SIMPLE_EKS_OUTPUTS_SERVICE_ROLE_NAME", "true")
	t.Setenv("SIMPLE_EKS_NETWORK_NAT_GATEWAYS", "2")
	t.Setenv("SIMPLE_EKS_TAGS", "Owner:ops,CostCenter:42")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "1.32", cfg.Cluster.Version)
	assert.Equal(t, StrategyServerless, cfg.Capacity.Strategy)
	assert.Equal(t, 9, cfg.Capacity.OnDemand.MaxSize)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Outputs.ServiceRoleName)
	assert.Equal(t, 2, cfg.Network.NATGateways)
	assert.Equal(t, map[string]string{"Owner": "ops", "CostCenter": "42"}, cfg.Tags)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("SIMPLE_EKS_CLUSTER_NAME", "from-env")

	cfg, err := Load(writeConfig(t, "cluster:\n  name: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Cluster.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Capacity.Strategy = "reserved" },
			wantErr: `capacity.strategy: Unsupported value: "reserved"`,
		},
		{
			name:    "unknown endpoint access",
			mutate:  func(c *Config) { c.Cluster.EndpointAccess = "internal" },
			wantErr: "cluster.endpoint_access",
		},
		{
			name:    "uneven subnets",
			mutate:  func(c *Config) { c.Network.PrivateSubnets = c.Network.PrivateSubnets[:1] },
			wantErr: "must match the number of public subnets (2)",
		},
		{
			name:    "unknown placement",
			mutate:  func(c *Config) { c.Capacity.OnDemand.Placement = []string{"isolated"} },
			wantErr: "capacity.on_demand.placement[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
