// Package eks provides typed CloudFormation resources for AWS::EKS.
package eks

// Cluster represents AWS::EKS::Cluster.
type Cluster struct {
	Name               any                        `json:"Name,omitempty"`
	Version            any                        `json:"Version,omitempty"`
	RoleArn            any                        `json:"RoleArn"`
	ResourcesVpcConfig Cluster_ResourcesVpcConfig `json:"ResourcesVpcConfig"`
	AccessConfig       *Cluster_AccessConfig      `json:"AccessConfig,omitempty"`
	Logging            *Cluster_Logging           `json:"Logging,omitempty"`
	Tags               []any                      `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Cluster) ResourceType() string { return "AWS::EKS::Cluster" }

// Cluster_ResourcesVpcConfig places the control plane in the VPC.
type Cluster_ResourcesVpcConfig struct {
	SubnetIds             []any `json:"SubnetIds"`
	SecurityGroupIds      []any `json:"SecurityGroupIds,omitempty"`
	EndpointPublicAccess  bool  `json:"EndpointPublicAccess"`
	EndpointPrivateAccess bool  `json:"EndpointPrivateAccess"`
}

// Cluster_AccessConfig selects how IAM principals authenticate to the cluster.
type Cluster_AccessConfig struct {
	AuthenticationMode                      any  `json:"AuthenticationMode,omitempty"`
	BootstrapClusterCreatorAdminPermissions bool `json:"BootstrapClusterCreatorAdminPermissions,omitempty"`
}

// Cluster_Logging enables control plane log types.
type Cluster_Logging struct {
	ClusterLogging Cluster_ClusterLogging `json:"ClusterLogging"`
}

// Cluster_ClusterLogging lists the enabled control plane log types.
type Cluster_ClusterLogging struct {
	EnabledTypes []any `json:"EnabledTypes,omitempty"`
}

// Cluster_LoggingTypeConfig is a single control plane log type.
type Cluster_LoggingTypeConfig struct {
	Type_ any `json:"Type,omitempty"`
}

// Nodegroup represents AWS::EKS::Nodegroup.
type Nodegroup struct {
	ClusterName   any                      `json:"ClusterName"`
	NodegroupName any                      `json:"NodegroupName,omitempty"`
	NodeRole      any                      `json:"NodeRole"`
	Subnets       []any                    `json:"Subnets"`
	InstanceTypes []any                    `json:"InstanceTypes,omitempty"`
	AmiType       any                      `json:"AmiType,omitempty"`
	CapacityType  any                      `json:"CapacityType,omitempty"`
	DiskSize      any                      `json:"DiskSize,omitempty"`
	ScalingConfig *Nodegroup_ScalingConfig `json:"ScalingConfig,omitempty"`
	Labels        map[string]any           `json:"Labels,omitempty"`
	Tags          map[string]any           `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Nodegroup) ResourceType() string { return "AWS::EKS::Nodegroup" }

// Nodegroup_ScalingConfig bounds the node group size. All three fields are
// emitted even when zero.
type Nodegroup_ScalingConfig struct {
	MinSize     int `json:"MinSize"`
	DesiredSize int `json:"DesiredSize"`
	MaxSize     int `json:"MaxSize"`
}

// FargateProfile represents AWS::EKS::FargateProfile.
type FargateProfile struct {
	ClusterName         any   `json:"ClusterName"`
	FargateProfileName  any   `json:"FargateProfileName,omitempty"`
	PodExecutionRoleArn any   `json:"PodExecutionRoleArn"`
	Selectors           []any `json:"Selectors"`
	Subnets             []any `json:"Subnets,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r FargateProfile) ResourceType() string { return "AWS::EKS::FargateProfile" }

// FargateProfile_Selector matches pods scheduled onto Fargate.
type FargateProfile_Selector struct {
	Namespace any   `json:"Namespace"`
	Labels    []any `json:"Labels,omitempty"`
}

// FargateProfile_Label is a key/value pod label in a selector.
type FargateProfile_Label struct {
	Key   any `json:"Key"`
	Value any `json:"Value"`
}

// AccessEntry represents AWS::EKS::AccessEntry.
type AccessEntry struct {
	ClusterName      any   `json:"ClusterName"`
	PrincipalArn     any   `json:"PrincipalArn"`
	Type_            any   `json:"Type,omitempty"`
	Username         any   `json:"Username,omitempty"`
	KubernetesGroups []any `json:"KubernetesGroups,omitempty"`
	AccessPolicies   []any `json:"AccessPolicies,omitempty"`
	Tags             []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r AccessEntry) ResourceType() string { return "AWS::EKS::AccessEntry" }

// AccessEntry_AccessPolicy associates an EKS access policy with the entry.
type AccessEntry_AccessPolicy struct {
	PolicyArn   any                     `json:"PolicyArn"`
	AccessScope AccessEntry_AccessScope `json:"AccessScope"`
}

// AccessEntry_AccessScope scopes an access policy to the cluster or namespaces.
type AccessEntry_AccessScope struct {
	Type_      any   `json:"Type"`
	Namespaces []any `json:"Namespaces,omitempty"`
}
