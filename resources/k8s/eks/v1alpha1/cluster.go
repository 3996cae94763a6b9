package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
)

// Cluster is an ACK EKS control plane.
// +kubebuilder:object:root=true
type Cluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ClusterSpec `json:"spec"`
}

// ClusterSpec is the desired state of a Cluster.
type ClusterSpec struct {
	Name               string                                   `json:"name"`
	Version            *string                                  `json:"version,omitempty"`
	RoleRef            *ackv1alpha1.AWSResourceReferenceWrapper `json:"roleRef,omitempty"`
	ResourcesVPCConfig *VPCConfigRequest                        `json:"resourcesVPCConfig"`
	AccessConfig       *CreateAccessConfigRequest               `json:"accessConfig,omitempty"`
	Tags               map[string]*string                       `json:"tags,omitempty"`
}

// VPCConfigRequest places the control plane network interfaces.
type VPCConfigRequest struct {
	SubnetRefs            []*ackv1alpha1.AWSResourceReferenceWrapper `json:"subnetRefs,omitempty"`
	SecurityGroupRefs     []*ackv1alpha1.AWSResourceReferenceWrapper `json:"securityGroupRefs,omitempty"`
	EndpointPrivateAccess *bool                                      `json:"endpointPrivateAccess,omitempty"`
	EndpointPublicAccess  *bool                                      `json:"endpointPublicAccess,omitempty"`
}

// CreateAccessConfigRequest selects how IAM principals authenticate.
type CreateAccessConfigRequest struct {
	// AuthenticationMode is API, API_AND_CONFIG_MAP or CONFIG_MAP.
	AuthenticationMode                      *string `json:"authenticationMode,omitempty"`
	BootstrapClusterCreatorAdminPermissions *bool   `json:"bootstrapClusterCreatorAdminPermissions,omitempty"`
}

// AccessEntry grants an IAM principal access to a cluster.
// +kubebuilder:object:root=true
type AccessEntry struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec AccessEntrySpec `json:"spec"`
}

// AccessEntrySpec is the desired state of an AccessEntry.
type AccessEntrySpec struct {
	ClusterRef     *ackv1alpha1.AWSResourceReferenceWrapper `json:"clusterRef,omitempty"`
	PrincipalARN   *string                                  `json:"principalARN"`
	Type           *string                                  `json:"type,omitempty"`
	AccessPolicies []*AccessPolicy                          `json:"accessPolicies,omitempty"`
	Tags           map[string]*string                       `json:"tags,omitempty"`
}

// AccessPolicy associates an EKS access policy with an entry.
type AccessPolicy struct {
	PolicyARN   *string      `json:"policyARN"`
	AccessScope *AccessScope `json:"accessScope"`
}

// AccessScope is cluster wide or limited to namespaces.
type AccessScope struct {
	Type       *string   `json:"type"`
	Namespaces []*string `json:"namespaces,omitempty"`
}
