package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
)

// Nodegroup is an ACK EKS managed node group.
// +kubebuilder:object:root=true
type Nodegroup struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec NodegroupSpec `json:"spec"`
}

// NodegroupSpec is the desired state of a Nodegroup.
type NodegroupSpec struct {
	Name          string                                     `json:"name"`
	ClusterRef    *ackv1alpha1.AWSResourceReferenceWrapper   `json:"clusterRef,omitempty"`
	NodeRoleRef   *ackv1alpha1.AWSResourceReferenceWrapper   `json:"nodeRoleRef,omitempty"`
	SubnetRefs    []*ackv1alpha1.AWSResourceReferenceWrapper `json:"subnetRefs,omitempty"`
	ScalingConfig *NodegroupScalingConfig                    `json:"scalingConfig,omitempty"`
	InstanceTypes []*string                                  `json:"instanceTypes,omitempty"`
	AMIType       *string                                    `json:"amiType,omitempty"`
	// CapacityType is ON_DEMAND or SPOT.
	CapacityType *string            `json:"capacityType,omitempty"`
	DiskSize     *int64             `json:"diskSize,omitempty"`
	Labels       map[string]*string `json:"labels,omitempty"`
	Tags         map[string]*string `json:"tags,omitempty"`
}

// NodegroupScalingConfig bounds the node count.
type NodegroupScalingConfig struct {
	MinSize     *int64 `json:"minSize,omitempty"`
	MaxSize     *int64 `json:"maxSize,omitempty"`
	DesiredSize *int64 `json:"desiredSize,omitempty"`
}

// FargateProfile schedules matching pods onto Fargate.
// +kubebuilder:object:root=true
type FargateProfile struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec FargateProfileSpec `json:"spec"`
}

// FargateProfileSpec is the desired state of a FargateProfile.
type FargateProfileSpec struct {
	Name                string                                     `json:"name"`
	ClusterRef          *ackv1alpha1.AWSResourceReferenceWrapper   `json:"clusterRef,omitempty"`
	PodExecutionRoleRef *ackv1alpha1.AWSResourceReferenceWrapper   `json:"podExecutionRoleRef,omitempty"`
	SubnetRefs          []*ackv1alpha1.AWSResourceReferenceWrapper `json:"subnetRefs,omitempty"`
	Selectors           []*FargateProfileSelector                  `json:"selectors,omitempty"`
	Tags                map[string]*string                         `json:"tags,omitempty"`
}

// FargateProfileSelector matches pods by namespace and labels.
type FargateProfileSelector struct {
	Namespace *string            `json:"namespace,omitempty"`
	Labels    map[string]*string `json:"labels,omitempty"`
}
