package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
)

// Subnet is an ACK EC2 Subnet. Route table association is part of the
// subnet spec.
// +kubebuilder:object:root=true
type Subnet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec SubnetSpec `json:"spec"`
}

// SubnetSpec is the desired state of a Subnet.
type SubnetSpec struct {
	AvailabilityZone    *string                                    `json:"availabilityZone,omitempty"`
	CIDRBlock           *string                                    `json:"cidrBlock,omitempty"`
	VPCRef              *ackv1alpha1.AWSResourceReferenceWrapper   `json:"vpcRef,omitempty"`
	MapPublicIPOnLaunch *bool                                      `json:"mapPublicIPOnLaunch,omitempty"`
	RouteTableRefs      []*ackv1alpha1.AWSResourceReferenceWrapper `json:"routeTableRefs,omitempty"`
	Tags                []*Tag                                     `json:"tags,omitempty"`
}
