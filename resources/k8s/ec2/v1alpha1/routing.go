package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
)

// ElasticIPAddress is an ACK EC2 Elastic IP allocation.
// +kubebuilder:object:root=true
type ElasticIPAddress struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ElasticIPAddressSpec `json:"spec"`
}

// ElasticIPAddressSpec is the desired state of an ElasticIPAddress.
type ElasticIPAddressSpec struct {
	Tags []*Tag `json:"tags,omitempty"`
}

// NATGateway is an ACK EC2 NAT gateway.
// +kubebuilder:object:root=true
type NATGateway struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec NATGatewaySpec `json:"spec"`
}

// NATGatewaySpec is the desired state of a NATGateway.
type NATGatewaySpec struct {
	AllocationRef *ackv1alpha1.AWSResourceReferenceWrapper `json:"allocationRef,omitempty"`
	SubnetRef     *ackv1alpha1.AWSResourceReferenceWrapper `json:"subnetRef,omitempty"`
	// ConnectivityType is public or private.
	ConnectivityType *string `json:"connectivityType,omitempty"`
	Tags             []*Tag  `json:"tags,omitempty"`
}

// RouteTable is an ACK EC2 route table with its routes inline.
// +kubebuilder:object:root=true
type RouteTable struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec RouteTableSpec `json:"spec"`
}

// RouteTableSpec is the desired state of a RouteTable.
type RouteTableSpec struct {
	VPCRef *ackv1alpha1.AWSResourceReferenceWrapper `json:"vpcRef,omitempty"`
	Routes []*CreateRouteInput                      `json:"routes,omitempty"`
	Tags   []*Tag                                   `json:"tags,omitempty"`
}

// CreateRouteInput is one route. Exactly one target reference is set.
type CreateRouteInput struct {
	DestinationCIDRBlock *string                                  `json:"destinationCIDRBlock,omitempty"`
	GatewayRef           *ackv1alpha1.AWSResourceReferenceWrapper `json:"gatewayRef,omitempty"`
	NATGatewayRef        *ackv1alpha1.AWSResourceReferenceWrapper `json:"natGatewayRef,omitempty"`
}
