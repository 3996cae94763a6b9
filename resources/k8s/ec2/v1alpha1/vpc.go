package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
)

// VPC is an ACK EC2 VPC.
// +kubebuilder:object:root=true
type VPC struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec VPCSpec `json:"spec"`
}

// VPCSpec is the desired state of a VPC.
type VPCSpec struct {
	CIDRBlocks         []*string `json:"cidrBlocks"`
	EnableDNSHostnames *bool     `json:"enableDNSHostnames,omitempty"`
	EnableDNSSupport   *bool     `json:"enableDNSSupport,omitempty"`
	// InstanceTenancy is default, dedicated or host.
	InstanceTenancy *string `json:"instanceTenancy,omitempty"`
	Tags            []*Tag  `json:"tags,omitempty"`
}

// InternetGateway is an ACK EC2 InternetGateway attached to a VPC.
// +kubebuilder:object:root=true
type InternetGateway struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec InternetGatewaySpec `json:"spec"`
}

// InternetGatewaySpec is the desired state of an InternetGateway.
type InternetGatewaySpec struct {
	VPCRef *ackv1alpha1.AWSResourceReferenceWrapper `json:"vpcRef,omitempty"`
	Tags   []*Tag                                   `json:"tags,omitempty"`
}
