package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
)

// SecurityGroup is an ACK EC2 security group with its rules inline.
// +kubebuilder:object:root=true
type SecurityGroup struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec SecurityGroupSpec `json:"spec"`
}

// SecurityGroupSpec is the desired state of a SecurityGroup.
type SecurityGroupSpec struct {
	Description  *string                                  `json:"description"`
	Name         *string                                  `json:"name"`
	VPCRef       *ackv1alpha1.AWSResourceReferenceWrapper `json:"vpcRef,omitempty"`
	IngressRules []*IPPermission                          `json:"ingressRules,omitempty"`
	EgressRules  []*IPPermission                          `json:"egressRules,omitempty"`
	Tags         []*Tag                                   `json:"tags,omitempty"`
}

// IPPermission is one security group rule. An IPProtocol of "-1" matches
// every protocol and ignores the ports.
type IPPermission struct {
	FromPort         *int64             `json:"fromPort,omitempty"`
	ToPort           *int64             `json:"toPort,omitempty"`
	IPProtocol       *string            `json:"ipProtocol,omitempty"`
	IPRanges         []*IPRange         `json:"ipRanges,omitempty"`
	UserIDGroupPairs []*UserIDGroupPair `json:"userIDGroupPairs,omitempty"`
}

// IPRange is an IPv4 source or destination.
type IPRange struct {
	CIDRIP      *string `json:"cidrIP,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UserIDGroupPair admits traffic from another security group. GroupRef may
// name the group that holds the rule.
type UserIDGroupPair struct {
	Description *string                                  `json:"description,omitempty"`
	GroupID     *string                                  `json:"groupID,omitempty"`
	GroupRef    *ackv1alpha1.AWSResourceReferenceWrapper `json:"groupRef,omitempty"`
}
