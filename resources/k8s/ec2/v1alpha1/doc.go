// Package v1alpha1 contains the ACK EC2 resource types used to declare a VPC
// through AWS Controllers for Kubernetes.
//
// Only desired state is modelled. Status is owned by the controller.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group of the ACK EC2 controller.
var GroupVersion = schema.GroupVersion{Group: "ec2.services.k8s.aws", Version: "v1alpha1"}

// TypeMeta returns the type header of kind in this group.
func TypeMeta(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: kind}
}

// Tag is an EC2 resource tag.
type Tag struct {
	Key   *string `json:"key,omitempty"`
	Value *string `json:"value,omitempty"`
}
