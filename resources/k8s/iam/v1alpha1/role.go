// Package v1alpha1 contains the ACK IAM Role type.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group of the ACK IAM controller.
var GroupVersion = schema.GroupVersion{Group: "iam.services.k8s.aws", Version: "v1alpha1"}

// TypeMeta returns the type header of kind in this group.
func TypeMeta(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: kind}
}

// Role is an ACK IAM role.
// +kubebuilder:object:root=true
type Role struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec RoleSpec `json:"spec"`
}

// RoleSpec is the desired state of a Role.
type RoleSpec struct {
	Name                     string  `json:"name"`
	AssumeRolePolicyDocument *string `json:"assumeRolePolicyDocument,omitempty"`
	Description              *string `json:"description,omitempty"`
	// Policies are the ARNs of attached managed policies.
	Policies []*string `json:"policies,omitempty"`
	// InlinePolicies maps a policy name to its JSON document.
	InlinePolicies map[string]*string `json:"inlinePolicies,omitempty"`
	Tags           []*Tag             `json:"tags,omitempty"`
}

// Tag is an IAM resource tag.
type Tag struct {
	Key   *string `json:"key,omitempty"`
	Value *string `json:"value,omitempty"`
}
