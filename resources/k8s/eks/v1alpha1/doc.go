// Package v1alpha1 contains the ACK EKS resource types for a cluster, its
// worker capacity and its access entries.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group of the ACK EKS controller.
var GroupVersion = schema.GroupVersion{Group: "eks.services.k8s.aws", Version: "v1alpha1"}

// TypeMeta returns the type header of kind in this group.
func TypeMeta(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: kind}
}
