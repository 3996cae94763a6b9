// Package v1alpha1 contains the shared ACK runtime types: cross-resource
// references and the FieldExport resource that copies status fields into a
// ConfigMap.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group of the ACK runtime resources.
var GroupVersion = schema.GroupVersion{Group: "services.k8s.aws", Version: "v1alpha1"}

// TypeMeta returns the type header of kind in this group.
func TypeMeta(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: kind}
}

// AWSResourceReferenceWrapper points at another ACK resource in the same
// namespace. The controller resolves it to the resource's AWS identifier.
type AWSResourceReferenceWrapper struct {
	From *AWSResourceReference `json:"from,omitempty"`
}

// AWSResourceReference names the referenced resource.
type AWSResourceReference struct {
	Name *string `json:"name,omitempty"`
}

// Ref returns a reference to the resource called name.
func Ref(name string) *AWSResourceReferenceWrapper {
	return &AWSResourceReferenceWrapper{From: &AWSResourceReference{Name: &name}}
}

// Refs returns one reference per name.
func Refs(names ...string) []*AWSResourceReferenceWrapper {
	out := make([]*AWSResourceReferenceWrapper, 0, len(names))
	for _, n := range names {
		out = append(out, Ref(n))
	}
	return out
}

// FieldExportTarget kinds.
const (
	FieldExportTargetConfigMap = "configmap"
	FieldExportTargetSecret    = "secret"
)

// FieldExport copies a field of an ACK resource into a ConfigMap or Secret
// once the controller has reconciled it.
// +kubebuilder:object:root=true
type FieldExport struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec FieldExportSpec `json:"spec"`
}

// FieldExportSpec names the source field and the destination key.
type FieldExportSpec struct {
	From *ResourceFieldSelector `json:"from"`
	To   *FieldExportTarget     `json:"to"`
}

// ResourceFieldSelector is a JSONPath into a resource.
type ResourceFieldSelector struct {
	Path     *string            `json:"path"`
	Resource NamespacedResource `json:"resource"`
}

// NamespacedResource identifies the source resource.
type NamespacedResource struct {
	Group *string `json:"group"`
	Kind  *string `json:"kind"`
	Name  *string `json:"name"`
}

// FieldExportTarget is the ConfigMap or Secret key written.
type FieldExportTarget struct {
	Name      *string `json:"name"`
	Kind      string  `json:"kind"`
	Namespace *string `json:"namespace,omitempty"`
	Key       *string `json:"key,omitempty"`
}
