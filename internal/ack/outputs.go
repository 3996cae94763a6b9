package ack

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/miztiik/simple-eks-cluster/model"
	ackv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/core/v1alpha1"
	eksv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/eks/v1alpha1"
	iamv1alpha1 "github.com/miztiik/simple-eks-cluster/resources/k8s/iam/v1alpha1"
)

// Status paths of the attributes an output can read.
var (
	clusterPaths = map[model.Attribute]string{
		model.AttrName:       ".spec.name",
		model.AttrArn:        ".status.ackResourceMetadata.arn",
		model.AttrEndpoint:   ".status.endpoint",
		model.AttrOIDCIssuer: ".status.identity.oidc.issuer",
	}
	rolePaths = map[model.Attribute]string{
		model.AttrName: ".spec.name",
		model.AttrArn:  ".status.ackResourceMetadata.arn",
	}
)

// outputs writes literal outputs into the stack's outputs ConfigMap and adds
// a FieldExport per attribute output.
func (s *stack) outputs() error {
	outputs := s.graph.Outputs()
	if len(outputs) == 0 {
		return nil
	}
	configMap, err := s.name("outputs")
	if err != nil {
		return err
	}

	data := map[string]string{}
	var exports []Object
	for _, o := range outputs {
		if !o.Value.IsReference() {
			data[o.Name] = o.Value.Literal
			continue
		}
		export, err := s.fieldExport(o, configMap)
		if err != nil {
			return fmt.Errorf("output %s: %w", o.Name, err)
		}
		exports = append(exports, export)
	}

	cm := &unstructured.Unstructured{Object: map[string]any{}}
	cm.SetAPIVersion("v1")
	cm.SetKind("ConfigMap")
	meta := s.meta(configMap)
	cm.SetName(meta.Name)
	cm.SetNamespace(meta.Namespace)
	cm.SetLabels(meta.Labels)
	if len(data) > 0 {
		if err := unstructured.SetNestedStringMap(cm.Object, data, "data"); err != nil {
			return err
		}
	}
	s.add(cm)
	for _, e := range exports {
		s.add(e)
	}
	return nil
}

func (s *stack) fieldExport(o model.Output, configMap string) (Object, error) {
	v := o.Value
	var (
		group, kind string
		paths       map[model.Attribute]string
	)
	switch {
	case s.graph.Cluster() != nil && s.graph.Cluster().ID == v.Target:
		group, kind, paths = eksv1alpha1.GroupVersion.Group, "Cluster", clusterPaths
	case s.hasRole(v.Target):
		group, kind, paths = iamv1alpha1.GroupVersion.Group, "Role", rolePaths
	default:
		return nil, fmt.Errorf("cannot resolve %s.%s", v.Target, v.Attribute)
	}
	path, ok := paths[v.Attribute]
	if !ok {
		return nil, fmt.Errorf("%s %s has no attribute %s", kind, v.Target, v.Attribute)
	}
	source, err := s.name(v.Target)
	if err != nil {
		return nil, err
	}
	objectName, err := s.name("output-" + o.Name)
	if err != nil {
		return nil, err
	}
	return &ackv1alpha1.FieldExport{
		TypeMeta:   ackv1alpha1.TypeMeta("FieldExport"),
		ObjectMeta: s.meta(objectName),
		Spec: ackv1alpha1.FieldExportSpec{
			From: &ackv1alpha1.ResourceFieldSelector{
				Path: ptr(path),
				Resource: ackv1alpha1.NamespacedResource{
					Group: ptr(group),
					Kind:  ptr(kind),
					Name:  ptr(source),
				},
			},
			To: &ackv1alpha1.FieldExportTarget{
				Name: ptr(configMap),
				Kind: ackv1alpha1.FieldExportTargetConfigMap,
				Key:  ptr(o.Name),
			},
		},
	}, nil
}

func (s *stack) hasRole(id string) bool {
	_, ok := s.roleNames[id]
	return ok
}
