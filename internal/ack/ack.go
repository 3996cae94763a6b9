// Package ack renders model graphs as Kubernetes manifests for AWS Controllers
// for Kubernetes (ACK).
//
// Each graph becomes one Manifest. Every resource is a namespaced custom
// resource and references between resources are ACK name references, so a
// graph that consumes a network owned by another graph refers to that
// graph's objects by name. Outputs land in a ConfigMap: literals directly,
// attributes through FieldExport resources once the controllers have
// reconciled the source.
package ack

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/validation"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/miztiik/simple-eks-cluster/model"
)

// Defaults applied to empty Options fields.
const (
	DefaultNamespace = "ack-system"
	DefaultPartition = "aws"
)

// Labels set on every object.
const (
	LabelManagedBy = "app.kubernetes.io/managed-by"
	LabelStack     = "simple-eks.io/stack"
	managedBy      = "simple-eks"
)

// Options control where and how the manifests are rendered.
type Options struct {
	Namespace string
	// Region places subnets in <region>a, <region>b and so on. Zones, when
	// set, overrides it with explicit zone names.
	Region    string
	Zones     []string
	Partition string
	// AccountID is needed by trust policies naming the account root and by
	// the masters access entry.
	AccountID string
}

func (o Options) namespace() string {
	if o.Namespace == "" {
		return DefaultNamespace
	}
	return o.Namespace
}

func (o Options) partition() string {
	if o.Partition == "" {
		return DefaultPartition
	}
	return o.Partition
}

// zone returns the name of the zero-based availability zone i.
func (o Options) zone(i int) (string, error) {
	if len(o.Zones) > 0 {
		if i >= len(o.Zones) {
			return "", fmt.Errorf("zone index %d is out of range: %d zones configured", i, len(o.Zones))
		}
		return o.Zones[i], nil
	}
	if o.Region == "" {
		return "", fmt.Errorf("a region or zone list is required to place subnets")
	}
	if i >= 26 {
		return "", fmt.Errorf("zone index %d is out of range", i)
	}
	return fmt.Sprintf("%s%c", o.Region, 'a'+i), nil
}

// Object is a renderable Kubernetes object.
type Object interface {
	metav1.Object
	GetObjectKind() schema.ObjectKind
}

// Manifest holds the objects of one graph in apply order.
type Manifest struct {
	Stack   string
	Objects []Object
}

// YAML renders the objects as a multi-document YAML stream.
func (m *Manifest) YAML() ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range m.Objects {
		data, err := sigsyaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", obj.GetObjectKind().GroupVersionKind().Kind, obj.GetName(), err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// Kinds returns the number of objects per kind.
func (m *Manifest) Kinds() map[string]int {
	out := map[string]int{}
	for _, obj := range m.Objects {
		out[obj.GetObjectKind().GroupVersionKind().Kind]++
	}
	return out
}

// Find returns the object of the given kind and name.
func (m *Manifest) Find(kind, name string) (Object, bool) {
	for _, obj := range m.Objects {
		if obj.GetObjectKind().GroupVersionKind().Kind == kind && obj.GetName() == name {
			return obj, true
		}
	}
	return nil, false
}

// Render builds one manifest per graph. Graphs are rendered in order, so a
// graph owning a network must come before the graphs consuming it.
func Render(opts Options, graphs ...*model.Graph) ([]*Manifest, error) {
	r := &renderer{opts: opts, networks: map[string]bool{}}
	out := make([]*Manifest, 0, len(graphs))
	for _, g := range graphs {
		m, err := r.render(g)
		if err != nil {
			return nil, fmt.Errorf("stack %s: %w", g.Name(), err)
		}
		out = append(out, m)
	}
	return out, nil
}

type renderer struct {
	opts Options
	// networks holds the rendered networks, keyed by networkKey.
	networks map[string]bool
}

// stack renders the objects of one graph.
type stack struct {
	*renderer
	graph    *model.Graph
	manifest *Manifest
	// roleNames maps role IDs to their IAM names.
	roleNames map[string]string
}

func (r *renderer) render(g *model.Graph) (*Manifest, error) {
	s := &stack{
		renderer:  r,
		graph:     g,
		manifest:  &Manifest{Stack: g.Name()},
		roleNames: map[string]string{},
	}
	steps := []func() error{s.roles, s.securityGroups, s.cluster, s.capacity, s.outputs}
	if n := g.Network(); n != nil {
		steps = append([]func() error{func() error { return s.network(n) }}, steps...)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return s.manifest, nil
}

// name returns the object name of declaration id owned by stackName.
func name(stackName, id string) (string, error) {
	n := strings.ToLower(stackName + "-" + id)
	if errs := validation.IsDNS1123Subdomain(n); len(errs) > 0 {
		return "", fmt.Errorf("object name %q: %s", n, strings.Join(errs, "; "))
	}
	return n, nil
}

func (s *stack) name(id string) (string, error) {
	return name(s.graph.Name(), id)
}

// networkName returns the object name of a declaration in network n, which
// must already be rendered.
func (s *stack) networkName(n *model.Network, id string) (string, error) {
	if n == nil {
		return "", fmt.Errorf("no network")
	}
	if !s.networks[networkKey(n)] {
		return "", fmt.Errorf("network %s of stack %s is not rendered; render that stack first", n.ID, n.StackName)
	}
	return name(n.StackName, id)
}

func networkKey(n *model.Network) string {
	return n.StackName + "/" + n.ID
}

func (s *stack) subnetNames(n *model.Network, subnets []model.Subnet) ([]string, error) {
	out := make([]string, 0, len(subnets))
	for _, sub := range subnets {
		nm, err := s.networkName(n, sub.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, nm)
	}
	return out, nil
}

func (s *stack) meta(objectName string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      objectName,
		Namespace: s.opts.namespace(),
		Labels: map[string]string{
			LabelManagedBy: managedBy,
			LabelStack:     s.graph.Name(),
		},
	}
}

func (s *stack) add(obj Object) {
	s.manifest.Objects = append(s.manifest.Objects, obj)
}

// mergedTags returns the project tags overlaid with extra.
func (s *stack) mergedTags(extra map[string]string) map[string]string {
	merged := s.graph.Tags()
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (s *stack) tagMap(extra map[string]string) map[string]*string {
	out := map[string]*string{}
	for k, v := range s.mergedTags(extra) {
		out[k] = ptr(v)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
