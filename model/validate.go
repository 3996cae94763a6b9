package model

import (
	"fmt"
	"regexp"
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var logicalIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

func (b *GraphBuilder) validate() field.ErrorList {
	var errs field.ErrorList
	root := field.NewPath("stack")

	if b.name == "" {
		errs = append(errs, field.Required(root.Child("name"), ""))
	}
	errs = append(errs, b.project.validate(field.NewPath("project"))...)

	ids := &idRegistry{seen: map[string]*field.Path{}}

	if len(b.networks) > 1 {
		errs = append(errs, field.TooMany(root.Child("network"), len(b.networks), 1))
	}
	for i, n := range b.networks {
		p := root.Child("network").Index(i)
		if n == nil {
			errs = append(errs, field.Required(p, ""))
			continue
		}
		errs = append(errs, n.validate(p)...)
		errs = append(errs, ids.claim(p.Child("id"), n.ID)...)
		for j, s := range n.Subnets {
			errs = append(errs, ids.claim(p.Child("subnets").Index(j).Child("id"), s.ID)...)
		}
	}

	roles := sets.New[*Role]()
	for i, r := range b.roles {
		p := root.Child("roles").Index(i)
		if r == nil {
			errs = append(errs, field.Required(p, ""))
			continue
		}
		errs = append(errs, r.validate(p)...)
		errs = append(errs, ids.claim(p.Child("id"), r.ID)...)
		roles.Insert(r)
	}
	declaredRole := func(p *field.Path, r *Role) field.ErrorList {
		if r != nil && !roles.Has(r) {
			return field.ErrorList{field.NotFound(p, r.ID)}
		}
		return nil
	}

	groups := sets.New[*SecurityGroup]()
	for i, sg := range b.securityGroups {
		p := root.Child("securityGroups").Index(i)
		if sg == nil {
			errs = append(errs, field.Required(p, ""))
			continue
		}
		errs = append(errs, sg.validate(p)...)
		errs = append(errs, ids.claim(p.Child("id"), sg.ID)...)
		groups.Insert(sg)
	}

	if len(b.clusters) > 1 {
		errs = append(errs, field.TooMany(root.Child("cluster"), len(b.clusters), 1))
	}
	var cluster *Cluster
	for i, c := range b.clusters {
		p := root.Child("cluster").Index(i)
		if c == nil {
			errs = append(errs, field.Required(p, ""))
			continue
		}
		cluster = c
		errs = append(errs, c.validate(p)...)
		errs = append(errs, ids.claim(p.Child("id"), c.ID)...)
		errs = append(errs, declaredRole(p.Child("serviceRole"), c.ServiceRole)...)
		errs = append(errs, declaredRole(p.Child("mastersRole"), c.MastersRole)...)
		if c.SecurityGroup != nil && !groups.Has(c.SecurityGroup) {
			errs = append(errs, field.NotFound(p.Child("securityGroup"), c.SecurityGroup.ID))
		}
	}

	if len(b.capacities) > 1 {
		errs = append(errs, field.TooMany(root.Child("capacity"), len(b.capacities), 1))
	}
	for i, s := range b.capacities {
		p := root.Child("capacity").Index(i)
		if cluster == nil {
			errs = append(errs, field.Required(root.Child("cluster"), "a capacity strategy needs a cluster"))
		}
		switch c := s.(type) {
		case OnDemandCapacity:
			errs = append(errs, validateNodeGroup(p.Child("nodeGroup"), c.NodeGroup, CapacityOnDemand, cluster, ids, declaredRole)...)
		case SpotCapacity:
			errs = append(errs, validateNodeGroup(p.Child("nodeGroup"), c.NodeGroup, CapacitySpot, cluster, ids, declaredRole)...)
		case ServerlessCapacity:
			fp := c.Profile
			pp := p.Child("profile")
			if fp == nil {
				errs = append(errs, field.Required(pp, ""))
				break
			}
			errs = append(errs, fp.validate(pp)...)
			errs = append(errs, ids.claim(pp.Child("id"), fp.ID)...)
			errs = append(errs, declaredRole(pp.Child("podExecutionRole"), fp.PodExecutionRole)...)
			if cluster != nil && fp.Cluster != nil && fp.Cluster != cluster {
				errs = append(errs, field.Invalid(pp.Child("cluster"), fp.Cluster.ID, "must be the stack's cluster"))
			}
		default:
			errs = append(errs, field.Invalid(p, fmt.Sprintf("%T", s), "unknown capacity strategy"))
		}
	}

	targets := map[string]NodeKind{}
	for _, r := range b.roles {
		if r != nil {
			targets[r.ID] = KindRole
		}
	}
	if cluster != nil {
		targets[cluster.ID] = KindCluster
	}
	outputNames := sets.New[string]()
	for i, o := range b.outputs {
		p := root.Child("outputs").Index(i)
		if !outputNamePattern.MatchString(o.Name) {
			errs = append(errs, field.Invalid(p.Child("name"), o.Name, "must be alphanumeric"))
		}
		if outputNames.Has(o.Name) {
			errs = append(errs, field.Duplicate(p.Child("name"), o.Name))
		}
		outputNames.Insert(o.Name)
		errs = append(errs, validateOutputValue(p.Child("value"), o.Value, targets)...)
	}
	return errs
}

func validateNodeGroup(p *field.Path, ng *NodeGroup, want CapacityType, cluster *Cluster,
	ids *idRegistry, declaredRole func(*field.Path, *Role) field.ErrorList) field.ErrorList {
	if ng == nil {
		return field.ErrorList{field.Required(p, "")}
	}
	var errs field.ErrorList
	errs = append(errs, ng.validate(p, want)...)
	errs = append(errs, ids.claim(p.Child("id"), ng.ID)...)
	errs = append(errs, declaredRole(p.Child("nodeRole"), ng.NodeRole)...)
	if cluster != nil && ng.Cluster != nil && ng.Cluster != cluster {
		errs = append(errs, field.Invalid(p.Child("cluster"), ng.Cluster.ID, "must be the stack's cluster"))
	}
	return errs
}

var targetAttributes = map[NodeKind]sets.Set[Attribute]{
	KindRole:    sets.New(AttrName, AttrArn),
	KindCluster: sets.New(AttrName, AttrArn, AttrEndpoint, AttrOIDCIssuer),
}

func validateOutputValue(p *field.Path, v OutputValue, targets map[string]NodeKind) field.ErrorList {
	if !v.IsReference() {
		if v.Literal == "" {
			return field.ErrorList{field.Required(p, "an output needs a literal or a reference")}
		}
		return nil
	}
	kind, ok := targets[v.Target]
	if !ok {
		return field.ErrorList{field.NotFound(p.Child("target"), v.Target)}
	}
	if !targetAttributes[kind].Has(v.Attribute) {
		return field.ErrorList{field.NotSupported(p.Child("attribute"), v.Attribute, sortedStrings(targetAttributes[kind]))}
	}
	return nil
}

// idRegistry enforces unique logical IDs across a graph.
type idRegistry struct {
	seen map[string]*field.Path
}

func (r *idRegistry) claim(p *field.Path, id string) field.ErrorList {
	if id == "" {
		return nil
	}
	if _, ok := r.seen[id]; ok {
		return field.ErrorList{field.Duplicate(p, id)}
	}
	r.seen[id] = p
	return nil
}

func validateID(p *field.Path, id string) field.ErrorList {
	if id == "" {
		return field.ErrorList{field.Required(p, "")}
	}
	if !logicalIDPattern.MatchString(id) {
		return field.ErrorList{field.Invalid(p, id, "must start with a letter and contain only letters and digits")}
	}
	return nil
}

func sortedStrings[T ~string](s sets.Set[T]) []string {
	out := make([]string, 0, s.Len())
	for v := range s {
		out = append(out, string(v))
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
