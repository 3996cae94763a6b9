package model

import (
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// CapacityType is the EC2 purchase model of a managed node group.
type CapacityType string

const (
	CapacityOnDemand CapacityType = "ON_DEMAND"
	CapacitySpot     CapacityType = "SPOT"
)

// AMIType is the machine image family of a managed node group.
type AMIType string

const (
	AMIAL2x86       AMIType = "AL2_x86_64"
	AMIAL2x86GPU    AMIType = "AL2_x86_64_GPU"
	AMIAL2ARM       AMIType = "AL2_ARM_64"
	AMIAL2023x86    AMIType = "AL2023_x86_64_STANDARD"
	AMIAL2023ARM    AMIType = "AL2023_ARM_64_STANDARD"
	AMIBottlerocket AMIType = "BOTTLEROCKET_x86_64"
)

var amiTypes = sets.New(AMIAL2x86, AMIAL2x86GPU, AMIAL2ARM, AMIAL2023x86, AMIAL2023ARM, AMIBottlerocket)

// ScalingBounds are the node group size limits.
type ScalingBounds struct {
	Min     int
	Desired int
	Max     int
}

// Valid reports whether 0 <= min <= desired <= max and max >= 1.
func (s ScalingBounds) Valid() bool {
	return s.Min >= 0 && s.Min <= s.Desired && s.Desired <= s.Max && s.Max >= 1
}

// NodeGroup is a managed EC2 worker pool attached to a cluster.
// InstanceTypes is ordered by preference.
type NodeGroup struct {
	ID            string
	Name          string
	Cluster       *Cluster
	InstanceTypes []string
	DiskSize      int
	Scaling       ScalingBounds
	Labels        map[string]string
	Placement     []SubnetKind
	AMIType       AMIType
	CapacityType  CapacityType
	NodeRole      *Role
}

// Subnets returns the cluster network subnets in the node group placement.
func (ng *NodeGroup) Subnets() []Subnet {
	if ng.Cluster == nil || ng.Cluster.Network == nil {
		return nil
	}
	return ng.Cluster.Network.SubnetsOf(ng.Placement...)
}

func (ng *NodeGroup) validate(path *field.Path, want CapacityType) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validateID(path.Child("id"), ng.ID)...)
	if ng.Name == "" {
		errs = append(errs, field.Required(path.Child("name"), ""))
	}
	if ng.Cluster == nil {
		errs = append(errs, field.Required(path.Child("cluster"), ""))
	}
	if len(ng.InstanceTypes) == 0 {
		errs = append(errs, field.Required(path.Child("instanceTypes"), "at least one instance type is required"))
	}
	seen := sets.New[string]()
	for i, it := range ng.InstanceTypes {
		if seen.Has(it) {
			errs = append(errs, field.Duplicate(path.Child("instanceTypes").Index(i), it))
		}
		seen.Insert(it)
	}
	if ng.DiskSize <= 0 {
		errs = append(errs, field.Invalid(path.Child("diskSize"), ng.DiskSize, "must be a positive number of GiB"))
	}
	if !ng.Scaling.Valid() {
		errs = append(errs, field.Invalid(path.Child("scaling"), ng.Scaling, "must satisfy 0 <= min <= desired <= max and max >= 1"))
	}
	errs = append(errs, validateLabels(path.Child("labels"), ng.Labels)...)
	if len(ng.Placement) == 0 {
		errs = append(errs, field.Required(path.Child("placement"), ""))
	}
	if !amiTypes.Has(ng.AMIType) {
		errs = append(errs, field.NotSupported(path.Child("amiType"), ng.AMIType, sortedStrings(amiTypes)))
	}
	if ng.CapacityType != want {
		errs = append(errs, field.Invalid(path.Child("capacityType"), ng.CapacityType, "must be "+string(want)+" for this capacity strategy"))
	}

	if ng.NodeRole == nil {
		errs = append(errs, field.Required(path.Child("nodeRole"), ""))
	} else {
		if !ng.NodeRole.Trusts(ServiceEC2) {
			errs = append(errs, field.Invalid(path.Child("nodeRole"), ng.NodeRole.ID, "must be trusted by "+ServiceEC2))
		}
		if ng.Cluster != nil && ng.NodeRole == ng.Cluster.ServiceRole {
			errs = append(errs, field.Invalid(path.Child("nodeRole"), ng.NodeRole.ID, "must differ from the cluster service role"))
		}
	}
	return errs
}

// FargateSelector matches pods by namespace and labels.
type FargateSelector struct {
	Namespace string
	Labels    map[string]string
}

// FargateProfile runs matching pods on Fargate in the cluster's private subnets.
type FargateProfile struct {
	ID               string
	Name             string
	Cluster          *Cluster
	PodExecutionRole *Role
	Selectors        []FargateSelector
}

// Subnets returns the private subnets of the cluster network.
func (fp *FargateProfile) Subnets() []Subnet {
	if fp.Cluster == nil || fp.Cluster.Network == nil {
		return nil
	}
	return fp.Cluster.Network.SubnetsOf(SubnetPrivate)
}

func (fp *FargateProfile) validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validateID(path.Child("id"), fp.ID)...)
	if fp.Name == "" {
		errs = append(errs, field.Required(path.Child("name"), ""))
	}
	if fp.Cluster == nil {
		errs = append(errs, field.Required(path.Child("cluster"), ""))
	}
	if fp.PodExecutionRole == nil {
		errs = append(errs, field.Required(path.Child("podExecutionRole"), ""))
	} else if !fp.PodExecutionRole.Trusts(ServiceFargatePods) {
		errs = append(errs, field.Invalid(path.Child("podExecutionRole"), fp.PodExecutionRole.ID, "must be trusted by "+ServiceFargatePods))
	}
	switch n := len(fp.Selectors); {
	case n == 0:
		errs = append(errs, field.Required(path.Child("selectors"), ""))
	case n > 5:
		errs = append(errs, field.TooMany(path.Child("selectors"), n, 5))
	}
	for i, s := range fp.Selectors {
		sp := path.Child("selectors").Index(i)
		if s.Namespace == "" {
			errs = append(errs, field.Required(sp.Child("namespace"), ""))
		}
		errs = append(errs, validateLabels(sp.Child("labels"), s.Labels)...)
	}
	return errs
}

// CapacityKind names a capacity strategy variant.
type CapacityKind string

const (
	CapacityKindOnDemand   CapacityKind = "on_demand"
	CapacityKindSpot       CapacityKind = "spot"
	CapacityKindServerless CapacityKind = "serverless"
)

// CapacityStrategy is the worker capacity attached to a cluster. It is one of
// OnDemandCapacity, SpotCapacity or ServerlessCapacity.
type CapacityStrategy interface {
	Kind() CapacityKind
	isCapacityStrategy()
}

// OnDemandCapacity is a managed node group of on-demand instances.
type OnDemandCapacity struct {
	NodeGroup *NodeGroup
}

// Kind implements CapacityStrategy.
func (OnDemandCapacity) Kind() CapacityKind  { return CapacityKindOnDemand }
func (OnDemandCapacity) isCapacityStrategy() {}

// SpotCapacity is a managed node group of spot instances.
type SpotCapacity struct {
	NodeGroup *NodeGroup
}

// Kind implements CapacityStrategy.
func (SpotCapacity) Kind() CapacityKind  { return CapacityKindSpot }
func (SpotCapacity) isCapacityStrategy() {}

// ServerlessCapacity schedules pods onto Fargate.
type ServerlessCapacity struct {
	Profile *FargateProfile
}

// Kind implements CapacityStrategy.
func (ServerlessCapacity) Kind() CapacityKind  { return CapacityKindServerless }
func (ServerlessCapacity) isCapacityStrategy() {}

func validateLabels(path *field.Path, labels map[string]string) field.ErrorList {
	var errs field.ErrorList
	for _, k := range sortedKeys(labels) {
		for _, msg := range validation.IsQualifiedName(k) {
			errs = append(errs, field.Invalid(path, k, msg))
		}
		for _, msg := range validation.IsValidLabelValue(labels[k]) {
			errs = append(errs, field.Invalid(path.Key(k), labels[k], msg))
		}
	}
	return errs
}
