package model

import (
	"regexp"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// EndpointAccess selects how the Kubernetes API endpoint is exposed.
type EndpointAccess string

const (
	EndpointPublic           EndpointAccess = "public"
	EndpointPrivate          EndpointAccess = "private"
	EndpointPublicAndPrivate EndpointAccess = "public_and_private"
)

// PublicAccess reports whether the endpoint is reachable from the internet.
func (e EndpointAccess) PublicAccess() bool {
	return e == EndpointPublic || e == EndpointPublicAndPrivate
}

// PrivateAccess reports whether the endpoint is reachable from inside the VPC.
func (e EndpointAccess) PrivateAccess() bool {
	return e == EndpointPrivate || e == EndpointPublicAndPrivate
}

// Access settings shared by every rendering of a cluster. The masters role
// gets an access entry bound to the cluster admin policy.
const (
	AuthenticationMode = "API_AND_CONFIG_MAP"
	ClusterAdminPolicy = "AmazonEKSClusterAdminPolicy"
)

// ClusterAdminPolicyARN returns the EKS access policy ARN granted to the
// masters role.
func ClusterAdminPolicyARN(partition string) string {
	return "arn:" + partition + ":eks::aws:cluster-access-policy/" + ClusterAdminPolicy
}

// DefaultVersion is the Kubernetes version pinned when none is configured.
const DefaultVersion = "1.31"

// SupportedVersions are the EKS control plane releases accepted by the model.
var SupportedVersions = []string{"1.29", "1.30", "1.31", "1.32", "1.33"}

var clusterNamePattern = regexp.MustCompile(`^[0-9A-Za-z][A-Za-z0-9_-]*$`)

// Cluster is the EKS control plane declaration.
type Cluster struct {
	ID      string
	Name    string
	Version string
	Network *Network
	// Placement lists the subnet groups the control plane spans.
	Placement       []SubnetKind
	DefaultCapacity int
	MastersRole     *Role
	ServiceRole     *Role
	SecurityGroup   *SecurityGroup
	EndpointAccess  EndpointAccess
}

// Subnets returns the network subnets in the cluster's placement.
func (c *Cluster) Subnets() []Subnet {
	if c.Network == nil {
		return nil
	}
	return c.Network.SubnetsOf(c.Placement...)
}

func (c *Cluster) validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validateID(path.Child("id"), c.ID)...)

	switch {
	case c.Name == "":
		errs = append(errs, field.Required(path.Child("name"), ""))
	case len(c.Name) > 100:
		errs = append(errs, field.TooLong(path.Child("name"), c.Name, 100))
	case !clusterNamePattern.MatchString(c.Name):
		errs = append(errs, field.Invalid(path.Child("name"), c.Name, "must start with a letter or digit and contain only letters, digits, '-' and '_'"))
	}

	if !sets.New(SupportedVersions...).Has(c.Version) {
		errs = append(errs, field.NotSupported(path.Child("version"), c.Version, SupportedVersions))
	}

	if c.DefaultCapacity != 0 {
		errs = append(errs, field.Invalid(path.Child("defaultCapacity"), c.DefaultCapacity, "must be 0; worker capacity is declared explicitly"))
	}

	if c.Network == nil {
		errs = append(errs, field.Required(path.Child("network"), ""))
	}
	placed := sets.New(c.Placement...)
	if !placed.Has(SubnetPublic) || !placed.Has(SubnetPrivate) {
		errs = append(errs, field.Invalid(path.Child("placement"), c.Placement, "must include both public and private subnets"))
	}

	switch c.EndpointAccess {
	case EndpointPublic, EndpointPrivate, EndpointPublicAndPrivate:
	default:
		errs = append(errs, field.NotSupported(path.Child("endpointAccess"), c.EndpointAccess,
			[]string{string(EndpointPublic), string(EndpointPrivate), string(EndpointPublicAndPrivate)}))
	}

	if c.ServiceRole == nil {
		errs = append(errs, field.Required(path.Child("serviceRole"), ""))
	} else if !c.ServiceRole.Trusts(ServiceEKS) {
		errs = append(errs, field.Invalid(path.Child("serviceRole"), c.ServiceRole.ID, "must be trusted by "+ServiceEKS))
	}
	if c.MastersRole == nil {
		errs = append(errs, field.Required(path.Child("mastersRole"), ""))
	} else if c.MastersRole == c.ServiceRole {
		errs = append(errs, field.Invalid(path.Child("mastersRole"), c.MastersRole.ID, "must differ from the service role"))
	}

	if c.SecurityGroup == nil {
		errs = append(errs, field.Required(path.Child("securityGroup"), ""))
	} else {
		errs = append(errs, c.SecurityGroup.validateClusterGroup(path.Child("securityGroup"))...)
		if c.Network != nil && c.SecurityGroup.Network != nil && c.SecurityGroup.Network != c.Network {
			errs = append(errs, field.Invalid(path.Child("securityGroup", "network"), c.SecurityGroup.Network.ID, "must be the cluster network"))
		}
	}
	return errs
}
