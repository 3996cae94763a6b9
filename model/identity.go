package model

import (
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Service principals trusted by the roles in this project.
const (
	ServiceEKS         = "eks.amazonaws.com"
	ServiceEC2         = "ec2.amazonaws.com"
	ServiceFargatePods = "eks-fargate-pods.amazonaws.com"
)

// PrincipalKind distinguishes the principals a role can trust.
type PrincipalKind string

const (
	PrincipalService     PrincipalKind = "Service"
	PrincipalAccountRoot PrincipalKind = "AccountRoot"
	PrincipalAWS         PrincipalKind = "AWS"
)

// Principal is an identity allowed to assume a role.
type Principal struct {
	Kind PrincipalKind
	// Value is the service name or ARN. Empty for the account root.
	Value string
}

// ServicePrincipal returns a principal for an AWS service.
func ServicePrincipal(service string) Principal {
	return Principal{Kind: PrincipalService, Value: service}
}

// AccountRootPrincipal returns the root principal of the deploying account.
func AccountRootPrincipal() Principal {
	return Principal{Kind: PrincipalAccountRoot}
}

// AWSPrincipal returns a principal for an IAM ARN.
func AWSPrincipal(arn string) Principal {
	return Principal{Kind: PrincipalAWS, Value: arn}
}

func (p Principal) String() string {
	if p.Kind == PrincipalAccountRoot {
		return "account-root"
	}
	return fmt.Sprintf("%s:%s", p.Kind, p.Value)
}

// ManagedPolicy names an AWS managed policy.
type ManagedPolicy string

const (
	PolicyEKSCluster                   ManagedPolicy = "AmazonEKSClusterPolicy"
	PolicyEKSCNI                       ManagedPolicy = "AmazonEKS_CNI_Policy"
	PolicyEKSVPCResourceController     ManagedPolicy = "AmazonEKSVPCResourceController"
	PolicyEKSWorkerNode                ManagedPolicy = "AmazonEKSWorkerNodePolicy"
	PolicyEC2ContainerRegistryReadOnly ManagedPolicy = "AmazonEC2ContainerRegistryReadOnly"
	PolicySSMManagedInstanceCore       ManagedPolicy = "AmazonSSMManagedInstanceCore"
	PolicyEKSFargatePodExecution       ManagedPolicy = "AmazonEKSFargatePodExecutionRolePolicy"
)

var managedPolicyCatalog = sets.New(
	PolicyEKSCluster,
	PolicyEKSCNI,
	PolicyEKSVPCResourceController,
	PolicyEKSWorkerNode,
	PolicyEC2ContainerRegistryReadOnly,
	PolicySSMManagedInstanceCore,
	PolicyEKSFargatePodExecution,
)

// Known reports whether the policy is in the managed policy catalog.
func (p ManagedPolicy) Known() bool {
	return managedPolicyCatalog.Has(p)
}

// ARN returns the policy ARN in the given partition.
func (p ManagedPolicy) ARN(partition string) string {
	return fmt.Sprintf("arn:%s:iam::aws:policy/%s", partition, p)
}

// KnownManagedPolicies lists the catalog in name order.
func KnownManagedPolicies() []ManagedPolicy {
	out := managedPolicyCatalog.UnsortedList()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Effect is the effect of a policy statement.
type Effect string

const (
	Allow Effect = "Allow"
	Deny  Effect = "Deny"
)

// Statement is an inline policy statement attached to a role.
type Statement struct {
	Sid       string
	Effect    Effect
	Actions   []string
	Resources []string
}

// Role is an IAM role declaration. TrustedBy with more than one entry is a
// composite principal: every listed principal may assume the role.
type Role struct {
	ID              string
	Name            string
	Description     string
	TrustedBy       []Principal
	ManagedPolicies []ManagedPolicy
	Statements      []Statement
}

// Trusts reports whether the role can be assumed by the given service.
func (r *Role) Trusts(service string) bool {
	for _, p := range r.TrustedBy {
		if p.Kind == PrincipalService && p.Value == service {
			return true
		}
	}
	return false
}

// TrustsAccountRoot reports whether the account root may assume the role.
func (r *Role) TrustsAccountRoot() bool {
	for _, p := range r.TrustedBy {
		if p.Kind == PrincipalAccountRoot {
			return true
		}
	}
	return false
}

// PolicySet returns the attached managed policies as a set.
func (r *Role) PolicySet() sets.Set[ManagedPolicy] {
	return sets.New(r.ManagedPolicies...)
}

func (r *Role) validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validateID(path.Child("id"), r.ID)...)
	if len(r.Name) > 64 {
		errs = append(errs, field.TooLong(path.Child("name"), r.Name, 64))
	}
	if len(r.TrustedBy) == 0 {
		errs = append(errs, field.Required(path.Child("trustedBy"), "a role must trust at least one principal"))
	}
	for i, p := range r.TrustedBy {
		pp := path.Child("trustedBy").Index(i)
		switch p.Kind {
		case PrincipalService, PrincipalAWS:
			if p.Value == "" {
				errs = append(errs, field.Required(pp.Child("value"), ""))
			}
		case PrincipalAccountRoot:
		default:
			errs = append(errs, field.NotSupported(pp.Child("kind"), p.Kind,
				[]string{string(PrincipalService), string(PrincipalAccountRoot), string(PrincipalAWS)}))
		}
	}

	seen := sets.New[ManagedPolicy]()
	for i, mp := range r.ManagedPolicies {
		pp := path.Child("managedPolicies").Index(i)
		if !mp.Known() {
			errs = append(errs, field.NotFound(pp, string(mp)))
			continue
		}
		if seen.Has(mp) {
			errs = append(errs, field.Duplicate(pp, string(mp)))
		}
		seen.Insert(mp)
	}

	for i, st := range r.Statements {
		sp := path.Child("statements").Index(i)
		if st.Effect != Allow && st.Effect != Deny {
			errs = append(errs, field.NotSupported(sp.Child("effect"), st.Effect, []string{string(Allow), string(Deny)}))
		}
		if len(st.Actions) == 0 {
			errs = append(errs, field.Required(sp.Child("actions"), ""))
		}
		if len(st.Resources) == 0 {
			errs = append(errs, field.Required(sp.Child("resources"), ""))
		}
	}
	return errs
}
