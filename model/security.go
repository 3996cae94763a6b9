package model

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ProtocolAll matches every IP protocol.
const ProtocolAll = "-1"

// IngressRule admits traffic into a security group.
type IngressRule struct {
	Description string
	Protocol    string
	FromPort    int
	ToPort      int
	// Self admits traffic from members of the same group. When false,
	// SourceCIDR is used.
	Self       bool
	SourceCIDR string
}

// SelfIngress admits all traffic from the group to itself.
func SelfIngress(description string) IngressRule {
	return IngressRule{Description: description, Protocol: ProtocolAll, Self: true}
}

// SecurityGroup is a VPC security group declaration.
type SecurityGroup struct {
	ID               string
	Name             string
	Description      string
	Network          *Network
	AllowAllOutbound bool
	Ingress          []IngressRule
	Tags             map[string]string
}

func (sg *SecurityGroup) validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validateID(path.Child("id"), sg.ID)...)
	if sg.Description == "" {
		errs = append(errs, field.Required(path.Child("description"), ""))
	}
	if sg.Network == nil {
		errs = append(errs, field.Required(path.Child("network"), ""))
	}
	for i, r := range sg.Ingress {
		rp := path.Child("ingress").Index(i)
		if r.Protocol == "" {
			errs = append(errs, field.Required(rp.Child("protocol"), ""))
		}
		if !r.Self && r.SourceCIDR == "" {
			errs = append(errs, field.Required(rp.Child("sourceCIDR"), "required unless the rule is self-referential"))
		}
	}
	return errs
}

// validateClusterGroup checks the cluster security group shape: one ingress
// rule admitting all traffic from the group itself.
func (sg *SecurityGroup) validateClusterGroup(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	if len(sg.Ingress) != 1 {
		return append(errs, field.Invalid(path.Child("ingress"), len(sg.Ingress), "the cluster security group must have exactly one ingress rule"))
	}
	r := sg.Ingress[0]
	if !r.Self {
		errs = append(errs, field.Invalid(path.Child("ingress").Index(0).Child("self"), r.Self, "the cluster ingress rule must reference the group itself"))
	}
	if r.Protocol != ProtocolAll {
		errs = append(errs, field.Invalid(path.Child("ingress").Index(0).Child("protocol"), r.Protocol, "the cluster ingress rule must admit all traffic"))
	}
	return errs
}
