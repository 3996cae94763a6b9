package model

import (
	"fmt"
	"net/netip"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// SubnetKind is the subnet group a subnet belongs to.
type SubnetKind string

const (
	SubnetPublic  SubnetKind = "public"
	SubnetPrivate SubnetKind = "private"
)

// Subnet is one subnet of a Network. Zone is the zero-based index of the
// availability zone in the region's zone list.
type Subnet struct {
	ID   string
	Kind SubnetKind
	CIDR string
	Zone int
}

// Network is a multi-AZ VPC with public and private subnet groups. StackName
// is the stack that owns it; other stacks consume it by reference.
type Network struct {
	ID          string
	StackName   string
	CIDR        string
	Subnets     []Subnet
	NATGateways int
}

// SubnetsOf returns the subnets of the given kinds in declaration order.
func (n *Network) SubnetsOf(kinds ...SubnetKind) []Subnet {
	var out []Subnet
	for _, s := range n.Subnets {
		for _, k := range kinds {
			if s.Kind == k {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Zones returns the number of distinct availability zones used.
func (n *Network) Zones() int {
	zones := map[int]struct{}{}
	for _, s := range n.Subnets {
		zones[s.Zone] = struct{}{}
	}
	return len(zones)
}

// ExportName is the cross-stack export name of a network attribute.
func (n *Network) ExportName(id string) string {
	return fmt.Sprintf("%s-%s", n.StackName, id)
}

func (n *Network) validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validateID(path.Child("id"), n.ID)...)
	if n.StackName == "" {
		errs = append(errs, field.Required(path.Child("stackName"), ""))
	}

	vpc, err := netip.ParsePrefix(n.CIDR)
	if err != nil {
		errs = append(errs, field.Invalid(path.Child("cidr"), n.CIDR, err.Error()))
	}

	type zoneKinds struct{ public, private int }
	zones := map[int]*zoneKinds{}
	var prefixes []netip.Prefix
	for i, s := range n.Subnets {
		sp := path.Child("subnets").Index(i)
		errs = append(errs, validateID(sp.Child("id"), s.ID)...)
		if s.Zone < 0 {
			errs = append(errs, field.Invalid(sp.Child("zone"), s.Zone, "must be non-negative"))
		}
		zk := zones[s.Zone]
		if zk == nil {
			zk = &zoneKinds{}
			zones[s.Zone] = zk
		}
		switch s.Kind {
		case SubnetPublic:
			zk.public++
		case SubnetPrivate:
			zk.private++
		default:
			errs = append(errs, field.NotSupported(sp.Child("kind"), s.Kind, []string{string(SubnetPublic), string(SubnetPrivate)}))
		}

		p, err := netip.ParsePrefix(s.CIDR)
		if err != nil {
			errs = append(errs, field.Invalid(sp.Child("cidr"), s.CIDR, err.Error()))
			continue
		}
		if vpc.IsValid() && (!vpc.Contains(p.Addr()) || p.Bits() < vpc.Bits()) {
			errs = append(errs, field.Invalid(sp.Child("cidr"), s.CIDR, fmt.Sprintf("must lie inside the VPC range %s", n.CIDR)))
		}
		for _, other := range prefixes {
			if other.Overlaps(p) {
				errs = append(errs, field.Invalid(sp.Child("cidr"), s.CIDR, fmt.Sprintf("overlaps %s", other)))
			}
		}
		prefixes = append(prefixes, p)
	}

	if len(zones) < 2 {
		errs = append(errs, field.Invalid(path.Child("subnets"), len(zones), "must span at least two availability zones"))
	}
	for zone, zk := range zones {
		if zk.public != 1 || zk.private != 1 {
			errs = append(errs, field.Invalid(path.Child("subnets"), zone,
				fmt.Sprintf("zone %d must have one public and one private subnet", zone)))
		}
	}
	if n.NATGateways < 0 || n.NATGateways > len(zones) {
		errs = append(errs, field.Invalid(path.Child("natGateways"), n.NATGateways,
			fmt.Sprintf("must be between 0 and %d", len(zones))))
	}
	return errs
}
