package model

import (
	"regexp"
)

// Attribute is a post-provisioning attribute of a declaration.
type Attribute string

const (
	AttrName       Attribute = "Name"
	AttrArn        Attribute = "Arn"
	AttrEndpoint   Attribute = "Endpoint"
	AttrOIDCIssuer Attribute = "OIDCIssuer"
)

// OutputValue is either a literal or an attribute of a declaration in the
// same graph.
type OutputValue struct {
	Literal   string
	Target    string
	Attribute Attribute
}

// IsReference reports whether the value points at a declaration.
func (v OutputValue) IsReference() bool {
	return v.Target != ""
}

// Literal returns a constant output value.
func Literal(s string) OutputValue {
	return OutputValue{Literal: s}
}

// AttributeOf returns an output value read from a declaration attribute.
func AttributeOf(id string, attr Attribute) OutputValue {
	return OutputValue{Target: id, Attribute: attr}
}

// Output is a named value exposed after provisioning.
type Output struct {
	Name        string
	Description string
	Value       OutputValue
}

var outputNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
