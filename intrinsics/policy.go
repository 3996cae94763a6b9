package intrinsics

import (
	"encoding/json"
)

// PolicyDocument is an IAM policy document whose values may hold intrinsics.
type PolicyDocument struct {
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the 2012-10-17 version.
func NewPolicyDocument(statements ...any) PolicyDocument {
	return PolicyDocument{Version: "2012-10-17", Statement: statements}
}

// PolicyStatement is one statement of a PolicyDocument.
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
}

// CompositePrincipal trusts account and service principals from one
// statement:
//
//	CompositePrincipal{AWS: []any{AccountRoot}, Service: []any{"ec2.amazonaws.com"}}
//
// serializes to {"AWS": {"Fn::Sub": ...}, "Service": "ec2.amazonaws.com"}.
// A kind with a single value is written as a scalar.
type CompositePrincipal struct {
	AWS     []any
	Service []any
}

// MarshalJSON writes the non-empty principal kinds side by side.
func (p CompositePrincipal) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if len(p.AWS) > 0 {
		out["AWS"] = scalarOrList(p.AWS)
	}
	if len(p.Service) > 0 {
		out["Service"] = scalarOrList(p.Service)
	}
	return json.Marshal(out)
}

// AccountRoot is the root principal of the deploying account.
var AccountRoot = Sub{String: "arn:${AWS::Partition}:iam::${AWS::AccountId}:root"}

// Strings returns the values as a scalar when there is one, else a list.
func Strings(values []string) any {
	if len(values) == 1 {
		return values[0]
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func scalarOrList(values []any) any {
	if len(values) == 1 {
		return values[0]
	}
	return values
}
