// Package iam provides typed CloudFormation resources for AWS::IAM.
package iam

// Role represents AWS::IAM::Role.
type Role struct {
	RoleName                 any   `json:"RoleName,omitempty"`
	Description              any   `json:"Description,omitempty"`
	AssumeRolePolicyDocument any   `json:"AssumeRolePolicyDocument"`
	ManagedPolicyArns        []any `json:"ManagedPolicyArns,omitempty"`
	Policies                 []any `json:"Policies,omitempty"`
	Path                     any   `json:"Path,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Role) ResourceType() string { return "AWS::IAM::Role" }

// Role_Policy is an inline policy embedded in a Role.
type Role_Policy struct {
	PolicyName     any `json:"PolicyName"`
	PolicyDocument any `json:"PolicyDocument"`
}
