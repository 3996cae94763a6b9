// Package simpleeks declares a VPC, an EKS cluster and its worker capacity
// as an immutable desired-state model, and renders that model into
// CloudFormation templates, a Pulumi program or ACK Kubernetes manifests.
//
// The shared types in this file are the contracts between the renderers and
// the simple-eks CLI:
//
//	tmpl, err := cfn.Synthesize(app.Cluster)
//	data, err := template.ToJSON(tmpl)
//
// Typed resources (ec2.Subnet, eks.Cluster, iam.Role, ...) implement
// Resource and reference each other through intrinsics or AttrRef values.
package simpleeks

import (
	"encoding/json"
)

// Resource represents a CloudFormation resource.
// All resource types (ec2.VPC, eks.Cluster, iam.Role, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::EKS::Cluster")
	ResourceType() string
}

// AttrRef represents a GetAtt reference to a resource attribute.
//
// When serialized to CloudFormation JSON, AttrRef becomes:
//
//	{"Fn::GetAtt": ["ClusterServiceRole", "Arn"]}
type AttrRef struct {
	// Resource is the logical name of the referenced resource
	Resource string
	// Attribute is the attribute name (e.g., "Arn", "OpenIdConnectIssuerUrl")
	Attribute string
}

// MarshalJSON serializes AttrRef to CloudFormation GetAtt syntax.
func (a AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {a.Resource, a.Attribute},
	})
}

// IsZero returns true if the AttrRef has not been populated.
func (a AttrRef) IsZero() bool {
	return a.Resource == "" && a.Attribute == ""
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string  `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any     `json:"Value" yaml:"Value"`
	Export      *Export `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// Export names an output for Fn::ImportValue in other stacks.
type Export struct {
	Name string `json:"Name" yaml:"Name"`
}

// BuildResult is the JSON output from `simple-eks synth`.
type BuildResult struct {
	Success   bool                `json:"success"`
	Stacks    map[string]Template `json:"stacks,omitempty"`
	Resources []string            `json:"resources,omitempty"`
	Errors    []string            `json:"errors,omitempty"`
}

// ValidateResult is the JSON output from `simple-eks validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ListResult is the JSON output from `simple-eks list`.
type ListResult struct {
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Stack     string   `json:"stack"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// TemplateDiff groups resource-level differences between two templates.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffEntry describes one added, removed or modified resource.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type"`
	Changes  []string `json:"changes,omitempty"`
}

// DiffSummary counts the entries of a TemplateDiff.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// OptimizeResult is the JSON output from `simple-eks optimize`.
type OptimizeResult struct {
	Success          bool                 `json:"success"`
	Suggestions      []OptimizeSuggestion `json:"suggestions,omitempty"`
	DeclarationCount int                  `json:"declaration_count"`
	Summary          OptimizeSummary      `json:"summary"`
}

// OptimizeSuggestion is one improvement proposed for a declaration.
type OptimizeSuggestion struct {
	Rule        string `json:"rule"`
	Stack       string `json:"stack"`
	Declaration string `json:"declaration"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// OptimizeSummary counts suggestions per category.
type OptimizeSummary struct {
	Security    int `json:"security"`
	Cost        int `json:"cost"`
	Performance int `json:"performance"`
	Reliability int `json:"reliability"`
	Total       int `json:"total"`
}
