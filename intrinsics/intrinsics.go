// Package intrinsics provides the CloudFormation intrinsic functions used by
// the template renderer.
//
// The function types are aliases of cloudformation-schema-go's; this package
// adds tag lists and IAM policy documents that embed them.
//
//	Ref{LogicalName: "Vpc"}                  {"Ref": "Vpc"}
//	Select{Index: 0, List: GetAZs{}}         {"Fn::Select": [0, {"Fn::GetAZs": ""}]}
//	ImportValue{ExportName: "vpc-VpcId"}     {"Fn::ImportValue": "vpc-VpcId"}
package intrinsics

import (
	"sort"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
	GetAZs = intrinsics.GetAZs

	// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
	ImportValue = intrinsics.ImportValue

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Tags converts a key/value map into a CloudFormation tag list ordered by key.
func Tags(m map[string]string) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, Tag{Key: k, Value: m[k]})
	}
	return out
}
