package cfn

import (
	"github.com/miztiik/simple-eks-cluster/intrinsics"
	"github.com/miztiik/simple-eks-cluster/model"
	"github.com/miztiik/simple-eks-cluster/resources/iam"
)

const partition = "${AWS::Partition}"

func (r *renderer) roles() error {
	for _, role := range r.graph.Roles() {
		res := iam.Role{
			Description:              role.Description,
			AssumeRolePolicyDocument: trustPolicy(role),
			Tags:                     r.tagList(nil),
		}
		if role.Name != "" {
			res.RoleName = role.Name
		}
		for _, p := range role.ManagedPolicies {
			res.ManagedPolicyArns = append(res.ManagedPolicyArns, intrinsics.Sub{String: p.ARN(partition)})
		}
		if len(role.Statements) > 0 {
			res.Policies = []any{iam.Role_Policy{
				PolicyName:     role.ID + "Policy",
				PolicyDocument: inlinePolicy(role.Statements),
			}}
		}
		if err := r.add(role.ID, res); err != nil {
			return err
		}
	}
	return nil
}

// trustPolicy allows every trusted principal of the role to assume it from a
// single statement.
func trustPolicy(role *model.Role) intrinsics.PolicyDocument {
	var principal intrinsics.CompositePrincipal
	for _, p := range role.TrustedBy {
		switch p.Kind {
		case model.PrincipalService:
			principal.Service = append(principal.Service, p.Value)
		case model.PrincipalAccountRoot:
			principal.AWS = append(principal.AWS, intrinsics.AccountRoot)
		case model.PrincipalAWS:
			principal.AWS = append(principal.AWS, p.Value)
		}
	}
	return intrinsics.NewPolicyDocument(intrinsics.PolicyStatement{
		Effect:    string(model.Allow),
		Principal: principal,
		Action:    "sts:AssumeRole",
	})
}

func inlinePolicy(statements []model.Statement) intrinsics.PolicyDocument {
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, intrinsics.PolicyStatement{
			Sid:      s.Sid,
			Effect:   string(s.Effect),
			Action:   intrinsics.Strings(s.Actions),
			Resource: intrinsics.Strings(s.Resources),
		})
	}
	return intrinsics.NewPolicyDocument(out...)
}
