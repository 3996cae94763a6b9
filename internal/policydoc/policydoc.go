// Package policydoc renders model roles as IAM policy JSON for backends that
// take policy documents as plain strings.
package policydoc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/miztiik/simple-eks-cluster/model"
)

// Version is the IAM policy language version.
const Version = "2012-10-17"

// ErrNoAccountID is returned when a trust policy names the account root but
// no account ID is known.
var ErrNoAccountID = errors.New("trusting the account root needs an account ID")

// Document is an IAM policy document.
type Document struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is one statement of a Document. Action and Resource hold a
// string or a list of strings.
type Statement struct {
	Sid       string         `json:"Sid,omitempty"`
	Effect    string         `json:"Effect"`
	Principal map[string]any `json:"Principal,omitempty"`
	Action    any            `json:"Action"`
	Resource  any            `json:"Resource,omitempty"`
}

// Trust returns the assume-role policy of role.
func Trust(role *model.Role, partition, accountID string) (string, error) {
	var services, principals []string
	for _, p := range role.TrustedBy {
		switch p.Kind {
		case model.PrincipalService:
			services = append(services, p.Value)
		case model.PrincipalAccountRoot:
			if accountID == "" {
				return "", ErrNoAccountID
			}
			principals = append(principals, fmt.Sprintf("arn:%s:iam::%s:root", partition, accountID))
		case model.PrincipalAWS:
			principals = append(principals, p.Value)
		}
	}
	principal := map[string]any{}
	if len(services) > 0 {
		principal["Service"] = stringsOrOne(services)
	}
	if len(principals) > 0 {
		principal["AWS"] = stringsOrOne(principals)
	}
	return marshal(Statement{
		Effect:    string(model.Allow),
		Principal: principal,
		Action:    "sts:AssumeRole",
	})
}

// Inline returns the permissions policy holding statements.
func Inline(statements []model.Statement) (string, error) {
	out := make([]Statement, 0, len(statements))
	for _, st := range statements {
		out = append(out, Statement{
			Sid:      st.Sid,
			Effect:   string(st.Effect),
			Action:   stringsOrOne(st.Actions),
			Resource: stringsOrOne(st.Resources),
		})
	}
	return marshal(out...)
}

func marshal(statements ...Statement) (string, error) {
	data, err := json.Marshal(Document{Version: Version, Statement: statements})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func stringsOrOne(values []string) any {
	if len(values) == 1 {
		return values[0]
	}
	return values
}
