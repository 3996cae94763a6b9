package cfn

import (
	"fmt"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/intrinsics"
	"github.com/miztiik/simple-eks-cluster/model"
)

// clusterAttributes maps model attributes to AWS::EKS::Cluster GetAtt names.
var clusterAttributes = map[model.Attribute]string{
	model.AttrArn:        "Arn",
	model.AttrEndpoint:   "Endpoint",
	model.AttrOIDCIssuer: "OpenIdConnectIssuerUrl",
}

func (r *renderer) outputs() error {
	for _, o := range r.graph.Outputs() {
		value, err := r.outputValue(o.Value)
		if err != nil {
			return fmt.Errorf("output %s: %w", o.Name, err)
		}
		if err := r.builder.AddOutput(o.Name, simpleeks.Output{
			Description: o.Description,
			Value:       value,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) outputValue(v model.OutputValue) (any, error) {
	if !v.IsReference() {
		return v.Literal, nil
	}

	// Name is the Ref of both roles and clusters.
	if v.Attribute == model.AttrName {
		return intrinsics.Ref{LogicalName: v.Target}, nil
	}

	if c := r.graph.Cluster(); c != nil && c.ID == v.Target {
		attr, ok := clusterAttributes[v.Attribute]
		if !ok {
			return nil, fmt.Errorf("cluster has no attribute %s", v.Attribute)
		}
		return simpleeks.AttrRef{Resource: v.Target, Attribute: attr}, nil
	}
	for _, role := range r.graph.Roles() {
		if role.ID == v.Target && v.Attribute == model.AttrArn {
			return arn(role.ID), nil
		}
	}
	return nil, fmt.Errorf("cannot resolve %s.%s", v.Target, v.Attribute)
}
