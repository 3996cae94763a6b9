package stack

import (
	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/model"
)

// NewOutputs declares the cluster stack outputs.
func NewOutputs(cfg *config.Config, project model.Project, roles Roles, cluster *model.Cluster) []model.Output {
	outputs := []model.Output{{
		Name:        "AutomationFrom",
		Description: "To know more about this automation stack, check out our github page.",
		Value:       model.Literal(project.SourceInfo),
	}}
	if cfg.Outputs.ServiceRoleName {
		outputs = append(outputs, model.Output{
			Name:        "EksClusterRole",
			Description: "The EKS cluster service role name",
			Value:       model.AttributeOf(roles.Service.ID, model.AttrName),
		})
	}
	if cfg.Outputs.OIDCIssuer {
		outputs = append(outputs, model.Output{
			Name:        "EksClusterOIDCIssuer",
			Description: "The EKS cluster OpenID Connect issuer URL",
			Value:       model.AttributeOf(cluster.ID, model.AttrOIDCIssuer),
		})
	}
	return outputs
}
