package stack

import (
	"fmt"

	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/model"
)

// NewCapacity declares the configured capacity strategy.
func NewCapacity(c config.CapacityConfig, cluster *model.Cluster, roles Roles) (model.CapacityStrategy, error) {
	switch c.Strategy {
	case config.StrategyOnDemand:
		return model.OnDemandCapacity{
			NodeGroup: newNodeGroup(c.OnDemand, cluster, roles.Node, model.CapacityOnDemand),
		}, nil
	case config.StrategySpot:
		return model.SpotCapacity{
			NodeGroup: newNodeGroup(c.Spot, cluster, roles.Node, model.CapacitySpot),
		}, nil
	case config.StrategyServerless:
		return model.ServerlessCapacity{
			Profile: newFargateProfile(c.Fargate, cluster, roles.PodExecution),
		}, nil
	}
	return nil, fmt.Errorf("unknown capacity strategy %q", c.Strategy)
}

func newNodeGroup(c config.NodeGroupConfig, cluster *model.Cluster, role *model.Role, capacity model.CapacityType) *model.NodeGroup {
	return &model.NodeGroup{
		ID:            "NodeGroup",
		Name:          c.Name,
		Cluster:       cluster,
		InstanceTypes: append([]string(nil), c.InstanceTypes...),
		DiskSize:      c.DiskSize,
		Scaling: model.ScalingBounds{
			Min:     c.MinSize,
			Desired: c.DesiredSize,
			Max:     c.MaxSize,
		},
		Labels:       copyMap(c.Labels),
		Placement:    subnetKinds(c.Placement),
		AMIType:      model.AMIType(c.AMIType),
		CapacityType: capacity,
		NodeRole:     role,
	}
}

func newFargateProfile(c config.FargateConfig, cluster *model.Cluster, role *model.Role) *model.FargateProfile {
	fp := &model.FargateProfile{
		ID:               "FargateProfile",
		Name:             c.Name,
		Cluster:          cluster,
		PodExecutionRole: role,
	}
	for _, s := range c.Selectors {
		fp.Selectors = append(fp.Selectors, model.FargateSelector{
			Namespace: s.Namespace,
			Labels:    copyMap(s.Labels),
		})
	}
	return fp
}
