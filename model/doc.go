// Package model is the framework-neutral desired state of the stacks: the
// network, the IAM roles, the cluster security group, the EKS cluster, its
// capacity strategy and the outputs.
//
// Declarations are plain structs. A GraphBuilder accepts already-constructed
// declarations and returns an immutable Graph once every invariant holds:
//
//	g, err := model.NewGraphBuilder("eks-cluster-stack", project).
//		Roles(serviceRole, nodeRole, adminRole).
//		SecurityGroup(sg).
//		Cluster(cluster).
//		Capacity(model.OnDemandCapacity{NodeGroup: ng}).
//		Build()
//
// Renderers in internal/cfn and internal/pulumistack consume a Graph and never
// mutate it.
package model
