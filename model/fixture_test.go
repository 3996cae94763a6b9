package model

var testProject = Project{
	Owner:         "MystiqueAutomation",
	RepoName:      "simple-eks-cluster",
	SourceInfo:    "https://github.com/miztiik/simple-eks-cluster",
	Version:       "2021-04-25",
	SupportEmails: []string{"mystique@example.com"},
}

type fixture struct {
	network     *Network
	serviceRole *Role
	nodeRole    *Role
	adminRole   *Role
	sg          *SecurityGroup
	cluster     *Cluster
	nodeGroup   *NodeGroup
}

func newNetwork() *Network {
	return &Network{
		ID:        "Vpc",
		StackName: "eks-cluster-vpc-stack",
		CIDR:      "10.10.0.0/16",
		Subnets: []Subnet{
			{ID: "PublicSubnet1", Kind: SubnetPublic, CIDR: "10.10.0.0/24", Zone: 0},
			{ID: "PublicSubnet2", Kind: SubnetPublic, CIDR: "10.10.1.0/24", Zone: 1},
			{ID: "PrivateSubnet1", Kind: SubnetPrivate, CIDR: "10.10.2.0/24", Zone: 0},
			{ID: "PrivateSubnet2", Kind: SubnetPrivate, CIDR: "10.10.3.0/24", Zone: 1},
		},
		NATGateways: 1,
	}
}

func newFixture() *fixture {
	f := &fixture{network: newNetwork()}
	f.serviceRole = &Role{
		ID:        "ClusterServiceRole",
		Name:      "c_SvcRole",
		TrustedBy: []Principal{ServicePrincipal(ServiceEKS)},
		ManagedPolicies: []ManagedPolicy{
			PolicyEKSCluster, PolicyEKSCNI, PolicyEKSVPCResourceController,
		},
	}
	f.nodeRole = &Role{
		ID:        "NodeRole",
		Name:      "c_NodeRole",
		TrustedBy: []Principal{ServicePrincipal(ServiceEC2)},
		ManagedPolicies: []ManagedPolicy{
			PolicyEKSWorkerNode, PolicyEC2ContainerRegistryReadOnly, PolicyEKSCNI, PolicySSMManagedInstanceCore,
		},
	}
	f.adminRole = &Role{
		ID:        "ClusterAdminRole",
		Name:      "c_AdminRole",
		TrustedBy: []Principal{AccountRootPrincipal(), ServicePrincipal(ServiceEC2)},
		Statements: []Statement{{
			Effect:    Allow,
			Actions:   []string{"eks:DescribeCluster"},
			Resources: []string{"*"},
		}},
	}
	f.sg = &SecurityGroup{
		ID:               "ClusterSecurityGroup",
		Name:             "eks_cluster_sg",
		Description:      "EKS Cluster security group",
		Network:          f.network,
		AllowAllOutbound: true,
		Ingress:          []IngressRule{SelfIngress("Allow incoming within SG")},
	}
	f.cluster = &Cluster{
		ID:             "Cluster",
		Name:           "1_cdk_c",
		Version:        DefaultVersion,
		Network:        f.network,
		Placement:      []SubnetKind{SubnetPublic, SubnetPrivate},
		MastersRole:    f.adminRole,
		ServiceRole:    f.serviceRole,
		SecurityGroup:  f.sg,
		EndpointAccess: EndpointPublic,
	}
	f.nodeGroup = &NodeGroup{
		ID:            "NodeGroup",
		Name:          "1_cdk_c_n_g",
		Cluster:       f.cluster,
		InstanceTypes: []string{"t3.medium", "t3.large"},
		DiskSize:      20,
		Scaling:       ScalingBounds{Min: 1, Desired: 2, Max: 6},
		Labels:        map[string]string{"app": "miztiik_ng", "lifecycle": "on_demand"},
		Placement:     []SubnetKind{SubnetPublic},
		AMIType:       AMIAL2x86,
		CapacityType:  CapacityOnDemand,
		NodeRole:      f.nodeRole,
	}
	return f
}

func (f *fixture) builder() *GraphBuilder {
	return NewGraphBuilder("eks-cluster-stack", testProject).
		Roles(f.serviceRole, f.nodeRole, f.adminRole).
		SecurityGroup(f.sg).
		Cluster(f.cluster).
		Capacity(OnDemandCapacity{NodeGroup: f.nodeGroup}).
		Outputs(Output{
			Name:        "AutomationFrom",
			Description: "To know more about this automation stack, check out our github page.",
			Value:       Literal(testProject.SourceInfo),
		})
}
