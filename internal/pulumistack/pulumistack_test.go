package pulumistack

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/internal/stack"
)

const testAccount = "123456789012"

// recorder implements pulumi.MockResourceMonitor and keeps the inputs and
// explicit dependencies of every registered resource by name.
type recorder struct {
	mu        sync.Mutex
	resources map[string]pulumi.MockResourceArgs
	deps      map[string][]string
}

func newRecorder() *recorder {
	return &recorder{
		resources: map[string]pulumi.MockResourceArgs{},
		deps:      map[string][]string{},
	}
}

func (r *recorder) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[args.Name] = args
	r.deps[args.Name] = args.RegisterRPC.GetDependencies()
	return args.Name + "_id", args.Inputs, nil
}

// dependsOn returns the names of the resources name explicitly depends on.
func (r *recorder) dependsOn(t *testing.T, name string) []string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	urns, ok := r.deps[name]
	require.True(t, ok, "resource %s was not registered", name)
	names := make([]string, len(urns))
	for i, urn := range urns {
		names[i] = urn[strings.LastIndex(urn, "::")+2:]
	}
	return names
}

func (r *recorder) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	if args.Token == "aws:index/getAvailabilityZones:getAvailabilityZones" {
		return resource.NewPropertyMapFromMap(map[string]interface{}{
			"names": []interface{}{"us-east-1a", "us-east-1b", "us-east-1c"},
		}), nil
	}
	return resource.PropertyMap{}, nil
}

func (r *recorder) get(t *testing.T, name string) pulumi.MockResourceArgs {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	args, ok := r.resources[name]
	require.True(t, ok, "resource %s was not registered", name)
	return args
}

// countByType counts the registered AWS resources per type token.
func (r *recorder) countByType() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int{}
	for _, args := range r.resources {
		if strings.HasPrefix(args.TypeToken, "aws:") {
			out[args.TypeToken]++
		}
	}
	return out
}

func testApp(t *testing.T, strategy string) *stack.App {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	if strategy != "" {
		cfg.Capacity.Strategy = strategy
	}
	app, err := stack.Synthesize(cfg)
	require.NoError(t, err)
	return app
}

func declare(t *testing.T, opts Options, app *stack.App) (*recorder, error) {
	t.Helper()
	mocks := newRecorder()
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		return Declare(ctx, opts, app.Graphs()...)
	}, pulumi.WithMocks("simple-eks", "dev", mocks))
	return mocks, err
}

func TestDeclare_OnDemand(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, ""))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"aws:ec2/vpc:Vpc":                                         1,
		"aws:ec2/internetGateway:InternetGateway":                 1,
		"aws:ec2/subnet:Subnet":                                   4,
		"aws:ec2/routeTable:RouteTable":                           3,
		"aws:ec2/routeTableAssociation:RouteTableAssociation":     4,
		"aws:ec2/eip:Eip":                                         1,
		"aws:ec2/natGateway:NatGateway":                           1,
		"aws:iam/role:Role":                                       3,
		"aws:iam/rolePolicyAttachment:RolePolicyAttachment":       7,
		"aws:iam/rolePolicy:RolePolicy":                           1,
		"aws:ec2/securityGroup:SecurityGroup":                     1,
		"aws:ec2/securityGroupRule:SecurityGroupRule":             1,
		"aws:eks/cluster:Cluster":                                 1,
		"aws:eks/accessEntry:AccessEntry":                         1,
		"aws:eks/accessPolicyAssociation:AccessPolicyAssociation": 1,
		"aws:eks/nodeGroup:NodeGroup":                             1,
	}, mocks.countByType())
}

func TestDeclare_Cluster(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, ""))
	require.NoError(t, err)

	cluster := mocks.get(t, "Cluster").Inputs
	assert.Equal(t, "1_cdk_c", cluster["name"].StringValue())
	assert.Equal(t, "1.31", cluster["version"].StringValue())

	vpcConfig := cluster["vpcConfig"].ObjectValue()
	assert.True(t, vpcConfig["endpointPublicAccess"].BoolValue())
	assert.False(t, vpcConfig["endpointPrivateAccess"].BoolValue())
	assert.Len(t, vpcConfig["subnetIds"].ArrayValue(), 4)

	access := cluster["accessConfig"].ObjectValue()
	assert.Equal(t, AuthenticationMode, access["authenticationMode"].StringValue())

	policy := mocks.get(t, "ClusterMastersAccessPolicy").Inputs
	assert.Equal(t, "arn:aws:eks::aws:cluster-access-policy/AmazonEKSClusterAdminPolicy", policy["policyArn"].StringValue())
}

func TestDeclare_NodeGroup(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, ""))
	require.NoError(t, err)

	ng := mocks.get(t, "NodeGroup").Inputs
	assert.Equal(t, "1_cdk_c_n_g", ng["nodeGroupName"].StringValue())
	assert.Equal(t, "ON_DEMAND", ng["capacityType"].StringValue())
	assert.Equal(t, "AL2_x86_64", ng["amiType"].StringValue())
	assert.Equal(t, float64(20), ng["diskSize"].NumberValue())
	assert.Len(t, ng["subnetIds"].ArrayValue(), 2)

	scaling := ng["scalingConfig"].ObjectValue()
	assert.Equal(t, float64(1), scaling["minSize"].NumberValue())
	assert.Equal(t, float64(2), scaling["desiredSize"].NumberValue())
	assert.Equal(t, float64(6), scaling["maxSize"].NumberValue())

	labels := ng["labels"].ObjectValue()
	assert.Equal(t, "on_demand", labels["lifecycle"].StringValue())
}

func TestDeclare_Network(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, ""))
	require.NoError(t, err)

	vpc := mocks.get(t, "Vpc").Inputs
	assert.Equal(t, "10.10.0.0/16", vpc["cidrBlock"].StringValue())
	assert.True(t, vpc["enableDnsHostnames"].BoolValue())

	public := mocks.get(t, "PublicSubnet1").Inputs
	assert.True(t, public["mapPublicIpOnLaunch"].BoolValue())
	assert.Equal(t, "us-east-1a", public["availabilityZone"].StringValue())
	assert.Equal(t, "1", public["tags"].ObjectValue()["kubernetes.io/role/elb"].StringValue())

	private := mocks.get(t, "PrivateSubnet2").Inputs
	assert.False(t, private["mapPublicIpOnLaunch"].BoolValue())
	assert.Equal(t, "us-east-1b", private["availabilityZone"].StringValue())
}

func TestDeclare_Roles(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, ""))
	require.NoError(t, err)

	admin := mocks.get(t, "ClusterAdminRole").Inputs
	assert.False(t, admin["name"].HasValue())
	trust := admin["assumeRolePolicy"].StringValue()
	assert.Contains(t, trust, "arn:aws:iam::123456789012:root")
	assert.Contains(t, trust, "ec2.amazonaws.com")

	attachment := mocks.get(t, "ClusterServiceRolePolicyAttachment1").Inputs
	assert.Equal(t, "arn:aws:iam::aws:policy/AmazonEKSClusterPolicy", attachment["policyArn"].StringValue())

	sg := mocks.get(t, "ClusterSecurityGroup").Inputs
	assert.False(t, sg["name"].HasValue())
	assert.Equal(t, "eks_cluster_sg", sg["tags"].ObjectValue()["Name"].StringValue())

	inline := mocks.get(t, "ClusterAdminRolePolicy").Inputs
	assert.Contains(t, inline["policy"].StringValue(), "eks:DescribeCluster")
}

func TestDeclare_WaitsForRolePolicies(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, ""))
	require.NoError(t, err)

	cluster := mocks.dependsOn(t, "Cluster")
	assert.Contains(t, cluster, "ClusterServiceRole")
	assert.Contains(t, cluster, "ClusterServiceRolePolicyAttachment1")
	assert.Contains(t, cluster, "ClusterServiceRolePolicyAttachment2")
	assert.NotContains(t, cluster, "NodeRolePolicyAttachment1")

	ng := mocks.dependsOn(t, "NodeGroup")
	for i := 1; i <= 3; i++ {
		assert.Contains(t, ng, fmt.Sprintf("NodeRolePolicyAttachment%d", i))
	}
	assert.Contains(t, ng, "Cluster")

	mocks, err = declare(t, Options{AccountID: testAccount}, testApp(t, config.StrategyServerless))
	require.NoError(t, err)
	assert.Contains(t, mocks.dependsOn(t, "FargateProfile"), "PodExecutionRolePolicyAttachment1")
}

func TestDeclare_Partition(t *testing.T) {
	mocks, err := declare(t, Options{Partition: "aws-cn", AccountID: testAccount}, testApp(t, ""))
	require.NoError(t, err)

	attachment := mocks.get(t, "NodeRolePolicyAttachment1").Inputs
	assert.Equal(t, "arn:aws-cn:iam::aws:policy/AmazonEKSWorkerNodePolicy", attachment["policyArn"].StringValue())
}

func TestDeclare_Spot(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, config.StrategySpot))
	require.NoError(t, err)

	ng := mocks.get(t, "NodeGroup").Inputs
	assert.Equal(t, "SPOT", ng["capacityType"].StringValue())
	assert.Equal(t, "spot", ng["labels"].ObjectValue()["lifecycle"].StringValue())
}

func TestDeclare_Serverless(t *testing.T) {
	mocks, err := declare(t, Options{AccountID: testAccount}, testApp(t, config.StrategyServerless))
	require.NoError(t, err)

	counts := mocks.countByType()
	assert.Zero(t, counts["aws:eks/nodeGroup:NodeGroup"])
	assert.Equal(t, 1, counts["aws:eks/fargateProfile:FargateProfile"])

	fp := mocks.get(t, "FargateProfile").Inputs
	assert.Equal(t, "miztiik_n_g_fargate", fp["fargateProfileName"].StringValue())
	assert.Len(t, fp["subnetIds"].ArrayValue(), 2)
	selectors := fp["selectors"].ArrayValue()
	require.Len(t, selectors, 1)
	assert.Equal(t, "miztiik_ns", selectors[0].ObjectValue()["namespace"].StringValue())
}

func TestDeclare_AccountRootNeedsAccountID(t *testing.T) {
	_, err := declare(t, Options{}, testApp(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role ClusterAdminRole")
}

func TestDeclare_ClusterBeforeNetwork(t *testing.T) {
	app := testApp(t, "")
	mocks := newRecorder()
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		return Declare(ctx, Options{AccountID: testAccount}, app.Cluster)
	}, pulumi.WithMocks("simple-eks", "dev", mocks))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not declared")
}
