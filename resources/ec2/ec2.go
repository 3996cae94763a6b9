// Package ec2 provides typed CloudFormation resources for AWS::EC2.
//
// Fields typed as any accept literals, intrinsics (Ref, GetAtt, Sub,
// ImportValue) or AttrRef values. Fields without omitempty are required by
// CloudFormation and are always emitted.
package ec2

// VPC represents AWS::EC2::VPC.
type VPC struct {
	CidrBlock          any   `json:"CidrBlock"`
	EnableDnsHostnames bool  `json:"EnableDnsHostnames,omitempty"`
	EnableDnsSupport   bool  `json:"EnableDnsSupport,omitempty"`
	InstanceTenancy    any   `json:"InstanceTenancy,omitempty"`
	Tags               []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r VPC) ResourceType() string { return "AWS::EC2::VPC" }

// InternetGateway represents AWS::EC2::InternetGateway.
type InternetGateway struct {
	Tags []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r InternetGateway) ResourceType() string { return "AWS::EC2::InternetGateway" }

// VPCGatewayAttachment represents AWS::EC2::VPCGatewayAttachment.
type VPCGatewayAttachment struct {
	VpcId             any `json:"VpcId"`
	InternetGatewayId any `json:"InternetGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r VPCGatewayAttachment) ResourceType() string { return "AWS::EC2::VPCGatewayAttachment" }

// Subnet represents AWS::EC2::Subnet.
type Subnet struct {
	VpcId               any   `json:"VpcId"`
	CidrBlock           any   `json:"CidrBlock,omitempty"`
	AvailabilityZone    any   `json:"AvailabilityZone,omitempty"`
	MapPublicIpOnLaunch bool  `json:"MapPublicIpOnLaunch,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Subnet) ResourceType() string { return "AWS::EC2::Subnet" }

// EIP represents AWS::EC2::EIP.
type EIP struct {
	Domain any   `json:"Domain,omitempty"`
	Tags   []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r EIP) ResourceType() string { return "AWS::EC2::EIP" }

// NatGateway represents AWS::EC2::NatGateway.
type NatGateway struct {
	SubnetId     any   `json:"SubnetId"`
	AllocationId any   `json:"AllocationId,omitempty"`
	Tags         []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r NatGateway) ResourceType() string { return "AWS::EC2::NatGateway" }

// RouteTable represents AWS::EC2::RouteTable.
type RouteTable struct {
	VpcId any   `json:"VpcId"`
	Tags  []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r RouteTable) ResourceType() string { return "AWS::EC2::RouteTable" }

// Route represents AWS::EC2::Route.
type Route struct {
	RouteTableId         any `json:"RouteTableId"`
	DestinationCidrBlock any `json:"DestinationCidrBlock,omitempty"`
	GatewayId            any `json:"GatewayId,omitempty"`
	NatGatewayId         any `json:"NatGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Route) ResourceType() string { return "AWS::EC2::Route" }

// SubnetRouteTableAssociation represents AWS::EC2::SubnetRouteTableAssociation.
type SubnetRouteTableAssociation struct {
	RouteTableId any `json:"RouteTableId"`
	SubnetId     any `json:"SubnetId"`
}

// ResourceType returns the CloudFormation type.
func (r SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}

// SecurityGroup represents AWS::EC2::SecurityGroup.
type SecurityGroup struct {
	GroupDescription     any   `json:"GroupDescription"`
	GroupName            any   `json:"GroupName,omitempty"`
	VpcId                any   `json:"VpcId,omitempty"`
	SecurityGroupEgress  []any `json:"SecurityGroupEgress,omitempty"`
	SecurityGroupIngress []any `json:"SecurityGroupIngress,omitempty"`
	Tags                 []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r SecurityGroup) ResourceType() string { return "AWS::EC2::SecurityGroup" }

// SecurityGroup_Egress is an inline egress rule of a SecurityGroup.
type SecurityGroup_Egress struct {
	IpProtocol  any `json:"IpProtocol"`
	CidrIp      any `json:"CidrIp,omitempty"`
	Description any `json:"Description,omitempty"`
	FromPort    any `json:"FromPort,omitempty"`
	ToPort      any `json:"ToPort,omitempty"`
}

// SecurityGroupIngress represents AWS::EC2::SecurityGroupIngress.
//
// A standalone ingress resource lets a group reference itself as the
// source without a circular dependency.
type SecurityGroupIngress struct {
	GroupId               any `json:"GroupId"`
	IpProtocol            any `json:"IpProtocol"`
	SourceSecurityGroupId any `json:"SourceSecurityGroupId,omitempty"`
	CidrIp                any `json:"CidrIp,omitempty"`
	Description           any `json:"Description,omitempty"`
	FromPort              any `json:"FromPort,omitempty"`
	ToPort                any `json:"ToPort,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r SecurityGroupIngress) ResourceType() string { return "AWS::EC2::SecurityGroupIngress" }
